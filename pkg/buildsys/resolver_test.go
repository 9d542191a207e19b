package buildsys

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepNames(plan *Plan) []string {
	names := make([]string, len(plan.Steps))
	for idx, step := range plan.Steps {
		names[idx] = step.String()
	}
	return names
}

func diamondCatalog(t *testing.T) *Catalog {
	t.Helper()

	catalog, err := NewCatalog(
		&Project{Name: "base", Build: "make base"},
		&Project{Name: "left", Deps: []string{"base"}, Build: "make left"},
		&Project{Name: "right", Deps: []string{"base"}, Build: "make right", Clean: "make clean"},
		&Project{Name: "top", Deps: []string{"right", "left"}, Build: "make top", Clean: "make clean"},
	)
	require.NoError(t, err)
	return catalog
}

func TestClosureOrdersDependenciesFirst(t *testing.T) {
	resolver := NewResolver(diamondCatalog(t))

	closure, err := resolver.Closure("top")
	require.NoError(t, err)
	// siblings follow registration order, not declaration order
	assert.Equal(t, []string{"base", "left", "right", "top"}, closure)

	closure, err = resolver.Closure("base")
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, closure)
}

func TestPlanBuildExample(t *testing.T) {
	catalog, err := NewCatalog(
		&Project{Name: "A", Path: "a", Build: "cmdA"},
		&Project{Name: "B", Path: "b", Deps: []string{"A"}, Build: "cmdB"},
	)
	require.NoError(t, err)

	plan, err := NewResolver(catalog).Plan("B", DefaultPlanOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"generate(A)", "build(A)", "generate(B)", "build(B)"}, stepNames(plan))
	assert.True(t, plan.Steps[0].Skip)
	assert.False(t, plan.Steps[1].Skip)
	assert.Equal(t, "cmdA", plan.Steps[1].Command)
	assert.Equal(t, "a", plan.Steps[1].Path)
	assert.Equal(t, "B", plan.Target)
	assert.Equal(t, ModeBuild, plan.Mode)
}

func TestPlanDefaultCatalog(t *testing.T) {
	resolver := NewResolver(DefaultCatalog())

	tests := []struct {
		name   string
		target string
		opts   PlanOptions
		want   []string
	}{
		{
			name:   "build api",
			target: "api",
			opts:   DefaultPlanOptions(),
			want:   []string{"generate(api)", "build(api)"},
		},
		{
			name:   "build pleiades",
			target: "pleiades",
			opts:   DefaultPlanOptions(),
			want:   []string{"generate(api)", "build(api)", "generate(pleiades)", "build(pleiades)"},
		},
		{
			name:   "without generate",
			target: "pleiades",
			opts:   PlanOptions{Mode: ModeBuild},
			want:   []string{"build(api)", "build(pleiades)"},
		},
		{
			name:   "clean first",
			target: "pleiades",
			opts:   PlanOptions{Mode: ModeBuild, Clean: true, Generate: true},
			want:   []string{"clean(pleiades)", "generate(api)", "build(api)", "generate(pleiades)", "build(pleiades)"},
		},
		{
			name:   "full rebuild",
			target: "pleiades",
			opts:   PlanOptions{Mode: ModeFullRebuild, Generate: true},
			want: []string{"clean(pleiades)", "clean(api)", "generate(api)", "build(api)",
				"generate(pleiades)", "build(pleiades)"},
		},
		{
			name:   "full rebuild of a leaf",
			target: "api",
			opts:   PlanOptions{Mode: ModeFullRebuild, Generate: true},
			want:   []string{"clean(api)", "generate(api)", "build(api)"},
		},
		{
			name:   "clean only ignores the target",
			target: "api",
			opts:   PlanOptions{Mode: ModeCleanOnly},
			want:   []string{"clean(api)", "clean(pleiades)"},
		},
		{
			name:   "lint before build",
			target: "pleiades",
			opts:   PlanOptions{Mode: ModeBuild, Lint: true},
			want:   []string{"lint(api)", "lint(pleiades)", "build(api)", "build(pleiades)"},
		},
		{
			name:   "lint only",
			target: "pleiades",
			opts:   PlanOptions{Mode: ModeLintOnly, Generate: true},
			want:   []string{"lint(api)", "lint(pleiades)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := resolver.Plan(tt.target, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stepNames(plan))
		})
	}
}

func TestPlanMarksEmptyCommandsSkipped(t *testing.T) {
	plan, err := NewResolver(DefaultCatalog()).Plan("pleiades", PlanOptions{Mode: ModeFullRebuild, Generate: true})
	require.NoError(t, err)

	skipped := map[string]bool{}
	for _, step := range plan.Steps {
		skipped[step.String()] = step.Skip
	}

	assert.Equal(t, map[string]bool{
		"clean(pleiades)":    false,
		"clean(api)":         true,
		"generate(api)":      false,
		"build(api)":         false,
		"generate(pleiades)": true,
		"build(pleiades)":    false,
	}, skipped)
}

func TestPlanFullRebuildCleansOnlyDirectDependencies(t *testing.T) {
	plan, err := NewResolver(diamondCatalog(t)).Plan("top", PlanOptions{Mode: ModeFullRebuild})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"clean(top)", "clean(left)", "clean(right)",
		"build(base)", "build(left)", "build(right)", "build(top)",
	}, stepNames(plan))
}

func TestPlanAllIsUnsupported(t *testing.T) {
	plan, err := NewResolver(DefaultCatalog()).Plan(AllTarget, DefaultPlanOptions())
	assert.Nil(t, plan)

	var unsupported *Unsupported
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "all", unsupported.Target)
	assert.Equal(t, "all is unsupported right now", err.Error())
}

func TestPlanUnknownTarget(t *testing.T) {
	for _, mode := range []Mode{ModeBuild, ModeCleanOnly, ModeFullRebuild, ModeLintOnly} {
		plan, err := NewResolver(DefaultCatalog()).Plan("nope", PlanOptions{Mode: mode})
		assert.Nil(t, plan)

		var unknown *UnknownProject
		assert.True(t, errors.As(err, &unknown), mode.String())
	}
}

func TestPlanUnknownMode(t *testing.T) {
	_, err := NewResolver(DefaultCatalog()).Plan("api", PlanOptions{Mode: Mode(42)})
	assert.Error(t, err)
}

func TestPlanIsDeterministic(t *testing.T) {
	resolver := NewResolver(diamondCatalog(t))
	opts := PlanOptions{Mode: ModeFullRebuild, Generate: true, Lint: true}

	first, err := resolver.Plan("top", opts)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := resolver.Plan("top", opts)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPlanOrdersDependenciesBeforeDependents(t *testing.T) {
	catalog := diamondCatalog(t)
	resolver := NewResolver(catalog)

	for _, target := range catalog.Names() {
		plan, err := resolver.Plan(target, DefaultPlanOptions())
		require.NoError(t, err)

		position := map[string]int{}
		for idx, step := range plan.Steps {
			if step.Action == ActionBuild {
				position[step.Project] = idx
			}
		}

		closure, err := resolver.Closure(target)
		require.NoError(t, err)
		for _, name := range closure {
			deps, err := catalog.DependenciesOf(name)
			require.NoError(t, err)

			for _, dep := range deps {
				assert.Less(t, position[dep], position[name], "%s must build before %s", dep, name)
			}
		}
		assert.Equal(t, len(plan.Steps)-1, position[target])
	}
}
