package buildsys

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Resolver turns a target and a set of options into a Plan
type Resolver struct {
	catalog *Catalog
}

// NewResolver returns a resolver for the given catalog
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Catalog returns the catalog used by this resolver
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// sortedDeps returns the direct dependencies of project in registration order
func (r *Resolver) sortedDeps(project *Project) []string {
	deps := append([]string{}, project.Deps...)
	sort.SliceStable(deps, func(i, j int) bool {
		return r.catalog.index(deps[i]) < r.catalog.index(deps[j])
	})
	return deps
}

// Closure returns the target and all of its transitive dependencies. Dependencies are always
// listed before their dependents and the target is always last.
func (r *Resolver) Closure(target string) ([]string, error) {
	if _, ok := r.catalog.projects[target]; !ok {
		return nil, &UnknownProject{Name: target}
	}

	result := make([]string, 0)
	visited := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true

		// the catalog is validated on construction so there can't be any cycles here
		for _, dep := range r.sortedDeps(r.catalog.projects[name]) {
			visit(dep)
		}

		result = append(result, name)
	}

	visit(target)
	return result, nil
}

func (r *Resolver) step(name string, action Action) Step {
	project := r.catalog.projects[name]
	cmd := project.Command(action)

	return Step{
		Project: name,
		Action:  action,
		Path:    project.Path,
		Command: cmd,
		Skip:    strings.TrimSpace(cmd) == "",
	}
}

// Plan resolves the steps needed to process target with the given options.
// The special target "all" yields an *Unsupported error, unknown targets an *UnknownProject error.
func (r *Resolver) Plan(target string, opts PlanOptions) (*Plan, error) {
	if target == AllTarget {
		return nil, &Unsupported{Target: target}
	}

	project, ok := r.catalog.projects[target]
	if !ok {
		return nil, &UnknownProject{Name: target}
	}

	plan := &Plan{
		Target: target,
		Mode:   opts.Mode,
		Steps:  make([]Step, 0),
	}

	if opts.Mode == ModeCleanOnly {
		// clean-only resets the whole workspace, not just the target
		for _, name := range r.catalog.order {
			plan.Steps = append(plan.Steps, r.step(name, ActionClean))
		}
		return plan, nil
	}

	closure, err := r.Closure(target)
	if err != nil {
		return nil, err
	}

	switch opts.Mode {
	case ModeLintOnly:
		for _, name := range closure {
			plan.Steps = append(plan.Steps, r.step(name, ActionLint))
		}
		return plan, nil
	case ModeFullRebuild:
		// only the direct dependencies are cleaned together with the target
		plan.Steps = append(plan.Steps, r.step(target, ActionClean))
		for _, dep := range r.sortedDeps(project) {
			plan.Steps = append(plan.Steps, r.step(dep, ActionClean))
		}
	case ModeBuild:
		if opts.Clean {
			plan.Steps = append(plan.Steps, r.step(target, ActionClean))
		}
	default:
		return nil, eris.Errorf("unknown mode %s", opts.Mode)
	}

	if opts.Lint {
		for _, name := range closure {
			plan.Steps = append(plan.Steps, r.step(name, ActionLint))
		}
	}

	for _, name := range closure {
		if opts.Generate {
			plan.Steps = append(plan.Steps, r.step(name, ActionGenerate))
		}
		plan.Steps = append(plan.Steps, r.step(name, ActionBuild))
	}

	return plan, nil
}
