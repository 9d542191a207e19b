package buildsys

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	assert.Equal(t, []string{"api", "pleiades"}, catalog.Names())
	assert.Equal(t, 2, catalog.Len())

	deps, err := catalog.DependenciesOf("pleiades")
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, deps)

	deps, err = catalog.DependenciesOf("api")
	require.NoError(t, err)
	assert.Empty(t, deps)

	api, err := catalog.Lookup("api")
	require.NoError(t, err)
	assert.Equal(t, "buf build", api.Build)
	assert.Equal(t, "buf generate", api.Generate)
	assert.Empty(t, api.Clean)
}

func TestCatalogLookupUnknown(t *testing.T) {
	catalog := DefaultCatalog()

	_, err := catalog.Lookup("nope")
	var unknown *UnknownProject
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nope", unknown.Name)
	assert.Empty(t, unknown.Referrer)

	_, err = catalog.DependenciesOf("nope")
	assert.True(t, errors.As(err, &unknown))
}

func TestCatalogIsReadOnly(t *testing.T) {
	deps := []string{"a"}
	catalog, err := NewCatalog(&Project{Name: "a"}, &Project{Name: "b", Deps: deps})
	require.NoError(t, err)

	deps[0] = "changed"
	got, err := catalog.DependenciesOf("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	got[0] = "changed"
	project, err := catalog.Lookup("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, project.Deps)

	names := catalog.Names()
	names[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, catalog.Names())
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name     string
		projects []*Project
		check    func(t *testing.T, err error)
	}{
		{
			name:     "unknown dependency",
			projects: []*Project{{Name: "a", Deps: []string{"missing"}}},
			check: func(t *testing.T, err error) {
				var unknown *UnknownProject
				require.True(t, errors.As(err, &unknown))
				assert.Equal(t, "missing", unknown.Name)
				assert.Equal(t, "a", unknown.Referrer)
				assert.Contains(t, err.Error(), "a depends on unknown project missing")
			},
		},
		{
			name:     "self dependency",
			projects: []*Project{{Name: "a", Deps: []string{"a"}}},
			check: func(t *testing.T, err error) {
				var cycle *CyclicDependency
				require.True(t, errors.As(err, &cycle))
				assert.Equal(t, []string{"a", "a"}, cycle.Cycle)
			},
		},
		{
			name: "transitive cycle",
			projects: []*Project{
				{Name: "a", Deps: []string{"c"}},
				{Name: "b", Deps: []string{"a"}},
				{Name: "c", Deps: []string{"b"}},
			},
			check: func(t *testing.T, err error) {
				var cycle *CyclicDependency
				require.True(t, errors.As(err, &cycle))
				assert.Equal(t, []string{"a", "c", "b", "a"}, cycle.Cycle)
				assert.Equal(t, "dependency cycle detected: a -> c -> b -> a", err.Error())
			},
		},
		{
			name:     "duplicate",
			projects: []*Project{{Name: "a"}, {Name: "a"}},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "declared twice")
			},
		},
		{
			name: "repeated dependency",
			projects: []*Project{
				{Name: "api"},
				{Name: "app", Deps: []string{"api", "api"}},
			},
			check: func(t *testing.T, err error) {
				assert.Equal(t, "project app lists dependency api twice", err.Error())
			},
		},
		{
			name:     "empty name",
			projects: []*Project{{Path: "x"}},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "without a name")
			},
		},
		{
			name:     "reserved name",
			projects: []*Project{{Name: AllTarget}},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "reserved")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := NewCatalog(tt.projects...)
			require.Error(t, err)
			assert.Nil(t, catalog)
			tt.check(t, err)
		})
	}
}

func TestNewCatalogDiamond(t *testing.T) {
	catalog, err := NewCatalog(
		&Project{Name: "base"},
		&Project{Name: "left", Deps: []string{"base"}},
		&Project{Name: "right", Deps: []string{"base"}},
		&Project{Name: "top", Deps: []string{"right", "left"}},
	)
	require.NoError(t, err)
	assert.Equal(t, 4, catalog.Len())
}
