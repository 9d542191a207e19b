package buildsys

import (
	"github.com/rotisserie/eris"
)

// AllTarget is the reserved target name for building every project
const AllTarget = "all"

// Catalog is the read-only registry of all known projects
type Catalog struct {
	projects map[string]*Project
	order    []string
}

// NewCatalog registers the given projects in order and validates their dependencies.
// Unknown dependencies produce an *UnknownProject error and cycles a *CyclicDependency error.
func NewCatalog(projects ...*Project) (*Catalog, error) {
	c := &Catalog{
		projects: make(map[string]*Project, len(projects)),
		order:    make([]string, 0, len(projects)),
	}

	for _, project := range projects {
		if project == nil {
			continue
		}

		if project.Name == "" {
			return nil, eris.New("found a project without a name")
		}

		if project.Name == AllTarget {
			return nil, eris.Errorf(`the project name "%s" is reserved, please use a different name`, AllTarget)
		}

		if _, present := c.projects[project.Name]; present {
			return nil, eris.Errorf("project %s was declared twice", project.Name)
		}

		c.projects[project.Name] = project.clone()
		c.order = append(c.order, project.Name)
	}

	for _, name := range c.order {
		seen := make(map[string]bool, len(c.projects[name].Deps))
		for _, dep := range c.projects[name].Deps {
			if seen[dep] {
				return nil, eris.Errorf("project %s lists dependency %s twice", name, dep)
			}
			seen[dep] = true

			if dep == name {
				return nil, &CyclicDependency{Cycle: []string{name, name}}
			}

			if _, ok := c.projects[dep]; !ok {
				return nil, &UnknownProject{Name: dep, Referrer: name}
			}
		}
	}

	if err := c.detectCycles(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) detectCycles() error {
	// done: fully visited, active: on the current path
	done := make(map[string]bool)
	active := make(map[string]bool)
	stack := make([]string, 0)

	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}

		if active[name] {
			start := 0
			for idx, item := range stack {
				if item == name {
					start = idx
					break
				}
			}

			cycle := append([]string{}, stack[start:]...)
			return &CyclicDependency{Cycle: append(cycle, name)}
		}

		active[name] = true
		stack = append(stack, name)

		for _, dep := range c.projects[name].Deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		delete(active, name)
		done[name] = true
		return nil
	}

	for _, name := range c.order {
		if err := visit(name); err != nil {
			return err
		}
	}

	return nil
}

// Lookup returns a copy of the named project
func (c *Catalog) Lookup(name string) (Project, error) {
	project, ok := c.projects[name]
	if !ok {
		return Project{}, &UnknownProject{Name: name}
	}

	return *project.clone(), nil
}

// Names returns all project names in registration order
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of registered projects
func (c *Catalog) Len() int {
	return len(c.order)
}

// DependenciesOf returns the direct dependencies of the named project
func (c *Catalog) DependenciesOf(name string) ([]string, error) {
	project, ok := c.projects[name]
	if !ok {
		return nil, &UnknownProject{Name: name}
	}

	return append([]string{}, project.Deps...), nil
}

// index returns the registration position which is used to order siblings
func (c *Catalog) index(name string) int {
	for idx, item := range c.order {
		if item == name {
			return idx
		}
	}
	return -1
}

// DefaultProjects returns the projects of the Nova engine workspace
func DefaultProjects() []*Project {
	return []*Project{
		{
			Name:     "api",
			Path:     "api",
			Build:    "buf build",
			Generate: "buf generate",
			Lint:     "buf lint",
		},
		{
			Name:  "pleiades",
			Path:  "pleiades",
			Deps:  []string{"api"},
			Build: "cargo build",
			Clean: "cargo clean",
			Lint:  "cargo clippy",
		},
	}
}

// DefaultCatalog returns the catalog built from DefaultProjects
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(DefaultProjects()...)
	if err != nil {
		panic(err)
	}

	return catalog
}
