package buildsys

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type projectSpec struct {
	Name     string   `yaml:"name"`
	Path     string   `yaml:"path,omitempty"`
	Deps     []string `yaml:"deps,omitempty"`
	Build    string   `yaml:"build,omitempty"`
	Clean    string   `yaml:"clean,omitempty"`
	Generate string   `yaml:"generate,omitempty"`
	Lint     string   `yaml:"lint,omitempty"`
}

type catalogFile struct {
	Projects []projectSpec `yaml:"projects"`
}

// LoadCatalogYAML reads a catalog from a YAML document with a top-level projects list
func LoadCatalogYAML(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, eris.Wrapf(err, "could not open file %s", filename)
	}

	var doc catalogFile
	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse %s", filename)
	}

	projects := make([]*Project, len(doc.Projects))
	for idx, spec := range doc.Projects {
		path := spec.Path
		if path == "" {
			path = spec.Name
		}

		projects[idx] = &Project{
			Name:     spec.Name,
			Path:     path,
			Deps:     spec.Deps,
			Build:    spec.Build,
			Clean:    spec.Clean,
			Generate: spec.Generate,
			Lint:     spec.Lint,
		}
	}

	return NewCatalog(projects...)
}

// LoadCatalog loads a catalog file; the format is picked from the extension (.star, .yml or .yaml).
// root is the workspace root used by catalog scripts.
func LoadCatalog(ctx context.Context, filename, root string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".star":
		return LoadCatalogScript(ctx, filename, root)
	case ".yml", ".yaml":
		return LoadCatalogYAML(filename)
	}

	return nil, eris.Errorf("unsupported catalog format %s, expected a .star or .yml file", filename)
}
