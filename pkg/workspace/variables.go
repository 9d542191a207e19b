// Package workspace locates the Nova workspace and prepares it for builds:
// path discovery, the symlinks between projects, .envrc provisioning and the scratch directory.
package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/nova-engine/nova/tools/novabuild/pkg/config"
)

// Variables holds the resolved workspace paths
type Variables struct {
	EnvRoot     string
	PleiadesTmp string
}

// New resolves the workspace paths from the configuration. If cfg.Root is empty, the workspace
// root is searched starting at the current working directory.
func New(cfg *config.Config) (*Variables, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, eris.Wrap(err, "failed to retrieve the current working directory")
		}

		root, err = FindRoot(wd)
		if err != nil {
			return nil, err
		}
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to resolve %s", root)
	}

	return &Variables{
		EnvRoot:     root,
		PleiadesTmp: cfg.Scratch,
	}, nil
}

// FindRoot walks up from start until it finds a directory containing .git
func FindRoot(start string) (string, error) {
	mypath, err := filepath.Abs(start)
	if err != nil {
		return "", eris.Wrapf(err, "failed to resolve %s", start)
	}

	for {
		gitPath := filepath.Join(mypath, ".git")
		_, err := os.Stat(gitPath)
		if err == nil {
			return mypath, nil
		}

		if !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrap(err, "Error ocurred while searching for project root")
		}

		nextPath := filepath.Dir(mypath)
		if mypath == nextPath {
			break
		}
		mypath = nextPath
	}

	return "", eris.New("Project root not found")
}

// WorkspaceRoot returns the absolute path of the workspace
func (v *Variables) WorkspaceRoot() string {
	return v.EnvRoot
}

// ScratchDirectory returns the temporary directory used by pleiades
func (v *Variables) ScratchDirectory() string {
	return v.PleiadesTmp
}

// EnsureScratch creates the scratch directory. An existing directory is not an error.
func (v *Variables) EnsureScratch() error {
	err := os.Mkdir(v.PleiadesTmp, 0770)
	if err != nil && !eris.Is(err, os.ErrExist) {
		return eris.Wrapf(err, "failed to create %s", v.PleiadesTmp)
	}

	return nil
}

// MarshalJSON encodes the variables as a list of single-entry objects in declaration order
func (v *Variables) MarshalJSON() ([]byte, error) {
	return json.Marshal([]map[string]string{
		{"env_root": v.EnvRoot},
		{"pleiades_tmp": v.PleiadesTmp},
	})
}

func (v *Variables) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return err.Error()
	}
	return string(data)
}
