package workspace

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/nova-engine/nova/tools/novabuild/pkg/buildsys"
)

// Link is a symlink inside the workspace. Both paths are relative to the workspace root.
type Link struct {
	Source string
	Dest   string
}

// LinkTree lists the symlinks the projects expect
var LinkTree = []Link{
	{Source: "api/rust", Dest: "pleiades/crates/nova-api"},
}

// EnsureLinked creates every link in links below root. Destinations that already exist are skipped.
func EnsureLinked(ctx context.Context, root string, links []Link) error {
	logger := buildsys.Log(ctx)

	for _, link := range links {
		logger.Info().Msgf("linking %s to %s", link.Source, link.Dest)

		src := filepath.Join(root, link.Source)
		dest := filepath.Join(root, link.Dest)

		err := os.Symlink(src, dest)
		if err != nil {
			if eris.Is(err, os.ErrExist) {
				logger.Info().Str("path", dest).Msgf("%s already exists, skipping", dest)
				continue
			}

			return eris.Wrapf(err, "failed to link %s to %s", src, dest)
		}
	}

	return nil
}
