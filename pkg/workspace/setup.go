package workspace

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/nova-engine/nova/tools/novabuild/pkg/buildsys"
)

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return eris.Wrapf(err, "could not open %s", src)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return eris.Wrapf(err, "could not create %s", dest)
	}

	_, err = io.Copy(out, in)
	if err != nil {
		out.Close()
		return eris.Wrapf(err, "failed to copy %s to %s", src, dest)
	}

	return out.Close()
}

// SetupEnv copies manifest/envrc to .envrc in the workspace root and runs direnv allow.
// A failing direnv is logged but doesn't fail the setup.
func SetupEnv(ctx context.Context, vars *Variables, runner buildsys.ProcessRunner) error {
	src := filepath.Join(vars.EnvRoot, "manifest", "envrc")
	dest := filepath.Join(vars.EnvRoot, ".envrc")

	err := copyFile(src, dest)
	if err != nil {
		return err
	}

	logger := buildsys.Log(ctx)
	logger.Info().Msg("running direnv allow")

	result := runner.Run(ctx, "direnv allow", vars.EnvRoot)
	if result.Failed() {
		logger.Warn().Err(result.Err).Int("status", result.Status).Msg("direnv allow failed")
	}

	return nil
}

// Setup prepares a fresh checkout: .envrc, the link tree and the scratch directory
func Setup(ctx context.Context, vars *Variables, runner buildsys.ProcessRunner) error {
	err := SetupEnv(ctx, vars, runner)
	if err != nil {
		return err
	}

	err = EnsureLinked(ctx, vars.EnvRoot, LinkTree)
	if err != nil {
		return err
	}

	buildsys.Log(ctx).Info().Msg("creating tmp directory")
	return vars.EnsureScratch()
}
