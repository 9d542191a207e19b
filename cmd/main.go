package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nova-engine/nova/tools/novabuild/pkg/buildsys"
	"github.com/nova-engine/nova/tools/novabuild/pkg/config"
	"github.com/nova-engine/nova/tools/novabuild/pkg/workspace"
)

var rootCmd = &cobra.Command{
	Use:   "novabuild",
	Short: "Build helper for the Nova engine",
	Long: `This command builds, cleans and lints the projects of the Nova engine workspace in
dependency order and prepares fresh checkouts (.envrc, workspace links, scratch directory).

Configuration is read from novabuild.toml in the current directory and NOVA_* environment variables.`,
	SilenceUsage: true,
}

// env bundles everything a command needs to work on the workspace
type env struct {
	cfg    *config.Config
	vars   *workspace.Variables
	logger *zerolog.Logger
	ctx    context.Context
}

func newLogger(cfg *config.Config, out io.Writer) *zerolog.Logger {
	if !cfg.Log.JSON {
		out = NewConsoleWriter(out)
	}

	logger := zerolog.New(out).Level(cfg.LogLevel())
	return &logger
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	return loadEnvTo(cmd, cmd.ErrOrStderr())
}

// loadEnvTo is loadEnv with log output going to out
func loadEnvTo(cmd *cobra.Command, out io.Writer) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg, out)
	ctx := buildsys.WithLogger(cmd.Context(), logger)

	vars, err := workspace.New(cfg)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		vars:   vars,
		logger: logger,
		ctx:    ctx,
	}, nil
}

// catalog returns the configured project catalog or the built-in one
func (e *env) catalog() (*buildsys.Catalog, error) {
	if e.cfg.Catalog == "" {
		return buildsys.DefaultCatalog(), nil
	}

	path := e.cfg.Catalog
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.vars.WorkspaceRoot(), path)
	}

	catalog, err := buildsys.LoadCatalog(e.ctx, path, e.vars.WorkspaceRoot())
	if err != nil {
		return nil, eris.Wrapf(err, "failed to load catalog %s", path)
	}

	return catalog, nil
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
