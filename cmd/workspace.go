package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/nova-engine/nova/tools/novabuild/pkg/buildsys"
	"github.com/nova-engine/nova/tools/novabuild/pkg/workspace"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Prepares a fresh checkout",
	Long: `Copies manifest/envrc to .envrc and runs direnv allow, creates the workspace links
and the scratch directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}

		err = workspace.Setup(e.ctx, e.vars, buildsys.NewShellRunner())
		if err != nil {
			e.logger.Fatal().Err(err).Msg("Setup failed")
		}
		return nil
	},
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Creates the symlinks between projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}

		err = workspace.EnsureLinked(e.ctx, e.vars.WorkspaceRoot(), workspace.LinkTree)
		if err != nil {
			e.logger.Fatal().Err(err).Msg("Failed to link the workspace")
		}
		return nil
	},
}

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "Prints the resolved workspace paths as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), e.vars.String())
		return nil
	},
}

var depsCmd = &cobra.Command{
	Use:   "deps [config]",
	Short: "Prints the deps table of the pleiades server config as JSON",
	Long: `Reads the deps entry from a TOML config; defaults to ` + workspace.PleiadesConfig + `
in the workspace root.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}

		path := workspace.PleiadesConfig
		if len(args) > 0 {
			path = args[0]
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(e.vars.WorkspaceRoot(), path)
		}

		deps, err := workspace.ReadDeps(path)
		if err != nil {
			return err
		}

		return printDeps(cmd.OutOrStdout(), deps)
	},
}

func printDeps(out io.Writer, deps interface{}) error {
	data, err := json.MarshalIndent(deps, "", "  ")
	if err != nil {
		return eris.Wrap(err, "failed to encode deps")
	}

	_, err = fmt.Fprintln(out, string(data))
	return err
}

func init() {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(varsCmd)
	rootCmd.AddCommand(depsCmd)
}
