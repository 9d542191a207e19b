package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nova-engine/nova/tools/novabuild/pkg/buildsys"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Lists the projects in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}

		catalog, err := e.catalog()
		if err != nil {
			e.logger.Fatal().Err(err).Msg("Failed to load the project catalog")
		}

		return printProjects(cmd.OutOrStdout(), catalog)
	},
}

func printProjects(out io.Writer, catalog *buildsys.Catalog) error {
	fmt.Fprintln(out, "Available projects:")
	maxNameLen := 0
	for _, name := range catalog.Names() {
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}

	lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
	for _, name := range catalog.Names() {
		deps, err := catalog.DependenciesOf(name)
		if err != nil {
			return err
		}

		desc := "no dependencies"
		if len(deps) > 0 {
			desc = "depends on " + strings.Join(deps, ", ")
		}

		fmt.Fprintf(out, lineFmt, name+":", desc)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
