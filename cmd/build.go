package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nova-engine/nova/tools/novabuild/pkg"
	"github.com/nova-engine/nova/tools/novabuild/pkg/buildsys"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds a project and its dependencies",
	Long: `Runs the generate and build commands of the given project after those of its dependencies.
Failing steps are reported but don't stop the remaining steps; the exit code is 1 if any step failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := cmd.Flags().GetString("project")
		if err != nil {
			return err
		}

		opts, err := planOptions(cmd.Flags())
		if err != nil {
			return err
		}

		dryRun, err := cmd.Flags().GetBool("dry")
		if err != nil {
			return err
		}

		showProgress, err := cmd.Flags().GetBool("progress")
		if err != nil {
			return err
		}

		var progress *stepProgress
		logOut := cmd.ErrOrStderr()
		if showProgress {
			// log lines go through the bar so it can get out of their way
			progress = newStepProgress(logOut)
			logOut = progress
		}

		e, err := loadEnvTo(cmd, logOut)
		if err != nil {
			return err
		}

		catalog, err := e.catalog()
		if err != nil {
			e.logger.Fatal().Err(err).Msg("Failed to load the project catalog")
		}

		runner := buildsys.NewShellRunner()
		orchestrator := buildsys.NewOrchestrator(catalog, runner, e.vars)
		orchestrator.DryRun = dryRun
		if progress != nil {
			runner.Stderr = progress
			orchestrator.Progress = progress
		}

		summary, err := orchestrator.Run(e.ctx, project, opts)
		if err != nil {
			var unsupported *buildsys.Unsupported
			if errors.As(err, &unsupported) {
				e.logger.Warn().Msg(err.Error())
			} else {
				e.logger.Error().Err(err).Msgf("Failed to build %s", project)
			}
		} else {
			pkg.PrintSummary(cmd.OutOrStdout(), summary)
		}

		if code := buildsys.ExitCode(summary, err); code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

// planOptions maps the mode flags to resolver options.
// --clean-only wins over --lint-only which wins over --full-rebuild.
func planOptions(flags *pflag.FlagSet) (buildsys.PlanOptions, error) {
	opts := buildsys.DefaultPlanOptions()
	var cleanOnly, lintOnly, fullRebuild bool

	values := []struct {
		name string
		dest *bool
	}{
		{"clean", &opts.Clean},
		{"generate", &opts.Generate},
		{"lint", &opts.Lint},
		{"clean-only", &cleanOnly},
		{"lint-only", &lintOnly},
		{"full-rebuild", &fullRebuild},
	}
	for _, item := range values {
		value, err := flags.GetBool(item.name)
		if err != nil {
			return opts, err
		}
		*item.dest = value
	}

	switch {
	case cleanOnly:
		opts.Mode = buildsys.ModeCleanOnly
	case lintOnly:
		opts.Mode = buildsys.ModeLintOnly
	case fullRebuild:
		opts.Mode = buildsys.ModeFullRebuild
	}

	return opts, nil
}

func addBuildFlags(flags *pflag.FlagSet) {
	flags.StringP("project", "p", "", "the project to build")
	flags.BoolP("clean", "c", false, "clean the project before building it")
	flags.Bool("clean-only", false, "clean every project but don't build anything")
	flags.BoolP("full-rebuild", "f", false, "clean the project and its direct dependencies, then rebuild")
	flags.BoolP("generate", "g", true, "run any code generation steps before building")
	flags.BoolP("lint", "l", false, "run linters before building")
	flags.Bool("lint-only", false, "run linters but don't build")
	flags.BoolP("dry", "n", false, "dry run; only print the commands, don't execute anything")
	flags.Bool("progress", false, "show a progress bar for the steps of the run")
}

func init() {
	addBuildFlags(buildCmd.Flags())
	_ = buildCmd.MarkFlagRequired("project")

	rootCmd.AddCommand(buildCmd)
}
