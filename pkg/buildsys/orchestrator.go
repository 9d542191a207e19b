package buildsys

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
)

// PathResolver provides the workspace root that project paths are relative to
type PathResolver interface {
	WorkspaceRoot() string
}

// Progress is notified while a plan executes
type Progress interface {
	Start(total int)
	Step(result StepResult)
	Finish()
}

// Orchestrator plans and executes runs
type Orchestrator struct {
	Resolver *Resolver
	Runner   ProcessRunner
	Paths    PathResolver
	Progress Progress
	// DryRun logs each command without executing it
	DryRun bool
}

// NewOrchestrator returns an orchestrator for the given catalog
func NewOrchestrator(catalog *Catalog, runner ProcessRunner, paths PathResolver) *Orchestrator {
	return &Orchestrator{
		Resolver: NewResolver(catalog),
		Runner:   runner,
		Paths:    paths,
	}
}

// Run plans target and executes every step. Planning errors are returned before anything runs.
// Failing steps don't stop the run; check RunSummary.Err() for them.
func (o *Orchestrator) Run(ctx context.Context, target string, opts PlanOptions) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:   nanoid.New(),
		Target:  target,
		Results: make([]StepResult, 0),
	}

	logger := log(ctx).With().Str("run", summary.RunID).Logger()
	ctx = WithLogger(ctx, &logger)

	plan, err := o.Resolver.Plan(target, opts)
	if err != nil {
		return summary, err
	}

	log(ctx).Debug().
		Str("project", target).
		Str("mode", opts.Mode.String()).
		Msgf("planned %d steps: %s", len(plan.Steps), plan)

	err = o.Execute(ctx, plan, summary)
	return summary, err
}

func (o *Orchestrator) workDir(step Step) string {
	if o.Paths == nil {
		return filepath.Clean(step.Path)
	}

	return filepath.Join(o.Paths.WorkspaceRoot(), step.Path)
}

// Execute runs the steps of plan in order and appends their results to summary.
// Only a cancelled context stops the execution early.
func (o *Orchestrator) Execute(ctx context.Context, plan *Plan, summary *RunSummary) error {
	if o.Progress != nil {
		o.Progress.Start(len(plan.Steps))
		defer o.Progress.Finish()
	}

	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return eris.Wrapf(err, "run aborted before %s", step)
		}

		logger := log(ctx).With().Str("project", step.Project).Logger()
		logger.Info().Msg(step.Describe())

		var result ExecutionResult
		switch {
		case step.Skip:
			logger.Debug().Msgf("no %s command, skipping", step.Action)
			result = ExecutionResult{Skipped: true}
		case o.DryRun:
			logger.Info().Bool("command", true).Msg(step.Command)
			result = ExecutionResult{DryRun: true}
		default:
			logger.Info().Bool("command", true).Msg(step.Command)
			result = o.Runner.Run(ctx, step.Command, o.workDir(step))
		}

		if result.Failed() {
			failure := StepFailure{Step: step, Status: result.Status, Err: result.Err}
			logger.Error().
				Int("status", result.Status).
				Msgf("%s, continuing", failure.Error())
		}

		stepResult := StepResult{
			Step:            step,
			ExecutionResult: result,
		}
		summary.Results = append(summary.Results, stepResult)

		if o.Progress != nil {
			o.Progress.Step(stepResult)
		}
	}

	return nil
}

// ExitCode maps the outcome of a run to the process exit code: 0 for success,
// 2 for unsupported targets and 1 for everything else
func ExitCode(summary *RunSummary, err error) int {
	if err != nil {
		var unsupported *Unsupported
		if errors.As(err, &unsupported) {
			return 2
		}
		return 1
	}

	if summary != nil && summary.Err() != nil {
		return 1
	}

	return 0
}
