package buildsys

import (
	"fmt"
	"strings"
	"time"
)

// Action identifies what should be done to a project
type Action int

const (
	ActionClean Action = iota
	ActionGenerate
	ActionBuild
	ActionLint
)

var actionNames = map[Action]string{
	ActionClean:    "clean",
	ActionGenerate: "generate",
	ActionBuild:    "build",
	ActionLint:     "lint",
}

func (a Action) String() string {
	name, ok := actionNames[a]
	if !ok {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return name
}

// Project contains the metadata for a single independently buildable unit of the workspace.
// Empty commands mean that there's nothing to do for that action.
type Project struct {
	Name     string
	Path     string
	Deps     []string
	Build    string
	Clean    string
	Generate string
	Lint     string
}

// Command returns the command line configured for the given action
func (p *Project) Command(action Action) string {
	switch action {
	case ActionClean:
		return p.Clean
	case ActionGenerate:
		return p.Generate
	case ActionBuild:
		return p.Build
	case ActionLint:
		return p.Lint
	}

	return ""
}

func (p *Project) clone() *Project {
	result := *p
	result.Deps = append([]string(nil), p.Deps...)
	return &result
}

// Mode selects the kind of plan the resolver produces
type Mode int

const (
	// ModeBuild generates and builds the target and its dependencies
	ModeBuild Mode = iota
	// ModeCleanOnly cleans every project in the catalog and builds nothing
	ModeCleanOnly
	// ModeFullRebuild cleans the target and its direct dependencies before building
	ModeFullRebuild
	// ModeLintOnly lints the target and its dependencies
	ModeLintOnly
)

func (m Mode) String() string {
	switch m {
	case ModeBuild:
		return "build"
	case ModeCleanOnly:
		return "clean-only"
	case ModeFullRebuild:
		return "full-rebuild"
	case ModeLintOnly:
		return "lint-only"
	}

	return fmt.Sprintf("mode(%d)", int(m))
}

// PlanOptions controls how a plan is resolved
type PlanOptions struct {
	Mode Mode
	// Clean adds a clean step for the target in front of a normal build
	Clean bool
	// Generate includes the generate steps in builds
	Generate bool
	// Lint runs the lint steps of the dependency closure before building
	Lint bool
}

// DefaultPlanOptions returns the options for a plain incremental build
func DefaultPlanOptions() PlanOptions {
	return PlanOptions{
		Mode:     ModeBuild,
		Generate: true,
	}
}

// Step is a single unit of work in a plan
type Step struct {
	Project string
	Action  Action
	// Path is the project's working directory relative to the workspace root
	Path    string
	Command string
	// Skip is set if the project has no command for this action
	Skip bool
}

func (s Step) String() string {
	return fmt.Sprintf("%s(%s)", s.Action, s.Project)
}

// Describe returns the progress message printed before the step runs
func (s Step) Describe() string {
	switch s.Action {
	case ActionClean:
		return "cleaning " + s.Project
	case ActionGenerate:
		return "generating " + s.Project + " definitions"
	case ActionBuild:
		return "building " + s.Project
	case ActionLint:
		return "linting " + s.Project
	}

	return s.String()
}

// Plan is the ordered list of steps for one invocation
type Plan struct {
	Target string
	Mode   Mode
	Steps  []Step
}

func (p *Plan) String() string {
	parts := make([]string, len(p.Steps))
	for idx, step := range p.Steps {
		parts[idx] = step.String()
	}

	return strings.Join(parts, ", ")
}

// ExecutionResult describes the outcome of a single command
type ExecutionResult struct {
	Status   int
	Skipped  bool
	DryRun   bool
	Err      error
	Duration time.Duration
}

// Failed reports whether the command ran and did not succeed
func (r ExecutionResult) Failed() bool {
	return !r.Skipped && (r.Status != 0 || r.Err != nil)
}

// StepResult pairs a step with its outcome
type StepResult struct {
	Step
	ExecutionResult
}

// RunSummary collects the results of all executed steps
type RunSummary struct {
	RunID   string
	Target  string
	Results []StepResult
}

func (s *RunSummary) filter(fn func(StepResult) bool) []StepResult {
	result := make([]StepResult, 0)
	for _, item := range s.Results {
		if fn(item) {
			result = append(result, item)
		}
	}
	return result
}

// Ran returns the steps which actually executed (or would have in a dry run)
func (s *RunSummary) Ran() []StepResult {
	return s.filter(func(r StepResult) bool { return !r.Skipped })
}

// Skipped returns the steps which had no command
func (s *RunSummary) Skipped() []StepResult {
	return s.filter(func(r StepResult) bool { return r.Skipped })
}

// Failed returns the steps which exited with an error
func (s *RunSummary) Failed() []StepResult {
	return s.filter(func(r StepResult) bool { return r.ExecutionResult.Failed() })
}

// Err returns a StepFailures error listing every failed step or nil if all steps succeeded
func (s *RunSummary) Err() error {
	failed := s.Failed()
	if len(failed) == 0 {
		return nil
	}

	failures := make(StepFailures, len(failed))
	for idx, item := range failed {
		failures[idx] = StepFailure{
			Step:   item.Step,
			Status: item.Status,
			Err:    item.ExecutionResult.Err,
		}
	}
	return failures
}
