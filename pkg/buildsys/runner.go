package buildsys

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ProcessRunner executes a single command line inside a working directory.
// Implementations never return an error for non-zero exits; the status is part of the result.
type ProcessRunner interface {
	Run(ctx context.Context, commandLine, workDir string) ExecutionResult
}

// ShellRunner runs command lines through mvdan.cc/sh's interpreter. The working directory
// is passed to the interpreter directly so the orchestrator's own directory never changes.
type ShellRunner struct {
	// Env is appended to the process environment
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
	// ToolPath is the executable that provides the mv, rm and mkdir subcommands
	ToolPath string
}

var _ ProcessRunner = (*ShellRunner)(nil)

// NewShellRunner returns a runner that writes to the process' stdout and stderr and routes
// mv, rm and mkdir to the currently running executable
func NewShellRunner() *ShellRunner {
	toolPath, err := os.Executable()
	if err != nil {
		toolPath = "novabuild"
	}

	return &ShellRunner{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		ToolPath: toolPath,
	}
}

var defaultExecHandler = interp.DefaultExecHandler(2 * time.Second)

func (r *ShellRunner) execHandler(ctx context.Context, args []string) error {
	if len(args) > 0 && r.ToolPath != "" {
		switch args[0] {
		case "mv", "rm", "mkdir":
			// always use our cross-platform implementation for these operations to make sure
			// they behave consistently
			args = append([]string{r.ToolPath}, args...)
		}
	}

	return defaultExecHandler(ctx, args)
}

var defaultOpenHandler = interp.DefaultOpenHandler()

func openHandler(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if path == "/dev/null" {
		path = os.DevNull
	}

	return defaultOpenHandler(ctx, path, flag, perm)
}

func (r *ShellRunner) environ() expand.Environ {
	envVars := os.Environ()
	envVars = append(envVars, r.Env...)

	return expand.ListEnviron(envVars...)
}

// Run parses commandLine and executes it in workDir. Blank command lines are skipped.
func (r *ShellRunner) Run(ctx context.Context, commandLine, workDir string) ExecutionResult {
	if strings.TrimSpace(commandLine) == "" {
		return ExecutionResult{Skipped: true}
	}

	start := time.Now()
	result := r.run(ctx, commandLine, workDir)
	result.Duration = time.Since(start)

	return result
}

func (r *ShellRunner) run(ctx context.Context, commandLine, workDir string) ExecutionResult {
	file, err := syntax.NewParser().Parse(strings.NewReader(commandLine), "command")
	if err != nil {
		return ExecutionResult{
			Status: 2,
			Err:    eris.Wrapf(err, "failed to parse command %s", commandLine),
		}
	}

	stdout := r.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	runner, err := interp.New(
		interp.Dir(workDir),
		interp.Env(r.environ()),
		interp.ExecHandler(r.execHandler),
		interp.OpenHandler(openHandler),
		interp.StdIO(nil, stdout, stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return ExecutionResult{
			Status: 1,
			Err:    eris.Wrapf(err, "failed to initialize runner for %s", workDir),
		}
	}

	log(ctx).Debug().
		Str("path", workDir).
		Msgf("running %s", commandLine)

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return ExecutionResult{Status: int(status)}
		}

		return ExecutionResult{
			Status: 1,
			Err:    eris.Wrapf(err, "failed to run %s", commandLine),
		}
	}

	return ExecutionResult{}
}
