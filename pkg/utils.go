package pkg

import (
	"fmt"
	"io"
	"time"

	"github.com/mitchellh/colorstring"

	"github.com/nova-engine/nova/tools/novabuild/pkg/buildsys"
)

func PrintTask(out io.Writer, msg string) {
	colorstring.Fprintf(out, "[blue][bold]==>[default] %s\n", msg)
}

func PrintSubtask(out io.Writer, msg string) {
	colorstring.Fprintf(out, "[green][bold]  ->[reset] %s\n", msg)
}

func PrintError(out io.Writer, msg string) {
	colorstring.Fprintf(out, "[red][bold]  ->[reset] %s\n", msg)
}

// PrintSummary lists which steps of a run succeeded, were skipped or failed
func PrintSummary(out io.Writer, summary *buildsys.RunSummary) {
	PrintTask(out, fmt.Sprintf("%s: %d ran, %d skipped, %d failed", summary.Target,
		len(summary.Ran()), len(summary.Skipped()), len(summary.Failed())))

	for _, result := range summary.Results {
		switch {
		case result.Skipped:
			PrintSubtask(out, fmt.Sprintf("%s skipped (no command)", result.Step))
		case result.DryRun:
			PrintSubtask(out, fmt.Sprintf("%s (dry run)", result.Step))
		case result.ExecutionResult.Failed():
			failure := buildsys.StepFailure{Step: result.Step, Status: result.Status, Err: result.Err}
			PrintError(out, failure.Error())
		default:
			PrintSubtask(out, fmt.Sprintf("%s ok (%s)", result.Step, result.Duration.Round(time.Millisecond)))
		}
	}
}
