package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/nova-engine/nova/tools/novabuild/pkg/buildsys"
)

// stepProgress shows a progress bar over the steps of a run. Output written to it is printed
// above the bar.
type stepProgress struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

var (
	_ buildsys.Progress = (*stepProgress)(nil)
	_ io.Writer         = (*stepProgress)(nil)
)

func newStepProgress(out io.Writer) *stepProgress {
	return &stepProgress{out: out}
}

func (p *stepProgress) Start(total int) {
	// CI logs keep every redraw, so there's no bar at all
	if os.Getenv("CI") == "true" || total == 0 {
		return
	}

	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("starting"),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(p.out, "\n")
		}),
	)
}

func (p *stepProgress) Step(result buildsys.StepResult) {
	if p.bar == nil {
		return
	}

	p.bar.Describe(result.Step.String())
	_ = p.bar.Add(1)
}

func (p *stepProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func (p *stepProgress) Write(data []byte) (int, error) {
	if p.bar == nil || p.bar.IsFinished() {
		return p.out.Write(data)
	}

	if err := p.bar.Clear(); err != nil {
		return 0, err
	}

	n, err := p.out.Write(data)
	if err != nil {
		return n, err
	}

	return n, p.bar.RenderBlank()
}
