package buildsys

import (
	"fmt"
	"strings"
)

// UnknownProject is returned when a project name isn't part of the catalog.
// Referrer is set if the name was declared as a dependency.
type UnknownProject struct {
	Name     string
	Referrer string
}

var _ error = (*UnknownProject)(nil)

func (e *UnknownProject) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("project %s depends on unknown project %s", e.Referrer, e.Name)
	}
	return fmt.Sprintf("unknown project %s", e.Name)
}

// CyclicDependency is returned when the catalog's dependencies form a cycle
type CyclicDependency struct {
	Cycle []string
}

var _ error = (*CyclicDependency)(nil)

func (e *CyclicDependency) Error() string {
	return "dependency cycle detected: " + strings.Join(e.Cycle, " -> ")
}

// Unsupported is returned for targets that have no plan
type Unsupported struct {
	Target string
}

var _ error = (*Unsupported)(nil)

func (e *Unsupported) Error() string {
	return fmt.Sprintf("%s is unsupported right now", e.Target)
}

// StepFailure describes a step whose command didn't succeed
type StepFailure struct {
	Step   Step
	Status int
	Err    error
}

var _ error = StepFailure{}

func (e StepFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s", e.Step, e.Err)
	}
	return fmt.Sprintf("%s exited with status %d", e.Step, e.Status)
}

func (e StepFailure) Unwrap() error {
	return e.Err
}

// StepFailures aggregates all failures of a run
type StepFailures []StepFailure

var _ error = StepFailures{}

func (e StepFailures) Error() string {
	msgs := make([]string, len(e))
	for idx, failure := range e {
		msgs[idx] = failure.Error()
	}

	return fmt.Sprintf("%d step(s) failed: %s", len(e), strings.Join(msgs, "; "))
}
