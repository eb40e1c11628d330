package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadySet is returned when a step output is recorded twice in one run.
	ErrAlreadySet = errors.New("step output already recorded")

	// ErrDuplicateStep is returned when two steps in a workflow share a name.
	ErrDuplicateStep = errors.New("duplicate step name")

	// ErrUnknownDependency is returned when a step depends on a step that does
	// not precede it.
	ErrUnknownDependency = errors.New("unknown step dependency")
)

// StepError identifies the step that aborted a run.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// MissingDependencyError is returned when a step needs the output of another
// step and that output is absent from the run context.
type MissingDependencyError struct {
	Step       string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("step %q requires output of %q, which is not available", e.Step, e.Dependency)
}

// FailedStep returns the name of the step that aborted the run, if err came
// from Workflow.Run.
func FailedStep(err error) (string, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}
