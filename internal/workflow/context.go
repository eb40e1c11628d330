package workflow

import (
	"fmt"
)

// Trigger carries the run-scoped parameters supplied by whoever starts a run.
type Trigger struct {
	Location string `json:"location" validate:"required"`
}

// Output applies a step's result to the typed run state.
// It is invoked once, by the run loop, after the step succeeded.
type Output[S any] func(state *S)

// RunContext is the per-run registry of step outputs. Outputs live in a typed
// state value S with one slot per step; the context tracks which steps have
// written and in what order. A RunContext is owned by a single run.
type RunContext[S any] struct {
	runID   string
	trigger Trigger
	state   S
	written map[string]struct{}
	order   []string
}

func newRunContext[S any](runID string, trigger Trigger) *RunContext[S] {
	return &RunContext[S]{
		runID:   runID,
		trigger: trigger,
		written: make(map[string]struct{}),
	}
}

// RunID returns the identifier assigned to this run.
func (rc *RunContext[S]) RunID() string {
	return rc.runID
}

// Trigger returns the parameters the run was started with.
func (rc *RunContext[S]) Trigger() Trigger {
	return rc.trigger
}

// State returns a copy of the outputs recorded so far.
func (rc *RunContext[S]) State() S {
	return rc.state
}

// Has reports whether the named step has recorded its output.
func (rc *RunContext[S]) Has(step string) bool {
	_, ok := rc.written[step]
	return ok
}

// Order returns step names in the order their outputs were recorded.
func (rc *RunContext[S]) Order() []string {
	out := make([]string, len(rc.order))
	copy(out, rc.order)
	return out
}

// set records the output of step. Each step may record exactly once.
func (rc *RunContext[S]) set(step string, out Output[S]) error {
	if rc.Has(step) {
		return fmt.Errorf("%w: %s", ErrAlreadySet, step)
	}
	if out != nil {
		out(&rc.state)
	}
	rc.written[step] = struct{}{}
	rc.order = append(rc.order, step)
	return nil
}
