package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

// Step is a named unit of work. DependsOn lists the steps whose outputs
// Execute reads; each must appear earlier in the workflow.
type Step[S any] struct {
	Name      string
	DependsOn []string
	Execute   func(ctx context.Context, rc *RunContext[S]) (Output[S], error)
}

// Workflow runs a fixed, ordered list of steps. Each step is awaited before
// the next starts and the first failure aborts the run.
type Workflow[S any] struct {
	name   string
	steps  []Step[S]
	logger *zap.Logger
	newID  func() string
}

// New validates the step list and builds a Workflow. Step names must be unique
// and dependencies must refer to preceding steps.
func New[S any](name string, logger *zap.Logger, steps ...Step[S]) (*Workflow[S], error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("workflow %s: no steps", name)
	}

	seen := make(map[string]struct{}, len(steps))
	for i, s := range steps {
		if s.Name == "" {
			return nil, fmt.Errorf("workflow %s: step %d has no name", name, i)
		}
		if s.Execute == nil {
			return nil, fmt.Errorf("workflow %s: step %q has no execute function", name, s.Name)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("workflow %s: %w: %s", name, ErrDuplicateStep, s.Name)
		}
		for _, dep := range s.DependsOn {
			if _, ok := seen[dep]; !ok {
				return nil, fmt.Errorf("workflow %s: step %q: %w %q", name, s.Name, ErrUnknownDependency, dep)
			}
		}
		seen[s.Name] = struct{}{}
	}

	return &Workflow[S]{
		name:   name,
		steps:  append([]Step[S](nil), steps...),
		logger: logger.With(zap.String("workflow", name)),
		newID:  uuid.NewString,
	}, nil
}

// Name returns the workflow name.
func (w *Workflow[S]) Name() string {
	return w.name
}

// Steps returns the step names in execution order.
func (w *Workflow[S]) Steps() []string {
	names := make([]string, len(w.steps))
	for i, s := range w.steps {
		names[i] = s.Name
	}
	return names
}

// Run executes every step in order against a fresh RunContext. On failure it
// returns the context as it stood plus a *StepError naming the failed step;
// no later step is executed. There is no retry.
func (w *Workflow[S]) Run(ctx context.Context, trigger Trigger) (*RunContext[S], error) {
	if err := validate.Struct(trigger); err != nil {
		return nil, fmt.Errorf("invalid trigger: %w", err)
	}

	rc := newRunContext[S](w.newID(), trigger)
	log := w.logger.With(zap.String("run_id", rc.RunID()), zap.String("location", trigger.Location))
	log.Info("run started", zap.Int("steps", len(w.steps)))
	started := time.Now()

	for _, step := range w.steps {
		for _, dep := range step.DependsOn {
			if !rc.Has(dep) {
				err := &MissingDependencyError{Step: step.Name, Dependency: dep}
				return rc, &StepError{Step: step.Name, Err: err}
			}
		}

		stepStart := time.Now()
		log.Debug("step started", zap.String("step", step.Name))

		out, err := step.Execute(ctx, rc)
		if err != nil {
			log.Error("step failed",
				zap.String("step", step.Name),
				zap.Duration("elapsed", time.Since(stepStart)),
				zap.Error(err))
			return rc, &StepError{Step: step.Name, Err: err}
		}
		if err := rc.set(step.Name, out); err != nil {
			return rc, &StepError{Step: step.Name, Err: err}
		}

		log.Info("step completed", zap.String("step", step.Name), zap.Duration("elapsed", time.Since(stepStart)))
	}

	log.Info("run completed", zap.Duration("elapsed", time.Since(started)))
	return rc, nil
}

// IsMissingDependency reports whether err was caused by an absent step output.
func IsMissingDependency(err error) bool {
	var md *MissingDependencyError
	return errors.As(err, &md)
}
