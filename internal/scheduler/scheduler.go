package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/daily-adventure/internal/store"
)

// Runner generates and persists one adventure.
type Runner interface {
	Run(ctx context.Context, location string) (store.Adventure, error)
}

// Scheduler triggers the adventure pipeline on a cron schedule.
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       *gocron.Job
	runner    Runner
	location  string
	schedule  string
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler. Each run is bounded by timeout; a run still in
// flight when the next one is due causes the next one to be skipped.
func New(runner Runner, location, schedule string, tz *time.Location, timeout time.Duration, logger *zap.Logger) *Scheduler {
	if tz == nil {
		tz = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(tz)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		location:  location,
		schedule:  schedule,
		timeout:   timeout,
		logger:    logger.With(zap.String("component", "scheduler")),
	}
}

// Start schedules the daily job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.location == "" {
		return errors.New("scheduler: no location configured")
	}

	job, err := s.scheduler.Cron(s.schedule).Do(s.RunOnce)
	if err != nil {
		return err
	}
	s.job = job

	s.scheduler.StartAsync()
	s.logger.Info("scheduled adventure generation",
		zap.String("location", s.location),
		zap.String("cron", s.schedule),
		zap.Time("next_run", job.NextRun()))
	return nil
}

// RunOnce runs the pipeline for the configured location. Failures are logged;
// the next scheduled run is unaffected.
func (s *Scheduler) RunOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Info("running adventure job", zap.String("location", s.location))
	adventure, err := s.runner.Run(ctx, s.location)
	if err != nil {
		s.logger.Error("adventure job failed", zap.String("location", s.location), zap.Error(err))
		return
	}
	s.logger.Info("adventure job completed",
		zap.Int64("id", adventure.ID),
		zap.String("location", adventure.Location),
		zap.String("weather", adventure.Weather))
}

// Running reports whether the scheduler has been started and not stopped.
func (s *Scheduler) Running() bool {
	return s.scheduler.IsRunning()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
