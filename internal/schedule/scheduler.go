// Package schedule runs background jobs on cron schedules.
package schedule

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a named unit of scheduled work.
type Job interface {
	Name() string
	Run() error
}

// JobFunc adapts a function to the Job interface.
type JobFunc struct {
	JobName string
	Fn      func() error
}

// Name returns the job identifier.
func (j JobFunc) Name() string { return j.JobName }

// Run invokes the wrapped function.
func (j JobFunc) Run() error { return j.Fn() }

// Scheduler manages cron-scheduled jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// New creates a scheduler using standard 5-field cron expressions plus the
// @-descriptors ("@daily", "@every 1h", ...).
func New(log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		cron: cron.New(),
		log:  log.With("component", "scheduler"),
	}
}

// AddJob registers a job under the given cron expression.
func (s *Scheduler) AddJob(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.log.Info("running job", "job", job.Name())
		if err := job.Run(); err != nil {
			s.log.Error("job failed", "job", job.Name(), "error", err)
			return
		}
		s.log.Info("job completed", "job", job.Name())
	})
	if err != nil {
		return err
	}

	s.log.Info("job registered", "job", job.Name(), "schedule", spec)
	return nil
}

// Start begins dispatching jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
