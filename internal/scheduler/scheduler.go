// Package scheduler runs named jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const (
	// DefaultTick is how often due jobs are checked.
	DefaultTick = time.Minute

	// DefaultJobTimeout bounds a single job run.
	DefaultJobTimeout = 5 * time.Minute
)

// Job represents a scheduled job.
type Job struct {
	Name     string
	Spec     string
	Handler  func(ctx context.Context) error
	LastRun  time.Time
	NextRun  time.Time
	schedule cron.Schedule
}

// JobStatus is a snapshot of a job's timing.
type JobStatus struct {
	Name    string    `json:"name"`
	Spec    string    `json:"spec"`
	LastRun time.Time `json:"last_run"`
	NextRun time.Time `json:"next_run"`
}

// Scheduler manages scheduled jobs.
type Scheduler struct {
	parser cron.Parser
	logger zerolog.Logger
	tick   time.Duration
	now    func() time.Time

	jobs    []*Job
	jobsMux sync.RWMutex

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithTick sets how often due jobs are checked.
func WithTick(d time.Duration) Option {
	return func(s *Scheduler) {
		s.tick = d
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// NewScheduler creates a new scheduler. Specs use the standard five cron
// fields (or descriptors such as @daily) and are evaluated in UTC.
func NewScheduler(opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		logger: zerolog.Nop(),
		tick:   DefaultTick,
		now:    time.Now,
		jobs:   make([]*Job, 0),
		ctx:    ctx,
		cancel: cancel,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With().Str("component", "scheduler").Logger()
	return s
}

// AddJob registers a job under a cron spec.
func (s *Scheduler) AddJob(name, spec string, handler func(ctx context.Context) error) error {
	schedule, err := s.parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}

	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	job := &Job{
		Name:     name,
		Spec:     spec,
		Handler:  handler,
		schedule: schedule,
	}
	job.NextRun = s.calculateNextRun(job)
	s.jobs = append(s.jobs, job)

	s.logger.Info().
		Str("job", name).
		Str("spec", spec).
		Time("next_run", job.NextRun).
		Msg("Job registered")

	return nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info().Int("jobs", len(s.jobs)).Msg("Starting scheduler")

	s.wg.Add(1)
	go s.jobLoop()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info().Msg("Stopping scheduler")
	s.cancel()
	s.wg.Wait()
}

// jobLoop checks and runs scheduled jobs.
func (s *Scheduler) jobLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRunJobs()
		}
	}
}

// checkAndRunJobs runs any jobs that are due.
func (s *Scheduler) checkAndRunJobs() {
	now := s.now().UTC()

	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	for _, job := range s.jobs {
		if now.Before(job.NextRun) {
			continue
		}

		s.wg.Add(1)
		go s.runJob(job)
		job.LastRun = now
		job.NextRun = s.calculateNextRun(job)

		s.logger.Debug().
			Str("job", job.Name).
			Time("next_run", job.NextRun).
			Msg("Job scheduled for next run")
	}
}

// runJob executes a job.
func (s *Scheduler) runJob(job *Job) {
	defer s.wg.Done()

	s.logger.Info().Str("job", job.Name).Msg("Running job")

	ctx, cancel := context.WithTimeout(s.ctx, DefaultJobTimeout)
	defer cancel()

	if err := job.Handler(ctx); err != nil {
		s.logger.Error().Err(err).Str("job", job.Name).Msg("Job failed")
	} else {
		s.logger.Info().Str("job", job.Name).Msg("Job completed")
	}
}

// calculateNextRun calculates the next run time for a job.
func (s *Scheduler) calculateNextRun(job *Job) time.Time {
	return job.schedule.Next(s.now().UTC())
}

// RunJobNow runs a specific job immediately by name.
func (s *Scheduler) RunJobNow(name string) error {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	for _, job := range s.jobs {
		if job.Name == name {
			s.wg.Add(1)
			go s.runJob(job)
			return nil
		}
	}

	return fmt.Errorf("job %s not found", name)
}

// JobStatus returns the status of all jobs.
func (s *Scheduler) JobStatus() []JobStatus {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	status := make([]JobStatus, len(s.jobs))
	for i, job := range s.jobs {
		status[i] = JobStatus{
			Name:    job.Name,
			Spec:    job.Spec,
			LastRun: job.LastRun,
			NextRun: job.NextRun,
		}
	}
	return status
}
