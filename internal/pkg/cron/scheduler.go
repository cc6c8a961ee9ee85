package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled job
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Fn      func(ctx context.Context) error
}

// Scheduler runs jobs on cron expressions. A job still running when its next tick fires is skipped.
type Scheduler struct {
	cron *cron.Cron
	jobs []Job
	mu   sync.Mutex
}

// NewScheduler creates a new cron scheduler evaluating specs in loc.
func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	logger := slogLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// AddJob registers fn under a standard five-field cron spec.
func (s *Scheduler) AddJob(name string, spec string, timeout time.Duration, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := Job{Name: name, Spec: spec, Timeout: timeout, Fn: fn}
	if _, err := s.cron.AddFunc(spec, func() { s.executeJob(context.Background(), job) }); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", name, "spec", spec)
	return nil
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop prevents new runs and waits for running jobs, or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	slog.Info("Stopping cron scheduler...")
	select {
	case <-s.cron.Stop().Done():
		slog.Info("Cron scheduler stopped")
	case <-ctx.Done():
		slog.Warn("Cron scheduler stop timed out", "error", ctx.Err())
	}
}

// executeJob executes a job and logs results
func (s *Scheduler) executeJob(parent context.Context, job Job) {
	ctx := parent
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.Fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Info("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.executeJob(ctx, job)
	}
}

// slogLogger adapts cron.Logger to slog.
type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
