package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"sewasaathi-backend/internal/jobs"
	"sewasaathi-backend/internal/logger"
)

// Scheduler is the tick source for the automation jobs
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
	ids  map[string]cron.EntryID
}

// NewScheduler creates a scheduler with every job registered. An invalid
// schedule expression is a configuration error.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// UTC with seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
		ids:  make(map[string]cron.EntryID),
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	// The two jobs are independent and may overlap.
	if err := s.register("ApplyLateFees", cfg.ApplyLateFees, s.jobs.ApplyLateFees); err != nil {
		return err
	}
	if err := s.register("SendOverdueReminders", cfg.SendOverdueReminders, s.jobs.SendOverdueReminders); err != nil {
		return err
	}

	logger.Info("All cron jobs registered successfully", "jobs", len(s.ids))
	return nil
}

func (s *Scheduler) register(name, spec string, fn func()) error {
	id, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		logger.Error("Failed to register job", "job", name, "spec", spec, "error", err)
		return fmt.Errorf("register %s (%q): %w", name, spec, err)
	}
	s.ids[name] = id
	return nil
}

// Next returns the next scheduled run of a registered job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	id, ok := s.ids[name]
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Schedule.Next(time.Now().UTC()), true
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if jobs are registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
