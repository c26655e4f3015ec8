package jobs

import (
	"context"
	"time"

	"sewasaathi-backend/internal/config"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/service"
)

// defaultJobTimeout bounds one run; a run that times out is retried on the next tick.
const defaultJobTimeout = 10 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	now      func() time.Time
	timeout  time.Duration
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Automation service.AutomationService
}

// NewJobRunner creates a new job runner with all dependencies. now may be nil.
func NewJobRunner(services *Services, cfg *config.Config, now func() time.Time) *JobRunner {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      now,
		timeout:  defaultJobTimeout,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and a deadline. A
// failed run is logged and left for the next tick.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = errJobPanicked
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	started := time.Now()
	logger.Info("Starting job", "job", jobName)
	if err = jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "elapsed", time.Since(started))
		return err
	}
	logger.Info("Job completed", "job", jobName, "elapsed", time.Since(started))
	return nil
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution). The jobs
// are independent, so a failure in one does not stop the other.
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ApplyLateFees()
	jr.SendOverdueReminders()
}
