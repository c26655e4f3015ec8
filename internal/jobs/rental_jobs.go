package jobs

import (
	"context"
	"errors"

	"sewasaathi-backend/internal/logger"
)

var errJobPanicked = errors.New("job panicked")

// ApplyLateFees recomputes late fees for every overdue rental
func (jr *JobRunner) ApplyLateFees() {
	_ = jr.RunApplyLateFees()
}

// RunApplyLateFees is ApplyLateFees reporting the run's error, for -run-once.
func (jr *JobRunner) RunApplyLateFees() error {
	return jr.runWithRecovery("ApplyLateFees", func(ctx context.Context) error {
		now := jr.now()
		processed, err := jr.services.Automation.ApplyLateFees(ctx, now)
		logger.Info("Late fee run finished", "processed", processed, "asOf", now)
		return err
	})
}
