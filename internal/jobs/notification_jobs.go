package jobs

import (
	"context"

	"sewasaathi-backend/internal/logger"
)

// SendOverdueReminders creates reminder notifications for overdue rentals
func (jr *JobRunner) SendOverdueReminders() {
	_ = jr.RunSendOverdueReminders()
}

// RunSendOverdueReminders is SendOverdueReminders reporting the run's error, for -run-once.
func (jr *JobRunner) RunSendOverdueReminders() error {
	return jr.runWithRecovery("SendOverdueReminders", func(ctx context.Context) error {
		now := jr.now()
		sent, err := jr.services.Automation.SendOverdueReminders(ctx, now)
		logger.Info("Overdue reminder run finished", "sent", sent, "asOf", now)
		return err
	})
}
