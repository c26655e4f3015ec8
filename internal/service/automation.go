package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
	"sewasaathi-backend/internal/utils"
)

type AutomationOptions struct {
	// LateFeeRate is the share of the base price charged per overdue day.
	// Zero means unset and selects the default rate; a zero rate cannot be
	// configured.
	LateFeeRate decimal.Decimal
	// DedupeReminders limits overdue reminders to one per rental per UTC day.
	// When false every run emits a reminder for every overdue rental.
	DedupeReminders bool
}

type automationService struct {
	store    repository.Store
	notifier Notifier
	opts     AutomationOptions
}

// NewAutomationService builds the periodic jobs. notifier may be nil, in
// which case reminders are only stored.
func NewAutomationService(store repository.Store, notifier Notifier, opts AutomationOptions) AutomationService {
	if opts.LateFeeRate.IsZero() {
		opts.LateFeeRate = utils.DefaultLateFeeRate
	}
	return &automationService{store: store, notifier: notifier, opts: opts}
}

// ApplyLateFees recomputes the late fee of every overdue rental and upserts it
// into the rental's return record. Reruns overwrite, never duplicate.
func (s *automationService) ApplyLateFees(ctx context.Context, now time.Time) (int, error) {
	logger.EnterMethod("AutomationService.ApplyLateFees", "now", now)

	repos := s.store.Repos()
	overdue, err := repos.Rentals.ListOverdue(ctx, now)
	if err != nil {
		logger.ExitMethodWithError("AutomationService.ApplyLateFees", err)
		return 0, fmt.Errorf("list overdue rentals: %w", err)
	}

	var errs []error
	processed := 0
	for _, o := range overdue {
		days := utils.DaysLate(o.EndDate, now)
		fee := utils.LateFee(o.BasePrice, s.opts.LateFeeRate, days)
		if err := repos.Returns.UpsertLateFee(ctx, o.RentalID, o.EndDate, fee); err != nil {
			logger.Error("Failed to record late fee", "rentalID", o.RentalID, "error", err)
			errs = append(errs, fmt.Errorf("rental %s: %w", o.RentalID, err))
			continue
		}
		logger.Debug("Late fee recorded", "rentalID", o.RentalID, "daysLate", days, "lateFee", fee.StringFixed(2))
		processed++
	}

	logger.Info("Late fees applied", "overdue", len(overdue), "processed", processed)
	logger.ExitMethod("AutomationService.ApplyLateFees", "processed", processed)
	return processed, errors.Join(errs...)
}

// SendOverdueReminders stores one CUSTOMER_REMINDER per overdue rental and
// relays it through the notifier when one is configured.
func (s *automationService) SendOverdueReminders(ctx context.Context, now time.Time) (int, error) {
	logger.EnterMethod("AutomationService.SendOverdueReminders", "now", now, "dedupe", s.opts.DedupeReminders)

	repos := s.store.Repos()
	overdue, err := repos.Rentals.ListOverdue(ctx, now)
	if err != nil {
		logger.ExitMethodWithError("AutomationService.SendOverdueReminders", err)
		return 0, fmt.Errorf("list overdue rentals: %w", err)
	}

	var errs []error
	sent := 0
	for _, o := range overdue {
		n := &domain.Notification{
			Type:     domain.NotificationTypeCustomerReminder,
			Message:  fmt.Sprintf("Your rental for %s is overdue. Please return it.", o.ProductName),
			UserID:   o.CustomerID,
			SendDate: now,
		}
		if s.opts.DedupeReminders {
			n.DedupKey = ReminderDedupKey(o.RentalID, now)
		}

		created, err := repos.Notifications.Create(ctx, n)
		if err != nil {
			logger.Error("Failed to store overdue reminder", "rentalID", o.RentalID, "error", err)
			errs = append(errs, fmt.Errorf("rental %s: %w", o.RentalID, err))
			continue
		}
		if !created {
			logger.Debug("Overdue reminder already sent today", "rentalID", o.RentalID)
			continue
		}
		sent++
		s.relay(ctx, repos, n)
	}

	logger.Info("Overdue reminders sent", "overdue", len(overdue), "sent", sent)
	logger.ExitMethod("AutomationService.SendOverdueReminders", "sent", sent)
	return sent, errors.Join(errs...)
}

func (s *automationService) relay(ctx context.Context, repos repository.Repositories, n *domain.Notification) {
	if s.notifier == nil {
		return
	}
	user, err := repos.Users.GetByID(ctx, n.UserID)
	if err != nil {
		logger.Warn("Skipping reminder relay, recipient unknown", "userID", n.UserID, "error", err)
		return
	}
	if err := s.notifier.NotifyOverdue(ctx, user, n); err != nil {
		logger.Warn("Reminder relay failed", "userID", n.UserID, "notificationID", n.ID, "error", err)
	}
}

// ReminderDedupKey identifies the reminder for a rental on now's UTC date.
func ReminderDedupKey(rentalID string, now time.Time) string {
	return fmt.Sprintf("overdue:%s:%s", rentalID, utils.FormatDate(now))
}
