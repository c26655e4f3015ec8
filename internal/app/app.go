// Package app assembles the store and services shared by the server and the
// cronjob runner.
package app

import (
	"context"
	"fmt"

	"sewasaathi-backend/internal/config"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
	"sewasaathi-backend/internal/repository/memory"
	"sewasaathi-backend/internal/repository/postgres"
	"sewasaathi-backend/internal/service"
)

type Services struct {
	Availability  service.AvailabilityService
	Rentals       service.RentalService
	Quotations    service.QuotationService
	Notifications service.NotificationService
	Automation    service.AutomationService
}

// OpenStore returns the store selected by database.driver and a function
// releasing its resources.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, func() error, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on exit")
		return memory.NewStore(), func() error { return nil }, nil
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver, "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
	db, err := postgres.Open(ctx, cfg.Database.Driver, cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Database schema is up to date")
	}
	logger.Info("Database connection established")
	return postgres.NewStore(db), db.Close, nil
}

func NewServices(cfg *config.Config, store repository.Store) *Services {
	var notifier service.Notifier
	if cfg.SendGrid.APIKey != "" {
		logger.Info("Reminder email relay enabled", "from", cfg.SendGrid.FromEmail)
		notifier = service.NewSendGridNotifier(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}
	invoices := service.NewLoggingInvoicePublisher()

	return &Services{
		Availability:  service.NewAvailabilityService(store),
		Rentals:       service.NewRentalService(store, invoices, nil),
		Quotations:    service.NewQuotationService(store, invoices, nil),
		Notifications: service.NewNotificationService(store),
		Automation: service.NewAutomationService(store, notifier, service.AutomationOptions{
			LateFeeRate:     cfg.LateFeeRate(),
			DedupeReminders: cfg.ShouldDedupeReminders(),
		}),
	}
}
