package service

import (
	"context"
	"time"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
)

type loggingInvoicePublisher struct{}

// NewLoggingInvoicePublisher records billable rentals in the log. It stands in
// until an invoicing service consumes these events.
func NewLoggingInvoicePublisher() InvoicePublisher {
	return loggingInvoicePublisher{}
}

func (loggingInvoicePublisher) PublishInvoice(_ context.Context, e InvoiceEvent) error {
	logger.Info("Rental ready for invoicing",
		"rentalID", e.RentalID,
		"customerID", e.CustomerID,
		"price", e.Price.StringFixed(2),
		"status", e.Status,
		"occurredAt", e.OccurredAt,
	)
	return nil
}

// publishInvoice runs after commit. A publisher failure is logged; the
// transition it reports has already happened.
func publishInvoice(ctx context.Context, p InvoicePublisher, rt *domain.Rental, now time.Time) {
	event := InvoiceEvent{
		RentalID:   rt.ID,
		CustomerID: rt.CustomerID,
		Price:      rt.Price,
		Status:     rt.Status,
		OccurredAt: now,
	}
	logger.ExternalServiceCall("invoicing", "PublishInvoice", "rentalID", rt.ID)
	err := p.PublishInvoice(ctx, event)
	logger.ExternalServiceResult("invoicing", "PublishInvoice", err, "rentalID", rt.ID)
}
