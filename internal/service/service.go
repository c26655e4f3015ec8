package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"sewasaathi-backend/internal/domain"
)

type AvailabilityService interface {
	CreateProduct(ctx context.Context, actor domain.Actor, product *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	AddSlot(ctx context.Context, actor domain.Actor, productID string, start, end time.Time) (*domain.AvailabilitySlot, error)
	ListSlots(ctx context.Context, productID string) ([]domain.AvailabilitySlot, error)
	// Reserve and Release run the slot check-and-set on their own. Booking and
	// status changes run the same steps inside their rental transaction.
	Reserve(ctx context.Context, actor domain.Actor, productID, slotID string) (*domain.AvailabilitySlot, error)
	Release(ctx context.Context, slotID string) error
}

// CreateRentalInput describes a booking request. CustomerID defaults to the
// actor; only administrators may book on behalf of someone else.
type CreateRentalInput struct {
	CustomerID string
	ProductID  string
	SlotID     string
	StartDate  time.Time
	EndDate    time.Time
	Price      decimal.Decimal
}

type RentalService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateRentalInput) (*domain.Rental, error)
	Transition(ctx context.Context, actor domain.Actor, rentalID string, to domain.RentalStatus) (*domain.Rental, error)
	Get(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Rental, error)
	ListAll(ctx context.Context, actor domain.Actor) ([]domain.Rental, error)
	History(ctx context.Context, actor domain.Actor, rentalID string) ([]domain.RentalHistoryEntry, error)
	Return(ctx context.Context, actor domain.Actor, rentalID string) (*domain.RentalReturn, error)
}

type QuotationService interface {
	CreateOrUpdate(ctx context.Context, actor domain.Actor, rentalID string, price decimal.Decimal, validTill *time.Time) (*domain.Quotation, error)
	Accept(ctx context.Context, actor domain.Actor, quotationID string) (*domain.Quotation, *domain.Rental, error)
	GetByRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Quotation, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Quotation, error)
	ListAll(ctx context.Context, actor domain.Actor) ([]domain.Quotation, error)
}

// NotificationService is the recipient's inbox over stored reminders.
type NotificationService interface {
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Notification, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string, read bool) (*domain.Notification, error)
}

// AutomationService holds the periodic jobs. Both take the evaluation time
// explicitly so the tick source stays outside.
type AutomationService interface {
	ApplyLateFees(ctx context.Context, now time.Time) (int, error)
	SendOverdueReminders(ctx context.Context, now time.Time) (int, error)
}

// Notifier relays a stored reminder to its recipient out of band.
type Notifier interface {
	NotifyOverdue(ctx context.Context, user *domain.User, n *domain.Notification) error
}

// InvoiceEvent is handed to the invoicing collaborator when a rental becomes billable.
type InvoiceEvent struct {
	RentalID   string
	CustomerID string
	Price      decimal.Decimal
	Status     domain.RentalStatus
	OccurredAt time.Time
}

type InvoicePublisher interface {
	PublishInvoice(ctx context.Context, event InvoiceEvent) error
}

// Clock returns the current time. Services default to time.Now in UTC.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
