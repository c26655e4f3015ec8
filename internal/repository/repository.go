package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"sewasaathi-backend/internal/domain"
)

// Lookups return an error matching domain.ErrNotFound when the row is absent.

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type SlotRepository interface {
	Create(ctx context.Context, slot *domain.AvailabilitySlot) error
	GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.AvailabilitySlot, error)
	// MarkBooked flips booked=false -> true for a slot of the given product.
	// It reports false, without error, when no free slot matched.
	MarkBooked(ctx context.Context, productID, slotID string) (bool, error)
	// Release sets booked=false. Releasing a free slot is not an error.
	Release(ctx context.Context, slotID string) error
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	// GetByIDForUpdate is GetByID holding a row lock until the surrounding
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Rental, error)
	List(ctx context.Context) ([]domain.Rental, error)
	// ListOverdue returns rentals whose end date is before now and whose status
	// is not COMPLETED.
	ListOverdue(ctx context.Context, now time.Time) ([]domain.OverdueRental, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.RentalHistoryEntry) error
	ListByRental(ctx context.Context, rentalID string) ([]domain.RentalHistoryEntry, error)
}

type QuotationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Quotation, error)
	GetByRentalID(ctx context.Context, rentalID string) (*domain.Quotation, error)
	// Upsert creates the rental's quotation or overwrites price, deadline and
	// acceptance of the existing one. q.ID is set to the stored row's id.
	Upsert(ctx context.Context, q *domain.Quotation) error
	// MarkAccepted flips accepted=false -> true and returns the row as it was
	// accepted. ok is false, without error, when the quotation was already
	// accepted or does not exist.
	MarkAccepted(ctx context.Context, id string) (q *domain.Quotation, ok bool, err error)
	// List returns quotations newest first, narrowed by filter.
	List(ctx context.Context, filter QuotationFilter) ([]domain.Quotation, error)
}

// QuotationFilter narrows QuotationRepository.List. Empty fields match every row.
type QuotationFilter struct {
	CustomerID string // the rental's customer
	ProviderID string // the provider owning the rented product
}

type ReturnRepository interface {
	// UpsertLateFee creates the rental's return record or updates its fee in place.
	UpsertLateFee(ctx context.Context, rentalID string, scheduled time.Time, lateFee decimal.Decimal) error
	GetByRentalID(ctx context.Context, rentalID string) (*domain.RentalReturn, error)
}

type NotificationRepository interface {
	// Create stores n. When n.DedupKey is set and already taken, nothing is
	// stored and created is false.
	Create(ctx context.Context, n *domain.Notification) (created bool, err error)
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	// ListByUser returns the user's notifications, newest send date first.
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	SetRead(ctx context.Context, id string, read bool) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Products      ProductRepository
	Slots         SlotRepository
	Rentals       RentalRepository
	History       HistoryRepository
	Quotations    QuotationRepository
	Returns       ReturnRepository
	Notifications NotificationRepository
	Users         UserRepository
}

// Transactor runs fn inside a single transaction. fn's writes become visible
// together when it returns nil and are discarded when it returns an error.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Store is the persistence collaborator handed to every service.
type Store interface {
	Transactor
	Repos() Repositories
}
