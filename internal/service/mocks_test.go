package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/repository/memory"
)

type MockInvoicePublisher struct {
	mock.Mock
}

func (m *MockInvoicePublisher) PublishInvoice(ctx context.Context, e InvoiceEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyOverdue(ctx context.Context, user *domain.User, n *domain.Notification) error {
	args := m.Called(ctx, user, n)
	return args.Error(0)
}

var (
	admin    = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	provider = domain.Actor{ID: "provider-1", Role: domain.RoleProvider}
	customer = domain.Actor{ID: "customer-1", Role: domain.RoleCustomer}
	stranger = domain.Actor{ID: "customer-2", Role: domain.RoleCustomer}

	slotStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	slotEnd   = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// fixture wires every service against one in-memory store holding product
// "Drill" (base price 100) with a single slot from 2024-01-01 to 2024-01-05.
type fixture struct {
	store        *memory.Store
	invoices     *MockInvoicePublisher
	availability AvailabilityService
	rentals      RentalService
	quotations   QuotationService
	product      *domain.Product
	slot         *domain.AvailabilitySlot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedUsers(
		domain.User{ID: admin.ID, Name: "Admin", Role: domain.RoleAdmin},
		domain.User{ID: provider.ID, Name: "Pema", Email: "pema@example.com", Role: domain.RoleProvider},
		domain.User{ID: customer.ID, Name: "Sita", Email: "sita@example.com", Role: domain.RoleCustomer},
	)

	invoices := new(MockInvoicePublisher)
	invoices.On("PublishInvoice", mock.Anything, mock.Anything).Return(nil).Maybe()
	clock := fixedClock(slotStart.Add(-24 * time.Hour))

	f := &fixture{
		store:        store,
		invoices:     invoices,
		availability: NewAvailabilityService(store),
		rentals:      NewRentalService(store, invoices, clock),
		quotations:   NewQuotationService(store, invoices, clock),
	}

	ctx := context.Background()
	f.product = &domain.Product{Name: "Drill", BasePrice: decimal.NewFromInt(100), UnitType: "day", IsRentable: true}
	require.NoError(t, f.availability.CreateProduct(ctx, provider, f.product))
	slot, err := f.availability.AddSlot(ctx, provider, f.product.ID, slotStart, slotEnd)
	require.NoError(t, err)
	f.slot = slot
	return f
}

func (f *fixture) book(t *testing.T, who domain.Actor) *domain.Rental {
	t.Helper()
	rt, err := f.rentals.Create(context.Background(), who, CreateRentalInput{
		ProductID: f.product.ID,
		SlotID:    f.slot.ID,
		StartDate: slotStart,
		EndDate:   slotEnd,
		Price:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	return rt
}

func (f *fixture) slotBooked(t *testing.T) bool {
	t.Helper()
	s, err := f.store.Repos().Slots.GetByID(context.Background(), f.slot.ID)
	require.NoError(t, err)
	return s.IsBooked
}

func (f *fixture) history(t *testing.T, rentalID string) []domain.RentalHistoryEntry {
	t.Helper()
	entries, err := f.rentals.History(context.Background(), admin, rentalID)
	require.NoError(t, err)
	return entries
}
