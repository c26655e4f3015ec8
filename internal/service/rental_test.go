package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sewasaathi-backend/internal/domain"
)

func TestRentalService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		rt := f.book(t, customer)

		assert.Equal(t, domain.RentalStatusQuotation, rt.Status)
		assert.Equal(t, customer.ID, rt.CustomerID)
		require.NotNil(t, rt.SlotID)
		assert.Equal(t, f.slot.ID, *rt.SlotID)
		assert.True(t, f.slotBooked(t))

		entries := f.history(t, rt.ID)
		require.Len(t, entries, 1)
		assert.Nil(t, entries[0].OldStatus)
		assert.Equal(t, domain.RentalStatusQuotation, entries[0].NewStatus)
		assert.Equal(t, customer.ID, entries[0].ChangedByID)
	})

	t.Run("SlotTaken", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, customer)

		_, err := f.rentals.Create(ctx, stranger, CreateRentalInput{
			ProductID: f.product.ID, SlotID: f.slot.ID, StartDate: slotStart, EndDate: slotEnd,
		})
		assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	})

	t.Run("DatesOutsideSlotRollsBackReservation", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.rentals.Create(ctx, customer, CreateRentalInput{
			ProductID: f.product.ID, SlotID: f.slot.ID, StartDate: slotStart, EndDate: slotEnd.AddDate(0, 0, 1),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.False(t, f.slotBooked(t))
	})

	t.Run("StartNotBeforeEnd", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.rentals.Create(ctx, customer, CreateRentalInput{
			ProductID: f.product.ID, SlotID: f.slot.ID, StartDate: slotEnd, EndDate: slotStart,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("NegativePrice", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.rentals.Create(ctx, customer, CreateRentalInput{
			ProductID: f.product.ID, SlotID: f.slot.ID, StartDate: slotStart, EndDate: slotEnd, Price: decimal.NewFromInt(-1),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("ProductNotRentable", func(t *testing.T) {
		f := newFixture(t)
		p := &domain.Product{Name: "Display", IsRentable: false}
		require.NoError(t, f.availability.CreateProduct(ctx, provider, p))
		s, err := f.availability.AddSlot(ctx, provider, p.ID, slotStart, slotEnd)
		require.NoError(t, err)

		_, err = f.rentals.Create(ctx, customer, CreateRentalInput{
			ProductID: p.ID, SlotID: s.ID, StartDate: slotStart, EndDate: slotEnd,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("OnBehalfOfAnotherCustomer", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.rentals.Create(ctx, stranger, CreateRentalInput{
			CustomerID: customer.ID, ProductID: f.product.ID, SlotID: f.slot.ID, StartDate: slotStart, EndDate: slotEnd,
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestRentalService_ConcurrentBookingsOfOneSlot(t *testing.T) {
	f := newFixture(t)
	const callers = 25

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			who := domain.Actor{ID: "customer-" + string(rune('a'+i)), Role: domain.RoleCustomer}
			_, errs[i] = f.rentals.Create(context.Background(), who, CreateRentalInput{
				ProductID: f.product.ID, SlotID: f.slot.ID, StartDate: slotStart, EndDate: slotEnd,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	}
	assert.Equal(t, 1, succeeded)

	all, err := f.rentals.ListAll(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRentalService_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("ForwardPathThenTerminal", func(t *testing.T) {
		f := newFixture(t)
		rt := f.book(t, customer)

		for _, to := range []domain.RentalStatus{domain.RentalStatusConfirmed, domain.RentalStatusActive, domain.RentalStatusCompleted} {
			got, err := f.rentals.Transition(ctx, admin, rt.ID, to)
			require.NoError(t, err)
			assert.Equal(t, to, got.Status)
		}
		assert.False(t, f.slotBooked(t))

		got, err := f.rentals.Get(ctx, customer, rt.ID)
		require.NoError(t, err)
		assert.Nil(t, got.SlotID)

		for _, to := range []domain.RentalStatus{domain.RentalStatusCancelled, domain.RentalStatusActive, domain.RentalStatusQuotation} {
			_, err := f.rentals.Transition(ctx, admin, rt.ID, to)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "COMPLETED -> %s", to)
		}
	})

	t.Run("SkippingAheadIsRejected", func(t *testing.T) {
		f := newFixture(t)
		rt := f.book(t, customer)

		_, err := f.rentals.Transition(ctx, admin, rt.ID, domain.RentalStatusActive)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Len(t, f.history(t, rt.ID), 1)
		assert.True(t, f.slotBooked(t))
	})

	t.Run("CancelReleasesSlot", func(t *testing.T) {
		f := newFixture(t)
		rt := f.book(t, customer)

		_, err := f.rentals.Transition(ctx, customer, rt.ID, domain.RentalStatusCancelled)
		require.NoError(t, err)
		assert.False(t, f.slotBooked(t))

		_, err = f.rentals.Transition(ctx, customer, rt.ID, domain.RentalStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		// the slot can be booked again
		f.book(t, stranger)
	})

	t.Run("ProviderMayTransition", func(t *testing.T) {
		f := newFixture(t)
		rt := f.book(t, customer)
		_, err := f.rentals.Transition(ctx, provider, rt.ID, domain.RentalStatusConfirmed)
		assert.NoError(t, err)
	})

	t.Run("StrangerIsUnauthorized", func(t *testing.T) {
		f := newFixture(t)
		rt := f.book(t, customer)
		_, err := f.rentals.Transition(ctx, stranger, rt.ID, domain.RentalStatusCancelled)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.True(t, f.slotBooked(t))
	})

	t.Run("UnknownRental", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.rentals.Transition(ctx, admin, "missing", domain.RentalStatusCancelled)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRentalService_HistoryChains(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.book(t, customer)

	for _, to := range []domain.RentalStatus{domain.RentalStatusConfirmed, domain.RentalStatusActive, domain.RentalStatusCancelled} {
		_, err := f.rentals.Transition(ctx, admin, rt.ID, to)
		require.NoError(t, err)
	}

	entries := f.history(t, rt.ID)
	require.Len(t, entries, 4)
	assert.Nil(t, entries[0].OldStatus)
	for i := 1; i < len(entries); i++ {
		require.NotNil(t, entries[i].OldStatus)
		assert.Equal(t, entries[i-1].NewStatus, *entries[i].OldStatus)
	}
}

func TestRentalService_PublishesBillableTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	invoices := new(MockInvoicePublisher)
	rentals := NewRentalService(f.store, invoices, fixedClock(slotStart))
	rt := f.book(t, customer)

	invoices.On("PublishInvoice", mock.Anything, mock.MatchedBy(func(e InvoiceEvent) bool {
		return e.RentalID == rt.ID && e.Status == domain.RentalStatusConfirmed
	})).Return(nil).Once()
	invoices.On("PublishInvoice", mock.Anything, mock.MatchedBy(func(e InvoiceEvent) bool {
		return e.RentalID == rt.ID && e.Status == domain.RentalStatusCompleted
	})).Return(nil).Once()

	for _, to := range []domain.RentalStatus{domain.RentalStatusConfirmed, domain.RentalStatusActive, domain.RentalStatusCompleted} {
		_, err := rentals.Transition(ctx, admin, rt.ID, to)
		require.NoError(t, err)
	}
	invoices.AssertExpectations(t)
	invoices.AssertNumberOfCalls(t, "PublishInvoice", 2)
}

func TestRentalService_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rt := f.book(t, customer)

	_, err := f.rentals.Get(ctx, provider, rt.ID)
	assert.NoError(t, err)

	_, err = f.rentals.Get(ctx, stranger, rt.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.rentals.ListAll(ctx, customer)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	mine, err := f.rentals.ListMine(ctx, customer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.rentals.Return(ctx, customer, rt.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
