package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentalStatus_CanTransitionTo(t *testing.T) {
	all := []RentalStatus{
		RentalStatusQuotation, RentalStatusConfirmed, RentalStatusActive,
		RentalStatusCompleted, RentalStatusCancelled,
	}
	allowed := map[[2]RentalStatus]bool{
		{RentalStatusQuotation, RentalStatusConfirmed}: true,
		{RentalStatusQuotation, RentalStatusCancelled}: true,
		{RentalStatusConfirmed, RentalStatusActive}:    true,
		{RentalStatusConfirmed, RentalStatusCancelled}: true,
		{RentalStatusActive, RentalStatusCompleted}:    true,
		{RentalStatusActive, RentalStatusCancelled}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]RentalStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestRentalStatus_TransitionAllowed(t *testing.T) {
	t.Run("AdminMayCloseOutConfirmed", func(t *testing.T) {
		assert.True(t, RentalStatusConfirmed.TransitionAllowed(RentalStatusCompleted, RoleAdmin))
		assert.False(t, RentalStatusConfirmed.TransitionAllowed(RentalStatusCompleted, RoleCustomer))
		assert.False(t, RentalStatusConfirmed.TransitionAllowed(RentalStatusCompleted, RoleProvider))
	})

	t.Run("GraphEdgesForEveryone", func(t *testing.T) {
		for _, role := range []Role{RoleCustomer, RoleProvider, RoleAdmin} {
			assert.True(t, RentalStatusQuotation.TransitionAllowed(RentalStatusConfirmed, role))
		}
	})

	t.Run("AdminCannotLeaveTerminal", func(t *testing.T) {
		assert.False(t, RentalStatusCompleted.TransitionAllowed(RentalStatusActive, RoleAdmin))
		assert.False(t, RentalStatusCancelled.TransitionAllowed(RentalStatusQuotation, RoleAdmin))
		assert.False(t, RentalStatusQuotation.TransitionAllowed(RentalStatusCompleted, RoleAdmin))
	})
}

func TestRentalStatus_Properties(t *testing.T) {
	assert.True(t, RentalStatusCompleted.IsTerminal())
	assert.True(t, RentalStatusCancelled.IsTerminal())
	assert.False(t, RentalStatusActive.IsTerminal())

	assert.True(t, RentalStatusCancelled.ReleasesSlot())
	assert.True(t, RentalStatusCompleted.ReleasesSlot())
	assert.False(t, RentalStatusActive.ReleasesSlot())

	assert.True(t, RentalStatusConfirmed.Billable())
	assert.True(t, RentalStatusCompleted.Billable())
	assert.False(t, RentalStatusCancelled.Billable())
}

func TestParseRentalStatus(t *testing.T) {
	st, err := ParseRentalStatus("ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, RentalStatusActive, st)

	_, err = ParseRentalStatus("active")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseRentalStatus("")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestError_IsByKind(t *testing.T) {
	err := fmt.Errorf("load rental: %w", NewError(KindNotFound, "rental %s not found", "r1"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "NOT_FOUND: rental r1 not found", errors.Unwrap(err).Error())
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("boom")))
}

func TestAvailabilitySlot_Contains(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	slot := AvailabilitySlot{StartDate: day(1), EndDate: day(5)}

	assert.True(t, slot.Contains(day(1), day(5)))
	assert.True(t, slot.Contains(day(2), day(3)))
	assert.False(t, slot.Contains(day(1), day(6)))
	assert.False(t, slot.Contains(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), day(3)))
}

func TestQuotation_Expired(t *testing.T) {
	deadline := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	q := Quotation{ValidTill: &deadline}

	assert.False(t, q.Expired(deadline))
	assert.True(t, q.Expired(deadline.Add(time.Second)))
	assert.False(t, (&Quotation{}).Expired(deadline.AddDate(1, 0, 0)))
}
