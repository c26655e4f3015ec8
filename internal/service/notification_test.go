package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sewasaathi-backend/internal/domain"
)

func TestNotificationService(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, f *fixture) (*domain.Notification, *domain.Notification) {
		t.Helper()
		older := &domain.Notification{Type: domain.NotificationTypeCustomerReminder, Message: "overdue", UserID: customer.ID, SendDate: slotEnd}
		newer := &domain.Notification{Type: domain.NotificationTypeCustomerReminder, Message: "still overdue", UserID: customer.ID, SendDate: slotEnd.Add(24 * time.Hour)}
		for _, n := range []*domain.Notification{older, newer} {
			_, err := f.store.Repos().Notifications.Create(ctx, n)
			require.NoError(t, err)
		}
		return older, newer
	}

	t.Run("ListMineNewestFirst", func(t *testing.T) {
		f := newFixture(t)
		older, newer := seed(t, f)
		svc := NewNotificationService(f.store)

		notes, err := svc.ListMine(ctx, customer)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, newer.ID, notes[0].ID)
		assert.Equal(t, older.ID, notes[1].ID)

		notes, err = svc.ListMine(ctx, stranger)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("OwnerMarksRead", func(t *testing.T) {
		f := newFixture(t)
		older, _ := seed(t, f)
		svc := NewNotificationService(f.store)

		n, err := svc.MarkRead(ctx, customer, older.ID, true)
		require.NoError(t, err)
		assert.True(t, n.IsRead)

		stored, err := f.store.Repos().Notifications.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsRead)

		n, err = svc.MarkRead(ctx, customer, older.ID, false)
		require.NoError(t, err)
		assert.False(t, n.IsRead)
	})

	t.Run("AdminMayMarkAnyone", func(t *testing.T) {
		f := newFixture(t)
		older, _ := seed(t, f)
		_, err := NewNotificationService(f.store).MarkRead(ctx, admin, older.ID, true)
		assert.NoError(t, err)
	})

	t.Run("OthersAreUnauthorized", func(t *testing.T) {
		f := newFixture(t)
		older, _ := seed(t, f)
		svc := NewNotificationService(f.store)

		for _, who := range []domain.Actor{stranger, provider} {
			_, err := svc.MarkRead(ctx, who, older.ID, true)
			assert.ErrorIs(t, err, domain.ErrUnauthorized, who.ID)
		}
		stored, err := f.store.Repos().Notifications.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsRead)
	})

	t.Run("Missing", func(t *testing.T) {
		f := newFixture(t)
		_, err := NewNotificationService(f.store).MarkRead(ctx, admin, "missing", true)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
