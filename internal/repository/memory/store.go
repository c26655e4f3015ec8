// Package memory keeps every table in process memory. It backs the dev
// profile (database.driver: memory) and the service tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/repository"
)

type state struct {
	users         map[string]domain.User
	products      map[string]domain.Product
	slots         map[string]domain.AvailabilitySlot
	rentals       map[string]domain.Rental
	history       []domain.RentalHistoryEntry
	quotations    map[string]domain.Quotation
	returns       map[string]domain.RentalReturn // keyed by rental id
	notifications []domain.Notification
	dedupKeys     map[string]bool
}

func newState() *state {
	return &state{
		users:      make(map[string]domain.User),
		products:   make(map[string]domain.Product),
		slots:      make(map[string]domain.AvailabilitySlot),
		rentals:    make(map[string]domain.Rental),
		quotations: make(map[string]domain.Quotation),
		returns:    make(map[string]domain.RentalReturn),
		dedupKeys:  make(map[string]bool),
	}
}

func (s *state) clone() *state {
	return &state{
		users:         maps.Clone(s.users),
		products:      maps.Clone(s.products),
		slots:         maps.Clone(s.slots),
		rentals:       maps.Clone(s.rentals),
		history:       slices.Clone(s.history),
		quotations:    maps.Clone(s.quotations),
		returns:       maps.Clone(s.returns),
		notifications: slices.Clone(s.notifications),
		dedupKeys:     maps.Clone(s.dedupKeys),
	}
}

// Store serializes all access behind one mutex. A transaction holds the mutex
// for its whole duration and works on a copy of the tables that replaces the
// live copy only when fn succeeds.
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

// view is what repositories see: either the live tables guarded by the store
// mutex, or a transaction's private copy that needs no locking.
type view struct {
	store *Store
	tx    *state
}

func (v view) acquire() (*state, func()) {
	if v.tx != nil {
		return v.tx, func() {}
	}
	v.store.mu.Lock()
	return v.store.st, v.store.mu.Unlock
}

func reposFor(v view) repository.Repositories {
	return repository.Repositories{
		Products:      &productRepository{v},
		Slots:         &slotRepository{v},
		Rentals:       &rentalRepository{v},
		History:       &historyRepository{v},
		Quotations:    &quotationRepository{v},
		Returns:       &returnRepository{v},
		Notifications: &notificationRepository{v},
		Users:         &userRepository{v},
	}
}

func (s *Store) Repos() repository.Repositories {
	return reposFor(view{store: s})
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	if err := fn(ctx, reposFor(view{store: s, tx: tx})); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// SeedUsers registers users so services can resolve product owners and
// reminder recipients.
func (s *Store) SeedUsers(users ...domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.st.users[u.ID] = u
	}
}
