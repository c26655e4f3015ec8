package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/repository"
)

func notFound(entity, id string) error {
	return domain.NewError(domain.KindNotFound, "%s %s not found", entity, id)
}

type productRepository struct{ v view }

func (r *productRepository) Create(_ context.Context, p *domain.Product) error {
	st, release := r.v.acquire()
	defer release()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	st.products[p.ID] = *p
	return nil
}

func (r *productRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	st, release := r.v.acquire()
	defer release()
	p, ok := st.products[id]
	if !ok {
		return nil, notFound("product", id)
	}
	return &p, nil
}

type slotRepository struct{ v view }

func (r *slotRepository) Create(_ context.Context, s *domain.AvailabilitySlot) error {
	st, release := r.v.acquire()
	defer release()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	st.slots[s.ID] = *s
	return nil
}

func (r *slotRepository) GetByID(_ context.Context, id string) (*domain.AvailabilitySlot, error) {
	st, release := r.v.acquire()
	defer release()
	s, ok := st.slots[id]
	if !ok {
		return nil, notFound("slot", id)
	}
	return &s, nil
}

func (r *slotRepository) ListByProduct(_ context.Context, productID string) ([]domain.AvailabilitySlot, error) {
	st, release := r.v.acquire()
	defer release()
	var out []domain.AvailabilitySlot
	for _, s := range st.slots {
		if s.ProductID == productID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *slotRepository) MarkBooked(_ context.Context, productID, slotID string) (bool, error) {
	st, release := r.v.acquire()
	defer release()
	s, ok := st.slots[slotID]
	if !ok || s.ProductID != productID || s.IsBooked {
		return false, nil
	}
	s.IsBooked = true
	st.slots[slotID] = s
	return true, nil
}

func (r *slotRepository) Release(_ context.Context, slotID string) error {
	st, release := r.v.acquire()
	defer release()
	if s, ok := st.slots[slotID]; ok {
		s.IsBooked = false
		st.slots[slotID] = s
	}
	return nil
}

type rentalRepository struct{ v view }

func (r *rentalRepository) Create(_ context.Context, rt *domain.Rental) error {
	st, release := r.v.acquire()
	defer release()
	if rt.SlotID != nil {
		for _, other := range st.rentals {
			if other.SlotID != nil && *other.SlotID == *rt.SlotID && !other.Status.IsTerminal() {
				return domain.NewError(domain.KindSlotUnavailable, "slot %s is held by another rental", *rt.SlotID)
			}
		}
	}
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now().UTC()
	}
	rt.UpdatedAt = rt.CreatedAt
	st.rentals[rt.ID] = *rt
	return nil
}

func (r *rentalRepository) GetByID(_ context.Context, id string) (*domain.Rental, error) {
	st, release := r.v.acquire()
	defer release()
	rt, ok := st.rentals[id]
	if !ok {
		return nil, notFound("rental", id)
	}
	return &rt, nil
}

// GetByIDForUpdate needs no extra locking: transactions already hold the
// store mutex.
func (r *rentalRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Rental, error) {
	return r.GetByID(ctx, id)
}

func (r *rentalRepository) Update(_ context.Context, rt *domain.Rental) error {
	st, release := r.v.acquire()
	defer release()
	if _, ok := st.rentals[rt.ID]; !ok {
		return notFound("rental", rt.ID)
	}
	rt.UpdatedAt = time.Now().UTC()
	st.rentals[rt.ID] = *rt
	return nil
}

func (r *rentalRepository) ListByCustomer(_ context.Context, customerID string) ([]domain.Rental, error) {
	st, release := r.v.acquire()
	defer release()
	var out []domain.Rental
	for _, rt := range st.rentals {
		if rt.CustomerID == customerID {
			out = append(out, rt)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *rentalRepository) List(_ context.Context) ([]domain.Rental, error) {
	st, release := r.v.acquire()
	defer release()
	out := make([]domain.Rental, 0, len(st.rentals))
	for _, rt := range st.rentals {
		out = append(out, rt)
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(rentals []domain.Rental) {
	sort.Slice(rentals, func(i, j int) bool { return rentals[i].CreatedAt.After(rentals[j].CreatedAt) })
}

func (r *rentalRepository) ListOverdue(_ context.Context, now time.Time) ([]domain.OverdueRental, error) {
	st, release := r.v.acquire()
	defer release()
	var out []domain.OverdueRental
	for _, rt := range st.rentals {
		if !rt.EndDate.Before(now) || rt.Status == domain.RentalStatusCompleted {
			continue
		}
		p, ok := st.products[rt.ProductID]
		if !ok {
			continue
		}
		out = append(out, domain.OverdueRental{
			RentalID:    rt.ID,
			CustomerID:  rt.CustomerID,
			ProductID:   rt.ProductID,
			ProductName: p.Name,
			BasePrice:   p.BasePrice,
			EndDate:     rt.EndDate,
			Status:      rt.Status,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, nil
}

type historyRepository struct{ v view }

func (r *historyRepository) Append(_ context.Context, e *domain.RentalHistoryEntry) error {
	st, release := r.v.acquire()
	defer release()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ChangedAt.IsZero() {
		e.ChangedAt = time.Now().UTC()
	}
	st.history = append(st.history, *e)
	return nil
}

func (r *historyRepository) ListByRental(_ context.Context, rentalID string) ([]domain.RentalHistoryEntry, error) {
	st, release := r.v.acquire()
	defer release()
	var out []domain.RentalHistoryEntry
	for _, e := range st.history {
		if e.RentalID == rentalID {
			out = append(out, e)
		}
	}
	return out, nil
}

type quotationRepository struct{ v view }

func (r *quotationRepository) GetByID(_ context.Context, id string) (*domain.Quotation, error) {
	st, release := r.v.acquire()
	defer release()
	q, ok := st.quotations[id]
	if !ok {
		return nil, notFound("quotation", id)
	}
	return &q, nil
}

func (r *quotationRepository) GetByRentalID(_ context.Context, rentalID string) (*domain.Quotation, error) {
	st, release := r.v.acquire()
	defer release()
	for _, q := range st.quotations {
		if q.RentalID == rentalID {
			return &q, nil
		}
	}
	return nil, notFound("quotation for rental", rentalID)
}

func (r *quotationRepository) Upsert(_ context.Context, q *domain.Quotation) error {
	st, release := r.v.acquire()
	defer release()
	now := time.Now().UTC()
	q.IsAccepted = false
	q.UpdatedAt = now
	for id, existing := range st.quotations {
		if existing.RentalID == q.RentalID {
			q.ID = id
			q.CreatedAt = existing.CreatedAt
			st.quotations[id] = *q
			return nil
		}
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.CreatedAt = now
	st.quotations[q.ID] = *q
	return nil
}

func (r *quotationRepository) MarkAccepted(_ context.Context, id string) (*domain.Quotation, bool, error) {
	st, release := r.v.acquire()
	defer release()
	q, ok := st.quotations[id]
	if !ok || q.IsAccepted {
		return nil, false, nil
	}
	q.IsAccepted = true
	q.UpdatedAt = time.Now().UTC()
	st.quotations[id] = q
	return &q, true, nil
}

func (r *quotationRepository) List(_ context.Context, filter repository.QuotationFilter) ([]domain.Quotation, error) {
	st, release := r.v.acquire()
	defer release()
	var out []domain.Quotation
	for _, q := range st.quotations {
		rt, ok := st.rentals[q.RentalID]
		if !ok {
			continue
		}
		p, ok := st.products[rt.ProductID]
		if !ok {
			continue
		}
		if filter.CustomerID != "" && rt.CustomerID != filter.CustomerID {
			continue
		}
		if filter.ProviderID != "" && p.ProviderID != filter.ProviderID {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type returnRepository struct{ v view }

func (r *returnRepository) UpsertLateFee(_ context.Context, rentalID string, scheduled time.Time, lateFee decimal.Decimal) error {
	st, release := r.v.acquire()
	defer release()
	rr, ok := st.returns[rentalID]
	if !ok {
		rr = domain.RentalReturn{ID: uuid.NewString(), RentalID: rentalID, Scheduled: scheduled}
	}
	rr.LateFee = lateFee
	st.returns[rentalID] = rr
	return nil
}

func (r *returnRepository) GetByRentalID(_ context.Context, rentalID string) (*domain.RentalReturn, error) {
	st, release := r.v.acquire()
	defer release()
	rr, ok := st.returns[rentalID]
	if !ok {
		return nil, notFound("return for rental", rentalID)
	}
	return &rr, nil
}

type notificationRepository struct{ v view }

func (r *notificationRepository) Create(_ context.Context, n *domain.Notification) (bool, error) {
	st, release := r.v.acquire()
	defer release()
	if n.DedupKey != "" {
		if st.dedupKeys[n.DedupKey] {
			return false, nil
		}
		st.dedupKeys[n.DedupKey] = true
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	st.notifications = append(st.notifications, *n)
	return true, nil
}

func (r *notificationRepository) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	st, release := r.v.acquire()
	defer release()
	for _, n := range st.notifications {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, notFound("notification", id)
}

func (r *notificationRepository) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	st, release := r.v.acquire()
	defer release()
	var out []domain.Notification
	for _, n := range st.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SendDate.After(out[j].SendDate) })
	return out, nil
}

func (r *notificationRepository) SetRead(_ context.Context, id string, read bool) error {
	st, release := r.v.acquire()
	defer release()
	for i := range st.notifications {
		if st.notifications[i].ID == id {
			st.notifications[i].IsRead = read
			return nil
		}
	}
	return notFound("notification", id)
}

type userRepository struct{ v view }

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	st, release := r.v.acquire()
	defer release()
	u, ok := st.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}
