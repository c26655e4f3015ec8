package service

import (
	"context"
	"time"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
)

type rentalService struct {
	store    repository.Store
	invoices InvoicePublisher
	now      Clock
}

func NewRentalService(store repository.Store, invoices InvoicePublisher, now Clock) RentalService {
	if invoices == nil {
		invoices = NewLoggingInvoicePublisher()
	}
	if now == nil {
		now = utcNow
	}
	return &rentalService{store: store, invoices: invoices, now: now}
}

func (s *rentalService) Create(ctx context.Context, actor domain.Actor, in CreateRentalInput) (*domain.Rental, error) {
	logger.EnterMethod("RentalService.Create", "actorID", actor.ID, "productID", in.ProductID, "slotID", in.SlotID)

	if in.CustomerID == "" {
		in.CustomerID = actor.ID
	}
	if in.CustomerID != actor.ID && !actor.IsAdmin() {
		return nil, domain.NewError(domain.KindUnauthorized, "cannot book on behalf of another customer")
	}
	if in.SlotID == "" {
		return nil, domain.NewError(domain.KindValidation, "availability slot is required")
	}
	if !in.StartDate.Before(in.EndDate) {
		return nil, domain.NewError(domain.KindValidation, "start date must be before end date")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewError(domain.KindValidation, "price must not be negative")
	}

	var rental *domain.Rental
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if !product.IsRentable {
			return domain.NewError(domain.KindValidation, "product %s is not rentable", product.ID)
		}

		slot, err := reserveSlot(ctx, repos, in.ProductID, in.SlotID)
		if err != nil {
			return err
		}
		if !slot.Contains(in.StartDate, in.EndDate) {
			return domain.NewError(domain.KindValidation, "rental dates fall outside slot %s", slot.ID)
		}

		now := s.now()
		slotID := slot.ID
		rental = &domain.Rental{
			CustomerID: in.CustomerID,
			ProductID:  in.ProductID,
			SlotID:     &slotID,
			StartDate:  in.StartDate.UTC(),
			EndDate:    in.EndDate.UTC(),
			Price:      in.Price,
			Status:     domain.RentalStatusQuotation,
			CreatedAt:  now,
		}
		if err := repos.Rentals.Create(ctx, rental); err != nil {
			return err
		}
		return repos.History.Append(ctx, &domain.RentalHistoryEntry{
			RentalID:    rental.ID,
			NewStatus:   domain.RentalStatusQuotation,
			ChangedByID: actor.ID,
			ChangedAt:   now,
		})
	})
	if err != nil {
		logger.ExitMethodWithError("RentalService.Create", err, "slotID", in.SlotID)
		return nil, err
	}

	logger.Info("Rental created", "rentalID", rental.ID, "customerID", rental.CustomerID, "slotID", in.SlotID)
	logger.ExitMethod("RentalService.Create", "rentalID", rental.ID)
	return rental, nil
}

func (s *rentalService) Transition(ctx context.Context, actor domain.Actor, rentalID string, to domain.RentalStatus) (*domain.Rental, error) {
	logger.EnterMethod("RentalService.Transition", "actorID", actor.ID, "rentalID", rentalID, "to", to)

	var rental *domain.Rental
	var from domain.RentalStatus
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		rt, err := repos.Rentals.GetByIDForUpdate(ctx, rentalID)
		if err != nil {
			return err
		}
		if err := authorizeParticipant(ctx, repos, actor, rt); err != nil {
			return err
		}
		from = rt.Status
		if err := applyTransition(ctx, repos, rt, to, actor, s.now()); err != nil {
			return err
		}
		rental = rt
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("RentalService.Transition", err, "rentalID", rentalID, "to", to)
		return nil, err
	}

	logger.Info("Rental status changed", "rentalID", rentalID, "from", from, "to", to, "actorID", actor.ID)
	if to.Billable() {
		publishInvoice(ctx, s.invoices, rental, s.now())
	}
	logger.ExitMethod("RentalService.Transition", "rentalID", rentalID)
	return rental, nil
}

func (s *rentalService) Get(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	repos := s.store.Repos()
	rt, err := repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if err := authorizeParticipant(ctx, repos, actor, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *rentalService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Rental, error) {
	return s.store.Repos().Rentals.ListByCustomer(ctx, actor.ID)
}

func (s *rentalService) ListAll(ctx context.Context, actor domain.Actor) ([]domain.Rental, error) {
	if !actor.IsAdmin() {
		return nil, domain.NewError(domain.KindUnauthorized, "listing all rentals requires an administrator")
	}
	return s.store.Repos().Rentals.List(ctx)
}

func (s *rentalService) History(ctx context.Context, actor domain.Actor, rentalID string) ([]domain.RentalHistoryEntry, error) {
	if _, err := s.Get(ctx, actor, rentalID); err != nil {
		return nil, err
	}
	return s.store.Repos().History.ListByRental(ctx, rentalID)
}

func (s *rentalService) Return(ctx context.Context, actor domain.Actor, rentalID string) (*domain.RentalReturn, error) {
	if _, err := s.Get(ctx, actor, rentalID); err != nil {
		return nil, err
	}
	return s.store.Repos().Returns.GetByRentalID(ctx, rentalID)
}

// authorizeParticipant admits administrators, the renting customer and the
// provider who owns the rented product.
func authorizeParticipant(ctx context.Context, repos repository.Repositories, actor domain.Actor, rt *domain.Rental) error {
	if actor.IsAdmin() || rt.CustomerID == actor.ID {
		return nil
	}
	product, err := repos.Products.GetByID(ctx, rt.ProductID)
	if err != nil {
		return err
	}
	if product.ProviderID == actor.ID {
		return nil
	}
	return domain.NewError(domain.KindUnauthorized, "actor %s may not act on rental %s", actor.ID, rt.ID)
}

// applyTransition moves rt to the next status inside the caller's
// transaction: it writes the rental, appends history and frees the slot on
// terminal statuses. rt is updated in place.
func applyTransition(ctx context.Context, repos repository.Repositories, rt *domain.Rental, to domain.RentalStatus, actor domain.Actor, now time.Time) error {
	if !rt.Status.TransitionAllowed(to, actor.Role) {
		return domain.NewError(domain.KindInvalidTransition, "rental %s cannot move from %s to %s", rt.ID, rt.Status, to)
	}

	from := rt.Status
	rt.Status = to
	if to.ReleasesSlot() && rt.SlotID != nil {
		if err := releaseSlot(ctx, repos, *rt.SlotID); err != nil {
			return err
		}
		rt.SlotID = nil
	}
	if err := repos.Rentals.Update(ctx, rt); err != nil {
		return err
	}
	return repos.History.Append(ctx, &domain.RentalHistoryEntry{
		RentalID:    rt.ID,
		OldStatus:   &from,
		NewStatus:   to,
		ChangedByID: actor.ID,
		ChangedAt:   now,
	})
}
