package service

import (
	"context"
	"strings"
	"time"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
)

type availabilityService struct {
	store repository.Store
}

func NewAvailabilityService(store repository.Store) AvailabilityService {
	return &availabilityService{store: store}
}

func (s *availabilityService) CreateProduct(ctx context.Context, actor domain.Actor, p *domain.Product) error {
	if actor.Role != domain.RoleProvider && !actor.IsAdmin() {
		return domain.NewError(domain.KindUnauthorized, "only providers can list products")
	}
	if !actor.IsAdmin() || p.ProviderID == "" {
		p.ProviderID = actor.ID
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return domain.NewError(domain.KindValidation, "product name is required")
	}
	if p.BasePrice.IsNegative() {
		return domain.NewError(domain.KindValidation, "base price must not be negative")
	}
	return s.store.Repos().Products.Create(ctx, p)
}

func (s *availabilityService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.store.Repos().Products.GetByID(ctx, id)
}

func (s *availabilityService) AddSlot(ctx context.Context, actor domain.Actor, productID string, start, end time.Time) (*domain.AvailabilitySlot, error) {
	repos := s.store.Repos()
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && product.ProviderID != actor.ID {
		return nil, domain.NewError(domain.KindUnauthorized, "only the product's provider can add slots")
	}
	if !start.Before(end) {
		return nil, domain.NewError(domain.KindValidation, "slot start must be before its end")
	}

	slot := &domain.AvailabilitySlot{ProductID: productID, StartDate: start.UTC(), EndDate: end.UTC()}
	if err := repos.Slots.Create(ctx, slot); err != nil {
		return nil, err
	}
	logger.Info("Availability slot added", "productID", productID, "slotID", slot.ID, "start", slot.StartDate, "end", slot.EndDate)
	return slot, nil
}

func (s *availabilityService) ListSlots(ctx context.Context, productID string) ([]domain.AvailabilitySlot, error) {
	repos := s.store.Repos()
	if _, err := repos.Products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return repos.Slots.ListByProduct(ctx, productID)
}

func (s *availabilityService) Reserve(ctx context.Context, actor domain.Actor, productID, slotID string) (*domain.AvailabilitySlot, error) {
	var slot *domain.AvailabilitySlot
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		slot, err = reserveSlot(ctx, repos, productID, slotID)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("AvailabilityService.Reserve", err, "actorID", actor.ID, "slotID", slotID)
		return nil, err
	}
	return slot, nil
}

func (s *availabilityService) Release(ctx context.Context, slotID string) error {
	return releaseSlot(ctx, s.store.Repos(), slotID)
}

// releaseSlot frees a booked slot. Inside a rental transaction it must be
// paired with clearing the rental's slot reference.
func releaseSlot(ctx context.Context, repos repository.Repositories, slotID string) error {
	if err := repos.Slots.Release(ctx, slotID); err != nil {
		return err
	}
	logger.Info("Slot released", "slotID", slotID)
	return nil
}

// reserveSlot is the check-and-set at the heart of booking. It must run inside
// a transaction: the conditional MarkBooked is what serializes competing
// callers, the preceding read only produces a precise error.
func reserveSlot(ctx context.Context, repos repository.Repositories, productID, slotID string) (*domain.AvailabilitySlot, error) {
	slot, err := repos.Slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.ProductID != productID {
		return nil, domain.NewError(domain.KindNotFound, "slot %s not found for product %s", slotID, productID)
	}
	if slot.IsBooked {
		return nil, domain.NewError(domain.KindSlotUnavailable, "slot %s is already booked", slotID)
	}

	booked, err := repos.Slots.MarkBooked(ctx, productID, slotID)
	if err != nil {
		return nil, err
	}
	if !booked {
		return nil, domain.NewError(domain.KindSlotUnavailable, "slot %s is already booked", slotID)
	}
	slot.IsBooked = true
	return slot, nil
}
