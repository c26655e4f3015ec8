package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
)

type quotationService struct {
	store    repository.Store
	invoices InvoicePublisher
	now      Clock
}

func NewQuotationService(store repository.Store, invoices InvoicePublisher, now Clock) QuotationService {
	if invoices == nil {
		invoices = NewLoggingInvoicePublisher()
	}
	if now == nil {
		now = utcNow
	}
	return &quotationService{store: store, invoices: invoices, now: now}
}

// CreateOrUpdate opens a negotiation round. Reissuing overwrites the offer and
// clears any earlier acceptance.
func (s *quotationService) CreateOrUpdate(ctx context.Context, actor domain.Actor, rentalID string, price decimal.Decimal, validTill *time.Time) (*domain.Quotation, error) {
	logger.EnterMethod("QuotationService.CreateOrUpdate", "actorID", actor.ID, "rentalID", rentalID, "price", price.String())

	var q *domain.Quotation
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		rt, err := repos.Rentals.GetByIDForUpdate(ctx, rentalID)
		if err != nil {
			return err
		}
		product, err := repos.Products.GetByID(ctx, rt.ProductID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && product.ProviderID != actor.ID {
			return domain.NewError(domain.KindUnauthorized, "only the product's provider can quote rental %s", rentalID)
		}
		if !price.IsPositive() {
			return domain.NewError(domain.KindValidation, "quoted price must be positive")
		}
		if rt.Status != domain.RentalStatusQuotation && rt.Status != domain.RentalStatusConfirmed {
			return domain.NewError(domain.KindValidation, "rental %s is %s and can no longer be quoted", rentalID, rt.Status)
		}

		q = &domain.Quotation{RentalID: rentalID, Price: price}
		if validTill != nil {
			vt := validTill.UTC()
			q.ValidTill = &vt
		}
		return repos.Quotations.Upsert(ctx, q)
	})
	if err != nil {
		logger.ExitMethodWithError("QuotationService.CreateOrUpdate", err, "rentalID", rentalID)
		return nil, err
	}

	logger.Info("Quotation issued", "quotationID", q.ID, "rentalID", rentalID, "price", q.Price.String())
	return q, nil
}

// Accept marks the quotation accepted, agrees the rental price and confirms
// the rental, all in one transaction. A rental that is already CONFIRMED
// (renegotiated after an earlier acceptance) only takes the new price.
//
// Reissues lock the rental before upserting, so the quotation is read again
// once this transaction holds that lock, and the price written to the rental
// is the one on the row MarkAccepted actually flipped.
func (s *quotationService) Accept(ctx context.Context, actor domain.Actor, quotationID string) (*domain.Quotation, *domain.Rental, error) {
	logger.EnterMethod("QuotationService.Accept", "actorID", actor.ID, "quotationID", quotationID)

	var q *domain.Quotation
	var rental *domain.Rental
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		unlocked, err := repos.Quotations.GetByID(ctx, quotationID)
		if err != nil {
			return err
		}
		rt, err := repos.Rentals.GetByIDForUpdate(ctx, unlocked.RentalID)
		if err != nil {
			return err
		}
		if rt.CustomerID != actor.ID {
			return domain.NewError(domain.KindUnauthorized, "only the rental's customer can accept quotation %s", quotationID)
		}

		current, err := repos.Quotations.GetByID(ctx, quotationID)
		if err != nil {
			return err
		}
		if current.IsAccepted {
			return domain.NewError(domain.KindAlreadyAccepted, "quotation %s is already accepted", quotationID)
		}
		now := s.now()
		if current.Expired(now) {
			return domain.NewError(domain.KindValidation, "quotation %s expired at %s", quotationID, current.ValidTill.Format(time.RFC3339))
		}

		accepted, ok, err := repos.Quotations.MarkAccepted(ctx, quotationID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewError(domain.KindAlreadyAccepted, "quotation %s is already accepted", quotationID)
		}
		q = accepted

		rt.Price = q.Price
		if rt.Status == domain.RentalStatusConfirmed {
			if err := repos.Rentals.Update(ctx, rt); err != nil {
				return err
			}
		} else if err := applyTransition(ctx, repos, rt, domain.RentalStatusConfirmed, actor, now); err != nil {
			return err
		}
		rental = rt
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("QuotationService.Accept", err, "quotationID", quotationID)
		return nil, nil, err
	}

	logger.Info("Quotation accepted", "quotationID", quotationID, "rentalID", rental.ID, "price", rental.Price.String())
	publishInvoice(ctx, s.invoices, rental, s.now())
	return q, rental, nil
}

func (s *quotationService) GetByRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Quotation, error) {
	repos := s.store.Repos()
	rt, err := repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if err := authorizeParticipant(ctx, repos, actor, rt); err != nil {
		return nil, err
	}
	return repos.Quotations.GetByRentalID(ctx, rentalID)
}

// ListMine scopes the listing by role: customers see quotations on their own
// rentals, providers those on rentals of their products, administrators all.
func (s *quotationService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Quotation, error) {
	var filter repository.QuotationFilter
	switch actor.Role {
	case domain.RoleCustomer:
		filter.CustomerID = actor.ID
	case domain.RoleProvider:
		filter.ProviderID = actor.ID
	case domain.RoleAdmin:
	default:
		return nil, domain.NewError(domain.KindUnauthorized, "role %q cannot list quotations", actor.Role)
	}
	return s.store.Repos().Quotations.List(ctx, filter)
}

func (s *quotationService) ListAll(ctx context.Context, actor domain.Actor) ([]domain.Quotation, error) {
	if !actor.IsAdmin() {
		return nil, domain.NewError(domain.KindUnauthorized, "listing all quotations requires an administrator")
	}
	return s.store.Repos().Quotations.List(ctx, repository.QuotationFilter{})
}
