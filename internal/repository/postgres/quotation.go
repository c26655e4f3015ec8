package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
)

type quotationRepository struct {
	db DBTX
}

func NewQuotationRepository(db DBTX) repository.QuotationRepository {
	return &quotationRepository{db: db}
}

const quotationSelect = `SELECT id, rental_id, price, valid_till, is_accepted, created_at, updated_at FROM quotations`

func scanQuotation(row scanner) (*domain.Quotation, error) {
	q := &domain.Quotation{}
	var validTill sql.NullTime
	if err := row.Scan(&q.ID, &q.RentalID, &q.Price, &validTill, &q.IsAccepted, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	if validTill.Valid {
		q.ValidTill = &validTill.Time
	}
	return q, nil
}

func (r *quotationRepository) GetByID(ctx context.Context, id string) (*domain.Quotation, error) {
	q, err := scanQuotation(r.db.QueryRowContext(ctx, quotationSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, lookupErr(err, "quotation", id)
	}
	return q, nil
}

func (r *quotationRepository) GetByRentalID(ctx context.Context, rentalID string) (*domain.Quotation, error) {
	q, err := scanQuotation(r.db.QueryRowContext(ctx, quotationSelect+` WHERE rental_id = $1`, rentalID))
	if err != nil {
		return nil, lookupErr(err, "quotation for rental", rentalID)
	}
	return q, nil
}

// Upsert relies on the unique rental_id column: a second round for the same
// rental overwrites the offer and clears acceptance.
func (r *quotationRepository) Upsert(ctx context.Context, q *domain.Quotation) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.UpdatedAt = time.Now().UTC()
	var validTill sql.NullTime
	if q.ValidTill != nil {
		validTill = sql.NullTime{Time: *q.ValidTill, Valid: true}
	}

	query := `INSERT INTO quotations (id, rental_id, price, valid_till, is_accepted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, FALSE, $5, $5)
	          ON CONFLICT (rental_id) DO UPDATE
	          SET price = EXCLUDED.price, valid_till = EXCLUDED.valid_till, is_accepted = FALSE, updated_at = EXCLUDED.updated_at
	          RETURNING id, is_accepted, created_at`
	return r.db.QueryRowContext(ctx, query, q.ID, q.RentalID, q.Price, validTill, q.UpdatedAt).Scan(&q.ID, &q.IsAccepted, &q.CreatedAt)
}

// MarkAccepted returns the accepted row itself, so a reissue committed after
// the caller's last read is what gets accepted and reported.
func (r *quotationRepository) MarkAccepted(ctx context.Context, id string) (*domain.Quotation, bool, error) {
	query := `UPDATE quotations SET is_accepted = TRUE, updated_at = $2 WHERE id = $1 AND is_accepted = FALSE
	          RETURNING id, rental_id, price, valid_till, is_accepted, created_at, updated_at`
	q, err := scanQuotation(r.db.QueryRowContext(ctx, query, id, time.Now().UTC()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return q, true, nil
}

func (r *quotationRepository) List(ctx context.Context, filter repository.QuotationFilter) ([]domain.Quotation, error) {
	ds := dialect.From(goqu.T("quotations").As("q")).
		Join(goqu.T("rentals").As("r"), goqu.On(goqu.I("r.id").Eq(goqu.I("q.rental_id")))).
		Join(goqu.T("products").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("r.product_id")))).
		Select(
			goqu.I("q.id"),
			goqu.I("q.rental_id"),
			goqu.I("q.price"),
			goqu.I("q.valid_till"),
			goqu.I("q.is_accepted"),
			goqu.I("q.created_at"),
			goqu.I("q.updated_at"),
		).
		Order(goqu.I("q.created_at").Desc())
	if filter.CustomerID != "" {
		ds = ds.Where(goqu.I("r.customer_id").Eq(filter.CustomerID))
	}
	if filter.ProviderID != "" {
		ds = ds.Where(goqu.I("p.provider_id").Eq(filter.ProviderID))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build quotation query: %w", err)
	}

	logger.DatabaseCall("SELECT", "quotations", "customerID", filter.CustomerID, "providerID", filter.ProviderID)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var quotations []domain.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		quotations = append(quotations, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(quotations)), nil)
	return quotations, nil
}
