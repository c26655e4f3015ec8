package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
)

type returnRepository struct {
	db DBTX
}

func NewReturnRepository(db DBTX) repository.ReturnRepository {
	return &returnRepository{db: db}
}

// UpsertLateFee keeps one row per rental; reruns only overwrite late_fee.
func (r *returnRepository) UpsertLateFee(ctx context.Context, rentalID string, scheduled time.Time, lateFee decimal.Decimal) error {
	query := `INSERT INTO rental_returns (id, rental_id, scheduled, completed, late_fee)
	          VALUES ($1, $2, $3, FALSE, $4)
	          ON CONFLICT (rental_id) DO UPDATE SET late_fee = EXCLUDED.late_fee`
	logger.DatabaseCall("UPSERT", "rental_returns", "rentalID", rentalID, "lateFee", lateFee.String())
	result, err := r.db.ExecContext(ctx, query, uuid.NewString(), rentalID, scheduled, lateFee)
	if err != nil {
		logger.DatabaseResult("UPSERT", 0, err, "rentalID", rentalID)
		return err
	}
	n, _ := result.RowsAffected()
	logger.DatabaseResult("UPSERT", n, nil, "rentalID", rentalID)
	return nil
}

func (r *returnRepository) GetByRentalID(ctx context.Context, rentalID string) (*domain.RentalReturn, error) {
	rr := &domain.RentalReturn{}
	query := `SELECT id, rental_id, scheduled, completed, late_fee FROM rental_returns WHERE rental_id = $1`
	err := r.db.QueryRowContext(ctx, query, rentalID).Scan(&rr.ID, &rr.RentalID, &rr.Scheduled, &rr.Completed, &rr.LateFee)
	if err != nil {
		return nil, lookupErr(err, "return for rental", rentalID)
	}
	return rr, nil
}
