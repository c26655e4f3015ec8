package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/repository"
)

type historyRepository struct {
	db DBTX
}

func NewHistoryRepository(db DBTX) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, e *domain.RentalHistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ChangedAt.IsZero() {
		e.ChangedAt = time.Now().UTC()
	}
	var oldStatus sql.NullString
	if e.OldStatus != nil {
		oldStatus = sql.NullString{String: string(*e.OldStatus), Valid: true}
	}
	query := `INSERT INTO rental_histories (id, rental_id, old_status, new_status, changed_by_id, changed_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.RentalID, oldStatus, e.NewStatus, e.ChangedByID, e.ChangedAt)
	return err
}

func (r *historyRepository) ListByRental(ctx context.Context, rentalID string) ([]domain.RentalHistoryEntry, error) {
	query := `SELECT id, rental_id, old_status, new_status, changed_by_id, changed_at
	          FROM rental_histories WHERE rental_id = $1 ORDER BY seq ASC`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.RentalHistoryEntry
	for rows.Next() {
		var e domain.RentalHistoryEntry
		var oldStatus sql.NullString
		if err := rows.Scan(&e.ID, &e.RentalID, &oldStatus, &e.NewStatus, &e.ChangedByID, &e.ChangedAt); err != nil {
			return nil, err
		}
		if oldStatus.Valid {
			st := domain.RentalStatus(oldStatus.String)
			e.OldStatus = &st
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
