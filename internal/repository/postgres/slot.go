package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
)

type slotRepository struct {
	db DBTX
}

func NewSlotRepository(db DBTX) repository.SlotRepository {
	return &slotRepository{db: db}
}

const slotColumns = `id, product_id, start_date, end_date, is_booked, created_at`

func scanSlot(row scanner) (*domain.AvailabilitySlot, error) {
	s := &domain.AvailabilitySlot{}
	if err := row.Scan(&s.ID, &s.ProductID, &s.StartDate, &s.EndDate, &s.IsBooked, &s.CreatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *slotRepository) Create(ctx context.Context, s *domain.AvailabilitySlot) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO availability_slots (` + slotColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.ProductID, s.StartDate, s.EndDate, s.IsBooked, s.CreatedAt)
	return err
}

func (r *slotRepository) GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1`
	s, err := scanSlot(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, lookupErr(err, "availability slot", id)
	}
	return s, nil
}

func (r *slotRepository) ListByProduct(ctx context.Context, productID string) ([]domain.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE product_id = $1 ORDER BY start_date ASC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.AvailabilitySlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	return slots, rows.Err()
}

// MarkBooked is a compare-and-set on is_booked. Concurrent callers on the same
// row queue behind the first writer's row lock and then see is_booked = TRUE.
func (r *slotRepository) MarkBooked(ctx context.Context, productID, slotID string) (bool, error) {
	query := `UPDATE availability_slots SET is_booked = TRUE WHERE id = $1 AND product_id = $2 AND is_booked = FALSE`
	logger.DatabaseCall("UPDATE", "availability_slots", "slotID", slotID, "productID", productID)

	result, err := r.db.ExecContext(ctx, query, slotID, productID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "slotID", slotID)
		return false, err
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "slotID", slotID)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *slotRepository) Release(ctx context.Context, slotID string) error {
	query := `UPDATE availability_slots SET is_booked = FALSE WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, slotID)
	return err
}
