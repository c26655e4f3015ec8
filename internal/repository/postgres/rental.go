package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
)

var dialect = goqu.Dialect("postgres")

var rentalColumns = []any{"id", "customer_id", "product_id", "availability_id", "start_date", "end_date", "price", "status", "created_at", "updated_at"}

const rentalSelect = `SELECT id, customer_id, product_id, availability_id, start_date, end_date, price, status, created_at, updated_at FROM rentals`

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(row scanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var slotID sql.NullString
	if err := row.Scan(&rt.ID, &rt.CustomerID, &rt.ProductID, &slotID, &rt.StartDate, &rt.EndDate, &rt.Price, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return nil, err
	}
	if slotID.Valid {
		rt.SlotID = &slotID.String
	}
	return rt, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = now
	}
	rt.UpdatedAt = rt.CreatedAt

	query := `INSERT INTO rentals (id, customer_id, product_id, availability_id, start_date, end_date, price, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query, rt.ID, rt.CustomerID, rt.ProductID, nullString(rt.SlotID), rt.StartDate, rt.EndDate, rt.Price, rt.Status, rt.CreatedAt, rt.UpdatedAt)
	if isUniqueViolation(err, constraintActiveSlot) {
		return domain.NewError(domain.KindSlotUnavailable, "slot %s is held by another rental", *rt.SlotID)
	}
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	rt, err := scanRental(r.db.QueryRowContext(ctx, rentalSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, lookupErr(err, "rental", id)
	}
	return rt, nil
}

func (r *rentalRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Rental, error) {
	rt, err := scanRental(r.db.QueryRowContext(ctx, rentalSelect+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, lookupErr(err, "rental", id)
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	logger.EnterMethod("rentalRepository.Update", "rentalID", rt.ID, "status", rt.Status)

	rt.UpdatedAt = time.Now().UTC()
	query := `UPDATE rentals SET availability_id = $1, price = $2, status = $3, updated_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, nullString(rt.SlotID), rt.Price, rt.Status, rt.UpdatedAt, rt.ID)
	if err != nil {
		logger.ExitMethodWithError("rentalRepository.Update", err, "rentalID", rt.ID)
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewError(domain.KindNotFound, "rental %s not found", rt.ID)
	}

	logger.ExitMethod("rentalRepository.Update", "rentalID", rt.ID)
	return nil
}

func (r *rentalRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Rental, error) {
	ds := dialect.From("rentals").
		Select(rentalColumns...).
		Where(goqu.C("customer_id").Eq(customerID)).
		Order(goqu.C("created_at").Desc())
	return r.list(ctx, ds)
}

func (r *rentalRepository) List(ctx context.Context) ([]domain.Rental, error) {
	ds := dialect.From("rentals").
		Select(rentalColumns...).
		Order(goqu.C("created_at").Desc())
	return r.list(ctx, ds)
}

func (r *rentalRepository) list(ctx context.Context, ds *goqu.SelectDataset) ([]domain.Rental, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build rental query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.OverdueRental, error) {
	query, args, err := dialect.From(goqu.T("rentals").As("r")).
		Join(goqu.T("products").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("r.product_id")))).
		Select(
			goqu.I("r.id"),
			goqu.I("r.customer_id"),
			goqu.I("r.product_id"),
			goqu.I("p.name"),
			goqu.I("p.base_price"),
			goqu.I("r.end_date"),
			goqu.I("r.status"),
		).
		Where(
			goqu.I("r.end_date").Lt(now),
			goqu.I("r.status").Neq(string(domain.RentalStatusCompleted)),
		).
		Order(goqu.I("r.end_date").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build overdue query: %w", err)
	}

	logger.DatabaseCall("SELECT", "rentals overdue", "now", now)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var overdue []domain.OverdueRental
	for rows.Next() {
		var o domain.OverdueRental
		if err := rows.Scan(&o.RentalID, &o.CustomerID, &o.ProductID, &o.ProductName, &o.BasePrice, &o.EndDate, &o.Status); err != nil {
			return nil, err
		}
		overdue = append(overdue, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(overdue)), nil)
	return overdue, nil
}
