package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"sewasaathi-backend/internal/domain"
)

const (
	uniqueViolation = "23505"

	constraintActiveSlot = "idx_rentals_active_slot"
)

// lookupErr converts sql.ErrNoRows into a NotFound domain error and wraps
// anything else.
func lookupErr(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewError(domain.KindNotFound, "%s %s not found", entity, id)
	}
	return fmt.Errorf("get %s %s: %w", entity, id, err)
}

// isUniqueViolation recognises unique violations from either driver. An empty
// constraint matches any unique index.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	return false
}

type scanner interface {
	Scan(dest ...any) error
}
