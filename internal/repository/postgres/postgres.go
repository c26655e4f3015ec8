package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db    *sql.DB
	repos repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		repos: newRepositories(db),
	}
}

func newRepositories(q DBTX) repository.Repositories {
	return repository.Repositories{
		Products:      NewProductRepository(q),
		Slots:         NewSlotRepository(q),
		Rentals:       NewRentalRepository(q),
		History:       NewHistoryRepository(q),
		Quotations:    NewQuotationRepository(q),
		Returns:       NewReturnRepository(q),
		Notifications: NewNotificationRepository(q),
		Users:         NewUserRepository(q),
	}
}

// Repos returns repositories that run each statement in its own implicit transaction.
func (s *Store) Repos() repository.Repositories {
	return s.repos
}

// WithinTx runs fn against repositories bound to a single database transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		logger.Error("Transaction commit failed", "error", err)
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Open connects with the given database/sql driver ("postgres" for lib/pq,
// "pgx" for the pgx stdlib adapter) and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
