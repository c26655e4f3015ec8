package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"sewasaathi-backend/internal/logger"
)

// schema is applied in order by Migrate. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		role       TEXT NOT NULL CHECK (role IN ('CUSTOMER', 'PROVIDER', 'ADMIN')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          UUID PRIMARY KEY,
		provider_id UUID NOT NULL,
		name        TEXT NOT NULL,
		base_price  NUMERIC(12, 2) NOT NULL CHECK (base_price >= 0),
		unit_type   TEXT NOT NULL,
		is_rentable BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS availability_slots (
		id         UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		start_date TIMESTAMPTZ NOT NULL,
		end_date   TIMESTAMPTZ NOT NULL,
		is_booked  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (start_date < end_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_slots_product_start ON availability_slots (product_id, start_date)`,
	`CREATE TABLE IF NOT EXISTS rentals (
		id              UUID PRIMARY KEY,
		customer_id     UUID NOT NULL,
		product_id      UUID NOT NULL REFERENCES products (id),
		availability_id UUID REFERENCES availability_slots (id),
		start_date      TIMESTAMPTZ NOT NULL,
		end_date        TIMESTAMPTZ NOT NULL,
		price           NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
		status          TEXT NOT NULL CHECK (status IN ('QUOTATION', 'CONFIRMED', 'ACTIVE', 'COMPLETED', 'CANCELLED')),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// At most one non-terminal rental may hold a slot.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_rentals_active_slot ON rentals (availability_id)
		WHERE availability_id IS NOT NULL AND status NOT IN ('COMPLETED', 'CANCELLED')`,
	`CREATE INDEX IF NOT EXISTS idx_rentals_customer ON rentals (customer_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_rentals_overdue ON rentals (end_date) WHERE status <> 'COMPLETED'`,
	`CREATE TABLE IF NOT EXISTS rental_histories (
		seq           BIGSERIAL PRIMARY KEY,
		id            UUID NOT NULL UNIQUE,
		rental_id     UUID NOT NULL REFERENCES rentals (id),
		old_status    TEXT,
		new_status    TEXT NOT NULL,
		changed_by_id UUID NOT NULL,
		changed_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rental_histories_rental ON rental_histories (rental_id, seq)`,
	`CREATE OR REPLACE FUNCTION rental_histories_append_only() RETURNS trigger AS $$
	BEGIN
		RAISE EXCEPTION 'rental_histories is append-only';
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS trg_rental_histories_append_only ON rental_histories`,
	`CREATE TRIGGER trg_rental_histories_append_only
		BEFORE UPDATE OR DELETE ON rental_histories
		FOR EACH ROW EXECUTE FUNCTION rental_histories_append_only()`,
	`CREATE TABLE IF NOT EXISTS quotations (
		id          UUID PRIMARY KEY,
		rental_id   UUID NOT NULL UNIQUE REFERENCES rentals (id),
		price       NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
		valid_till  TIMESTAMPTZ,
		is_accepted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS rental_returns (
		id        UUID PRIMARY KEY,
		rental_id UUID NOT NULL UNIQUE REFERENCES rentals (id),
		scheduled TIMESTAMPTZ NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		late_fee  NUMERIC(12, 2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id        UUID PRIMARY KEY,
		type      TEXT NOT NULL,
		message   TEXT NOT NULL,
		user_id   UUID NOT NULL,
		send_date TIMESTAMPTZ NOT NULL,
		is_read   BOOLEAN NOT NULL DEFAULT FALSE,
		dedup_key TEXT UNIQUE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, send_date DESC)`,
}

// Migrate creates the tables, indexes and triggers the repositories rely on.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	logger.Info("Database schema is up to date", "statements", len(schema))
	return nil
}
