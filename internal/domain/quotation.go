package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Quotation struct {
	ID         string          `json:"id"`
	RentalID   string          `json:"rental_id"`
	Price      decimal.Decimal `json:"price"`
	ValidTill  *time.Time      `json:"valid_till,omitempty"`
	IsAccepted bool            `json:"is_accepted"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Expired reports whether the quotation's validity deadline has passed at now.
func (q *Quotation) Expired(now time.Time) bool {
	return q.ValidTill != nil && now.After(*q.ValidTill)
}

// RentalReturn tracks the return of a rental and its accrued late fee.
// There is at most one per rental.
type RentalReturn struct {
	ID        string          `json:"id"`
	RentalID  string          `json:"rental_id"`
	Scheduled time.Time       `json:"scheduled"`
	Completed bool            `json:"completed"`
	LateFee   decimal.Decimal `json:"late_fee"`
}
