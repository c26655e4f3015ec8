package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         string          `json:"id"`
	ProviderID string          `json:"provider_id"`
	Name       string          `json:"name"`
	BasePrice  decimal.Decimal `json:"base_price"`
	UnitType   string          `json:"unit_type"`
	IsRentable bool            `json:"is_rentable"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AvailabilitySlot is a bounded window during which one unit of a product can be reserved.
type AvailabilitySlot struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsBooked  bool      `json:"is_booked"`
	CreatedAt time.Time `json:"created_at"`
}

// Contains reports whether [start, end] lies within the slot window.
func (s *AvailabilitySlot) Contains(start, end time.Time) bool {
	return !start.Before(s.StartDate) && !end.After(s.EndDate)
}
