package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusQuotation RentalStatus = "QUOTATION"
	RentalStatusConfirmed RentalStatus = "CONFIRMED"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// allowedTransitions is the complete lifecycle graph. A status with no entry
// (or an empty one) is terminal.
var allowedTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusQuotation: {RentalStatusConfirmed, RentalStatusCancelled},
	RentalStatusConfirmed: {RentalStatusActive, RentalStatusCancelled},
	RentalStatusActive:    {RentalStatusCompleted, RentalStatusCancelled},
	RentalStatusCompleted: nil,
	RentalStatusCancelled: nil,
}

// adminTransitions are extra edges open only to administrators: closing out a
// confirmed rental whose handover was never recorded.
var adminTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusConfirmed: {RentalStatusCompleted},
}

// ParseRentalStatus converts the wire representation into a RentalStatus.
func ParseRentalStatus(s string) (RentalStatus, error) {
	st := RentalStatus(s)
	if _, ok := allowedTransitions[st]; !ok {
		return "", NewError(KindValidation, "unknown rental status %q", s)
	}
	return st, nil
}

// IsTerminal reports whether no further transitions are possible from s.
func (s RentalStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is an edge of the lifecycle graph.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, to := range allowedTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// TransitionAllowed reports whether an actor with role may move a rental from
// s to next.
func (s RentalStatus) TransitionAllowed(next RentalStatus, role Role) bool {
	if s.CanTransitionTo(next) {
		return true
	}
	if role != RoleAdmin {
		return false
	}
	for _, to := range adminTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// ReleasesSlot reports whether entering s frees the bound availability slot.
func (s RentalStatus) ReleasesSlot() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

// Billable reports whether entering s makes the rental visible to invoicing.
func (s RentalStatus) Billable() bool {
	return s == RentalStatusConfirmed || s == RentalStatusCompleted
}

type Rental struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	ProductID  string          `json:"product_id"`
	SlotID     *string         `json:"availability_id,omitempty"` // nil once terminal
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Price      decimal.Decimal `json:"price"`
	Status     RentalStatus    `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// RentalHistoryEntry records one status change. Entries are never updated or deleted.
type RentalHistoryEntry struct {
	ID          string        `json:"id"`
	RentalID    string        `json:"rental_id"`
	OldStatus   *RentalStatus `json:"old_status"`
	NewStatus   RentalStatus  `json:"new_status"`
	ChangedByID string        `json:"changed_by_id"`
	ChangedAt   time.Time     `json:"changed_at"`
}

// OverdueRental is a rental past its end date joined with the product fields
// the automation jobs need.
type OverdueRental struct {
	RentalID    string
	CustomerID  string
	ProductID   string
	ProductName string
	BasePrice   decimal.Decimal
	EndDate     time.Time
	Status      RentalStatus
}
