package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DefaultLateFeeRate is the share of a product's base price charged per late day.
var DefaultLateFeeRate = decimal.RequireFromString("0.1")

// ParseDate accepts either a yyyy-mm-dd calendar date (midnight UTC) or an
// RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd or RFC 3339", s)
	}
	return t, nil
}

// FormatDate renders t as a UTC calendar date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// DaysLate counts started 24h periods between end and now. It is 0 when now
// is not after end.
func DaysLate(end, now time.Time) int {
	if !now.After(end) {
		return 0
	}
	return int(math.Ceil(now.Sub(end).Hours() / 24))
}

// LateFee is basePrice * rate * daysLate rounded to cents.
func LateFee(basePrice, rate decimal.Decimal, daysLate int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	return basePrice.Mul(rate).Mul(decimal.NewFromInt(int64(daysLate))).Round(2)
}
