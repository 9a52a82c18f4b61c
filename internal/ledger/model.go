package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/meal"
)

// Entry is the fact "resident OwnerID chose Diet for Meal on the date".
// At most one entry exists per (OwnerID, Key); unmarking deletes the entry.
type Entry struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"owner"`
	Key     string    `json:"key"`
	Meal    meal.Meal `json:"meal"`
	Diet    meal.Diet `json:"type"`
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	Day     int       `json:"day"`

	// Amount is captured from the price table at write time. Rows written
	// before amounts were recorded may carry no value.
	Amount decimal.NullDecimal `json:"amount"`

	// Version starts at 1 and is bumped by every patch.
	Version int `json:"version"`

	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy"`
	UpdatedAt       time.Time `json:"updatedAt"`
	UpdatedBy       string    `json:"updatedBy"`
	CreatedByAdmin  bool      `json:"createdByAdmin"`
	ModifiedByAdmin bool      `json:"modifiedByAdmin"`
}

// AmountOrZero treats a missing amount as zero.
func (e *Entry) AmountOrZero() decimal.Decimal {
	if e == nil || !e.Amount.Valid {
		return decimal.Zero
	}
	return e.Amount.Decimal
}

// Date returns the calendar day, falling back to the key for legacy rows
// that lack the split date columns.
func (e *Entry) Date() meal.Date {
	if e.Year != 0 {
		return meal.Date{Year: e.Year, Month: e.Month, Day: e.Day}
	}
	if k, err := meal.ParseKey(e.Key); err == nil {
		return k.Date
	}
	return meal.Date{}
}

// DateQuery selects entries by calendar granularity. Year is required;
// Month and Day narrow the range when non-zero.
type DateQuery struct {
	Year  int
	Month int
	Day   int
}

func (q DateQuery) Matches(e *Entry) bool {
	d := e.Date()
	if d.Year != q.Year {
		return false
	}
	if q.Month != 0 && d.Month != q.Month {
		return false
	}
	if q.Day != 0 && d.Day != q.Day {
		return false
	}
	return true
}
