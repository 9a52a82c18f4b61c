package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/meal"
)

// Table is the single current snapshot of unit prices. Breakfast has no
// dietary split.
type Table struct {
	Breakfast    decimal.Decimal `json:"breakfast"`
	LunchVeg     decimal.Decimal `json:"lunchVeg"`
	LunchNonVeg  decimal.Decimal `json:"lunchNonVeg"`
	DinnerVeg    decimal.Decimal `json:"dinnerVeg"`
	DinnerNonVeg decimal.Decimal `json:"dinnerNonVeg"`

	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
}

// Default is served until an admin stores a table for the first time.
func Default() Table {
	return Table{
		Breakfast:    decimal.NewFromInt(50),
		LunchVeg:     decimal.NewFromInt(70),
		LunchNonVeg:  decimal.NewFromInt(80),
		DinnerVeg:    decimal.NewFromInt(70),
		DinnerNonVeg: decimal.NewFromInt(80),
	}
}

// PriceFor returns the unit price of a meal for the given diet.
func (t Table) PriceFor(m meal.Meal, d meal.Diet) decimal.Decimal {
	switch m {
	case meal.Breakfast:
		return t.Breakfast
	case meal.Lunch:
		if d == meal.NonVeg {
			return t.LunchNonVeg
		}
		return t.LunchVeg
	case meal.Dinner:
		if d == meal.NonVeg {
			return t.DinnerNonVeg
		}
		return t.DinnerVeg
	}
	return decimal.Zero
}
