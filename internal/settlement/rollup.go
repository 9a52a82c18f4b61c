package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/ledger"
	"github.com/43bits/mess-calender-gec/internal/meal"
)

// Rollup is a resident's ledger folded into per-key choices and totals.
type Rollup struct {
	Selections    map[string]meal.Diet       `json:"selections"`
	MonthlyTotals map[string]decimal.Decimal `json:"monthlyTotals"`
	TotalAmount   decimal.Decimal            `json:"totalAmount"`
}

// RollupForOwner folds entries already restricted to one owner. Entries
// without an amount contribute zero.
func RollupForOwner(entries []*ledger.Entry) Rollup {
	r := Rollup{
		Selections:    make(map[string]meal.Diet, len(entries)),
		MonthlyTotals: make(map[string]decimal.Decimal),
		TotalAmount:   decimal.Zero,
	}

	for _, e := range entries {
		r.Selections[e.Key] = e.Diet

		amount := e.AmountOrZero()
		d := e.Date()
		month := meal.MonthKey(d.Year, d.Month)
		r.MonthlyTotals[month] = r.MonthlyTotals[month].Add(amount)
		r.TotalAmount = r.TotalAmount.Add(amount)
	}
	return r
}

// Bucket counts meals per (meal, type) and sums their amounts. Breakfast
// has no type split.
type Bucket struct {
	Amount            decimal.Decimal `json:"totalAmount"`
	BreakfastCount    int             `json:"breakfastCount"`
	VegLunchCount     int             `json:"vegLunchCount"`
	NonVegLunchCount  int             `json:"nonVegLunchCount"`
	VegDinnerCount    int             `json:"vegDinnerCount"`
	NonVegDinnerCount int             `json:"nonVegDinnerCount"`
}

// add reports false for rows whose meal or type is outside the closed sets.
func (b *Bucket) add(e *ledger.Entry) bool {
	if !e.Diet.Valid() {
		return false
	}
	switch e.Meal {
	case meal.Breakfast:
		b.BreakfastCount++
	case meal.Lunch:
		if e.Diet == meal.Veg {
			b.VegLunchCount++
		} else {
			b.NonVegLunchCount++
		}
	case meal.Dinner:
		if e.Diet == meal.Veg {
			b.VegDinnerCount++
		} else {
			b.NonVegDinnerCount++
		}
	default:
		return false
	}
	b.Amount = b.Amount.Add(e.AmountOrZero())
	return true
}

func (b Bucket) Meals() int {
	return b.BreakfastCount + b.VegLunchCount + b.NonVegLunchCount + b.VegDinnerCount + b.NonVegDinnerCount
}

// Window is the calendar view anchored at one month.
type Window struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Current  Bucket `json:"currentMonth"`
	HalfYear Bucket `json:"halfYear"`
	Overall  Bucket `json:"overall"`
}

// RollupForOwnerWindow buckets one owner's entries by the exact month, the
// half of that year containing it, and everything.
func RollupForOwnerWindow(entries []*ledger.Entry, year, month int) Window {
	w := Window{Year: year, Month: month}
	w.Current.Amount = decimal.Zero
	w.HalfYear.Amount = decimal.Zero
	w.Overall.Amount = decimal.Zero

	for _, e := range entries {
		if !w.Overall.add(e) {
			continue
		}
		d := e.Date()
		if d.Year != year {
			continue
		}
		if meal.SameHalf(month, d.Month) {
			w.HalfYear.add(e)
		}
		if d.Month == month {
			w.Current.add(e)
		}
	}
	return w
}
