package settlement

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/ledger"
	"github.com/43bits/mess-calender-gec/internal/meal"
)

func entry(key string, m meal.Meal, d meal.Diet, amount int64) *ledger.Entry {
	k, _ := meal.ParseKey(key)
	return &ledger.Entry{
		OwnerID: "r1",
		Key:     key,
		Meal:    m,
		Diet:    d,
		Year:    k.Date.Year,
		Month:   k.Date.Month,
		Day:     k.Date.Day,
		Amount:  decimal.NewNullDecimal(decimal.NewFromInt(amount)),
	}
}

func sample() []*ledger.Entry {
	return []*ledger.Entry{
		entry("2025-03-10-breakfast", meal.Breakfast, meal.Veg, 50),
		entry("2025-03-10-lunch", meal.Lunch, meal.NonVeg, 80),
		entry("2025-03-11-dinner", meal.Dinner, meal.Veg, 70),
		entry("2025-05-02-lunch", meal.Lunch, meal.Veg, 70),
		entry("2025-08-01-dinner", meal.Dinner, meal.NonVeg, 80),
		entry("2024-12-31-lunch", meal.Lunch, meal.Veg, 70),
	}
}

func TestRollupForOwner_MonthlyTotalsSumToTotal(t *testing.T) {
	r := RollupForOwner(sample())

	sum := decimal.Zero
	for _, v := range r.MonthlyTotals {
		sum = sum.Add(v)
	}
	if !sum.Equal(r.TotalAmount) {
		t.Fatalf("monthly totals %s do not match total %s", sum, r.TotalAmount)
	}
	if !r.TotalAmount.Equal(decimal.NewFromInt(420)) {
		t.Fatalf("expected total 420, got %s", r.TotalAmount)
	}
	if !r.MonthlyTotals["2025-03"].Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected march 200, got %s", r.MonthlyTotals["2025-03"])
	}
	if r.Selections["2025-03-10-lunch"] != meal.NonVeg {
		t.Fatalf("unexpected selection %q", r.Selections["2025-03-10-lunch"])
	}
}

func TestRollupForOwner_MissingAmountCountsAsZero(t *testing.T) {
	legacy := entry("2025-03-12-lunch", meal.Lunch, meal.Veg, 0)
	legacy.Amount = decimal.NullDecimal{}

	r := RollupForOwner([]*ledger.Entry{legacy, entry("2025-03-13-lunch", meal.Lunch, meal.Veg, 70)})
	if !r.TotalAmount.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected total 70, got %s", r.TotalAmount)
	}
	if len(r.Selections) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(r.Selections))
	}
}

func TestRollupForOwner_Empty(t *testing.T) {
	r := RollupForOwner(nil)
	if !r.TotalAmount.IsZero() || len(r.MonthlyTotals) != 0 {
		t.Fatalf("expected empty rollup, got %+v", r)
	}
}

func TestRollupForOwnerWindow_Buckets(t *testing.T) {
	w := RollupForOwnerWindow(sample(), 2025, 3)

	if w.Current.Meals() != 3 || !w.Current.Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("month bucket: %+v", w.Current)
	}
	if w.Current.BreakfastCount != 1 || w.Current.NonVegLunchCount != 1 || w.Current.VegDinnerCount != 1 {
		t.Fatalf("month counts: %+v", w.Current)
	}
	if w.HalfYear.Meals() != 4 || !w.HalfYear.Amount.Equal(decimal.NewFromInt(270)) {
		t.Fatalf("half-year bucket: %+v", w.HalfYear)
	}
	if w.Overall.Meals() != 6 || !w.Overall.Amount.Equal(decimal.NewFromInt(420)) {
		t.Fatalf("overall bucket: %+v", w.Overall)
	}

	second := RollupForOwnerWindow(sample(), 2025, 9)
	if second.HalfYear.Meals() != 1 || second.HalfYear.NonVegDinnerCount != 1 {
		t.Fatalf("second half bucket: %+v", second.HalfYear)
	}
	if second.Current.Meals() != 0 || !second.Current.Amount.IsZero() {
		t.Fatalf("expected empty september, got %+v", second.Current)
	}
}

func TestRollupForOwnerWindow_SkipsMalformedRows(t *testing.T) {
	entries := append(sample(), entry("2025-03-10-lunch", meal.Meal("brunch"), meal.Veg, 999))
	w := RollupForOwnerWindow(entries, 2025, 3)
	if !w.Overall.Amount.Equal(decimal.NewFromInt(420)) {
		t.Fatalf("expected malformed row excluded, got %s", w.Overall.Amount)
	}
}
