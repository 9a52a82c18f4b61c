package settlement

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/ledger"
	"github.com/43bits/mess-calender-gec/internal/meal"
)

func TestDailyStats_ZeroFilled(t *testing.T) {
	d := DailyStats(nil, meal.Date{Year: 2025, Month: 3, Day: 10})

	for _, m := range meal.Meals {
		if _, ok := d.MealCounts[m]; !ok {
			t.Errorf("missing meal count for %s", m)
		}
		for _, diet := range meal.Diets {
			cell, ok := d.TypeStats[m][diet]
			if !ok {
				t.Errorf("missing cell %s/%s", m, diet)
			}
			if cell.Count != 0 || !cell.Amount.IsZero() {
				t.Errorf("expected empty cell %s/%s, got %+v", m, diet, cell)
			}
		}
	}
}

func TestDailyStats_Amounts(t *testing.T) {
	entries := append(sample(),
		entry("2025-03-10-lunch", meal.Lunch, meal.Veg, 70),
		entry("2025-03-10-dinner", meal.Dinner, meal.Veg, 70),
	)
	d := DailyStats(entries, meal.Date{Year: 2025, Month: 3, Day: 10})

	if d.MealCounts[meal.Lunch] != 2 || d.MealCounts[meal.Breakfast] != 1 || d.MealCounts[meal.Dinner] != 1 {
		t.Fatalf("unexpected meal counts %+v", d.MealCounts)
	}
	if c := d.TypeStats[meal.Lunch][meal.NonVeg]; c.Count != 1 || !c.Amount.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("unexpected lunch non-veg cell %+v", c)
	}

	checks := map[string][2]decimal.Decimal{
		"today":    {d.TodayAmount, decimal.NewFromInt(270)},
		"month":    {d.MonthAmount, decimal.NewFromInt(340)},
		"halfYear": {d.HalfYearAmount, decimal.NewFromInt(410)},
		"year":     {d.YearAmount, decimal.NewFromInt(490)},
	}
	for name, c := range checks {
		if !c[0].Equal(c[1]) {
			t.Errorf("%s: expected %s, got %s", name, c[1], c[0])
		}
	}
}

func TestDailyStats_MalformedRowsOnlyLeaveDayCounts(t *testing.T) {
	entries := []*ledger.Entry{
		entry("2025-03-10-lunch", meal.Lunch, meal.Veg, 70),
		entry("2025-03-10-lunch", meal.Meal("brunch"), meal.Veg, 60),
		entry("2025-03-10-dinner", meal.Dinner, meal.Diet("vegan"), 60),
	}

	d := DailyStats(entries, meal.Date{Year: 2025, Month: 3, Day: 10})

	if !d.TodayAmount.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected today 70, got %s", d.TodayAmount)
	}
	for name, got := range map[string]decimal.Decimal{
		"month":    d.MonthAmount,
		"halfYear": d.HalfYearAmount,
		"year":     d.YearAmount,
	} {
		if !got.Equal(decimal.NewFromInt(190)) {
			t.Errorf("%s: expected 190, got %s", name, got)
		}
	}
	if d.MealCounts[meal.Lunch] != 1 || d.MealCounts[meal.Dinner] != 0 {
		t.Fatalf("unexpected meal counts %+v", d.MealCounts)
	}
	if _, ok := d.TypeStats[meal.Meal("brunch")]; ok {
		t.Fatal("malformed meal leaked into type stats")
	}
}

func TestDailyStats_YearMatchesRollupTotal(t *testing.T) {
	entries := []*ledger.Entry{
		entry("2025-03-10-lunch", meal.Lunch, meal.Veg, 70),
		entry("2025-03-11-lunch", meal.Meal("brunch"), meal.Veg, 60),
	}

	d := DailyStats(entries, meal.Date{Year: 2025, Month: 3, Day: 10})
	r := RollupForOwner(entries)

	if !d.YearAmount.Equal(r.TotalAmount) {
		t.Fatalf("expected year %s to match rollup %s", d.YearAmount, r.TotalAmount)
	}
	if !d.MonthAmount.Equal(decimal.NewFromInt(130)) {
		t.Fatalf("expected month 130, got %s", d.MonthAmount)
	}
}
