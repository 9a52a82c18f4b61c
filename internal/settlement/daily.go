package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/ledger"
	"github.com/43bits/mess-calender-gec/internal/meal"
)

type Cell struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Daily is the admin dashboard for one day plus the running month,
// half-year and year amounts.
type Daily struct {
	Date           string                           `json:"date"`
	MealCounts     map[meal.Meal]int                `json:"mealCounts"`
	TypeStats      map[meal.Meal]map[meal.Diet]Cell `json:"typeStats"`
	TodayAmount    decimal.Decimal                  `json:"todayAmount"`
	MonthAmount    decimal.Decimal                  `json:"monthAmount"`
	HalfYearAmount decimal.Decimal                  `json:"halfYearAmount"`
	YearAmount     decimal.Decimal                  `json:"yearAmount"`
}

func emptyDaily(date meal.Date) Daily {
	d := Daily{
		Date:           date.String(),
		MealCounts:     make(map[meal.Meal]int, len(meal.Meals)),
		TypeStats:      make(map[meal.Meal]map[meal.Diet]Cell, len(meal.Meals)),
		TodayAmount:    decimal.Zero,
		MonthAmount:    decimal.Zero,
		HalfYearAmount: decimal.Zero,
		YearAmount:     decimal.Zero,
	}
	for _, m := range meal.Meals {
		d.MealCounts[m] = 0
		d.TypeStats[m] = make(map[meal.Diet]Cell, len(meal.Diets))
		for _, t := range meal.Diets {
			d.TypeStats[m][t] = Cell{Amount: decimal.Zero}
		}
	}
	return d
}

// DailyStats computes the dashboard from entries covering at least the
// reference date's year. Rows with a meal or type outside the closed sets
// stay out of the day's counts and todayAmount but still count toward the
// period totals, so yearAmount agrees with the residents' rollups.
func DailyStats(entries []*ledger.Entry, date meal.Date) Daily {
	d := emptyDaily(date)

	for _, e := range entries {
		ed := e.Date()
		if ed.Year != date.Year {
			continue
		}
		amount := e.AmountOrZero()

		d.YearAmount = d.YearAmount.Add(amount)
		if !meal.SameHalf(date.Month, ed.Month) {
			continue
		}
		d.HalfYearAmount = d.HalfYearAmount.Add(amount)
		if ed.Month != date.Month {
			continue
		}
		d.MonthAmount = d.MonthAmount.Add(amount)
		if ed.Day != date.Day || !e.Meal.Valid() || !e.Diet.Valid() {
			continue
		}

		cell := d.TypeStats[e.Meal][e.Diet]
		cell.Count++
		cell.Amount = cell.Amount.Add(amount)
		d.TypeStats[e.Meal][e.Diet] = cell
		d.MealCounts[e.Meal]++
		d.TodayAmount = d.TodayAmount.Add(amount)
	}
	return d
}
