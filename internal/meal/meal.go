package meal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/43bits/mess-calender-gec/internal/core"
)

// Meal is one of the three daily sittings.
type Meal string

const (
	Breakfast Meal = "breakfast"
	Lunch     Meal = "lunch"
	Dinner    Meal = "dinner"
)

// Meals lists every sitting in serving order.
var Meals = []Meal{Breakfast, Lunch, Dinner}

func (m Meal) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner:
		return true
	}
	return false
}

func ParseMeal(s string) (Meal, error) {
	m := Meal(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown meal %q: %w", s, core.ErrInvalidArgument)
	}
	return m, nil
}

// Diet is the dietary type chosen for a meal.
type Diet string

const (
	Veg    Diet = "veg"
	NonVeg Diet = "non-veg"
)

var Diets = []Diet{Veg, NonVeg}

func (d Diet) Valid() bool {
	return d == Veg || d == NonVeg
}

func ParseDiet(s string) (Diet, error) {
	d := Diet(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown meal type %q: %w", s, core.ErrInvalidArgument)
	}
	return d, nil
}

// Date is a calendar day kept as separate integers so stores can range-scan
// by year, month or day without parsing strings.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func NewDate(year, month, day int) (Date, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if year < 1 || t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, fmt.Errorf("invalid date %d-%d-%d: %w", year, month, day, core.ErrInvalidArgument)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseDate accepts YYYY-MM-DD (zero padding optional).
func ParseDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", s, core.ErrInvalidArgument)
	}
	nums, err := atois(parts)
	if err != nil {
		return Date{}, fmt.Errorf("date %q: %w", s, core.ErrInvalidArgument)
	}
	return NewDate(nums[0], nums[1], nums[2])
}

func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MonthKey is the bucket label used by monthly totals.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// HalfYear returns the inclusive month range (1-6 or 7-12) containing month.
func HalfYear(month int) (first, last int) {
	if month <= 6 {
		return 1, 6
	}
	return 7, 12
}

// SameHalf reports whether two months fall in the same half of a year.
func SameHalf(ref, month int) bool {
	first, last := HalfYear(ref)
	return month >= first && month <= last
}

// Key identifies one meal on one day. Together with the owner it is the
// identity of a ledger entry, so existence checks are point lookups.
type Key struct {
	Date Date
	Meal Meal
}

func NewKey(d Date, m Meal) Key {
	return Key{Date: d, Meal: m}
}

// String renders the canonical form YYYY-MM-DD-meal.
func (k Key) String() string {
	return k.Date.String() + "-" + string(k.Meal)
}

// ParseKey parses YYYY-MM-DD-meal and validates every component.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 4 {
		return Key{}, fmt.Errorf("key %q must be YYYY-MM-DD-meal: %w", s, core.ErrInvalidArgument)
	}
	nums, err := atois(parts[:3])
	if err != nil {
		return Key{}, fmt.Errorf("key %q: %w", s, core.ErrInvalidArgument)
	}
	d, err := NewDate(nums[0], nums[1], nums[2])
	if err != nil {
		return Key{}, err
	}
	m, err := ParseMeal(parts[3])
	if err != nil {
		return Key{}, err
	}
	return Key{Date: d, Meal: m}, nil
}

func atois(parts []string) ([]int, error) {
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
