package pricing

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/core"
)

type Service struct {
	repo      Repository
	publisher core.Publisher
}

func NewService(repo Repository, publisher core.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// Get returns the stored table, or Default when none was ever written.
func (s *Service) Get(ctx context.Context) (Table, error) {
	t, err := s.repo.Get(ctx)
	if err != nil {
		return Table{}, err
	}
	if t == nil {
		return Default(), nil
	}
	return *t, nil
}

// Input carries untrusted price values; every field is required.
type Input struct {
	Breakfast    *float64 `json:"breakfast"`
	LunchVeg     *float64 `json:"lunchVeg"`
	LunchNonVeg  *float64 `json:"lunchNonVeg"`
	DinnerVeg    *float64 `json:"dinnerVeg"`
	DinnerNonVeg *float64 `json:"dinnerNonVeg"`
}

func (in Input) toTable() (Table, error) {
	var t Table
	fields := []struct {
		name string
		v    *float64
		dst  *decimal.Decimal
	}{
		{"breakfast", in.Breakfast, &t.Breakfast},
		{"lunchVeg", in.LunchVeg, &t.LunchVeg},
		{"lunchNonVeg", in.LunchNonVeg, &t.LunchNonVeg},
		{"dinnerVeg", in.DinnerVeg, &t.DinnerVeg},
		{"dinnerNonVeg", in.DinnerNonVeg, &t.DinnerNonVeg},
	}

	for _, f := range fields {
		if f.v == nil {
			return Table{}, fmt.Errorf("%s is required: %w", f.name, core.ErrInvalidArgument)
		}
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) || *f.v < 0 {
			return Table{}, fmt.Errorf("%s must be a non-negative number: %w", f.name, core.ErrInvalidArgument)
		}
		*f.dst = decimal.NewFromFloat(*f.v).Round(2)
	}
	return t, nil
}

// Set replaces the current table. Stored ledger amounts are left untouched.
func (s *Service) Set(ctx context.Context, caller core.Caller, in Input) (Table, error) {
	if err := caller.RequireAdmin(); err != nil {
		return Table{}, err
	}

	t, err := in.toTable()
	if err != nil {
		return Table{}, err
	}
	t.UpdatedBy = caller.ID

	if err := s.repo.Upsert(ctx, &t); err != nil {
		return Table{}, err
	}

	core.Publish(s.publisher, "prices.updated", "", t)
	return t, nil
}
