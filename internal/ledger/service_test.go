package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/meal"
	"github.com/43bits/mess-calender-gec/internal/pricing"
)

var (
	resident = core.Caller{ID: "resident-1", Role: core.RoleStudent}
	admin    = core.Caller{ID: "admin-1", Role: core.RoleAdmin}
)

func diet(d meal.Diet) *meal.Diet { return &d }

type recorder struct {
	events []core.Event
}

func (r *recorder) Publish(evt core.Event) { r.events = append(r.events, evt) }

func setup() (*Service, *InMemoryRepository, *pricing.Service) {
	repo := NewInMemoryRepository()
	prices := pricing.NewService(pricing.NewInMemoryRepository(), nil)
	return NewService(repo, prices, nil), repo, prices
}

func TestSetSelection_IsIdempotent(t *testing.T) {
	service, repo, _ := setup()
	ctx := context.Background()
	cmd := SetCommand{Key: "2025-03-10-lunch", Diet: diet(meal.Veg)}

	first, err := service.SetSelection(ctx, resident, cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.SetSelection(ctx, resident, cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.Count() != 1 {
		t.Fatalf("expected 1 entry, got %d", repo.Count())
	}
	if first.ID != second.ID {
		t.Fatalf("expected same entry, got %s and %s", first.ID, second.ID)
	}
	if !second.AmountOrZero().Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected amount 70, got %s", second.AmountOrZero())
	}
}

func TestSetSelection_ToggleCycle(t *testing.T) {
	service, repo, _ := setup()
	ctx := context.Background()
	key := "2025-03-10-dinner"

	e, err := service.SetSelection(ctx, resident, SetCommand{Key: key, Diet: diet(meal.Veg)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.AmountOrZero().Equal(decimal.NewFromInt(70)) {
		t.Fatalf("veg dinner: expected 70, got %s", e.AmountOrZero())
	}

	e, err = service.SetSelection(ctx, resident, SetCommand{Key: key, Diet: diet(meal.NonVeg)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.AmountOrZero().Equal(decimal.NewFromInt(80)) || e.Diet != meal.NonVeg {
		t.Fatalf("non-veg dinner: expected 80, got %s (%s)", e.AmountOrZero(), e.Diet)
	}
	if e.Version != 2 {
		t.Fatalf("expected version 2 after patch, got %d", e.Version)
	}

	e, err = service.SetSelection(ctx, resident, SetCommand{Key: key})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e != nil {
		t.Fatalf("expected no entry after unmark, got %+v", e)
	}
	if repo.Count() != 0 {
		t.Fatalf("expected empty ledger, got %d entries", repo.Count())
	}

	// Unmarking an empty slot is a no-op.
	if _, err := service.SetSelection(ctx, resident, SetCommand{Key: key}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetSelection_BreakfastIgnoresDiet(t *testing.T) {
	service, _, _ := setup()

	e, err := service.SetSelection(context.Background(), resident,
		SetCommand{Key: "2025-03-10-breakfast", Diet: diet(meal.NonVeg)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.AmountOrZero().Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected breakfast price 50, got %s", e.AmountOrZero())
	}
}

func TestSetSelection_PriceChangeIsNotRetroactive(t *testing.T) {
	service, repo, prices := setup()
	ctx := context.Background()

	if _, err := service.SetSelection(ctx, resident, SetCommand{Key: "2025-03-10-lunch", Diet: diet(meal.Veg)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := pricing.Input{}
	for _, p := range []**float64{&in.Breakfast, &in.LunchVeg, &in.LunchNonVeg, &in.DinnerVeg, &in.DinnerNonVeg} {
		v := 80.0
		*p = &v
	}
	lunchVeg := 90.0
	in.LunchVeg = &lunchVeg
	if _, err := prices.Set(ctx, admin, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	old, err := repo.FindByKey(ctx, resident.ID, "2025-03-10-lunch")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !old.AmountOrZero().Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected stored amount to stay 70, got %s", old.AmountOrZero())
	}

	fresh, err := service.SetSelection(ctx, resident, SetCommand{Key: "2025-03-11-lunch", Diet: diet(meal.Veg)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fresh.AmountOrZero().Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected new entry at 90, got %s", fresh.AmountOrZero())
	}
}

func TestSetSelection_Authorization(t *testing.T) {
	service, _, _ := setup()
	ctx := context.Background()

	_, err := service.SetSelection(ctx, core.Caller{}, SetCommand{Key: "2025-03-10-lunch", Diet: diet(meal.Veg)})
	if !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}

	_, err = service.SetSelection(ctx, resident, SetCommand{OwnerID: "resident-2", Key: "2025-03-10-lunch", Diet: diet(meal.Veg)})
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for another owner, got %v", err)
	}

	_, err = service.SetSelection(ctx, resident, SetCommand{Key: "2025-03-10-lunch", Diet: diet(meal.Veg), AdminAction: true})
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected unauthorized admin action, got %v", err)
	}

	e, err := service.SetSelection(ctx, admin, SetCommand{OwnerID: "resident-2", Key: "2025-03-10-lunch", Diet: diet(meal.Veg), AdminAction: true})
	if err != nil {
		t.Fatalf("admin override failed: %v", err)
	}
	if !e.CreatedByAdmin || !e.ModifiedByAdmin || e.CreatedBy != "admin-1" {
		t.Fatalf("expected admin attribution, got %+v", e)
	}
}

func TestSetSelection_InvalidKey(t *testing.T) {
	service, _, _ := setup()

	_, err := service.SetSelection(context.Background(), resident, SetCommand{Key: "2025-03-10-brunch", Diet: diet(meal.Veg)})
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestSetSelection_ExpectedVersion(t *testing.T) {
	service, _, _ := setup()
	ctx := context.Background()
	key := "2025-03-10-lunch"

	e, err := service.SetSelection(ctx, resident, SetCommand{Key: key, Diet: diet(meal.Veg)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := service.SetSelection(ctx, resident, SetCommand{Key: key, Diet: diet(meal.NonVeg), ExpectedVersion: e.Version}); err != nil {
		t.Fatalf("matching version rejected: %v", err)
	}

	// The stored version moved on, so a stale writer loses.
	_, err = service.SetSelection(ctx, resident, SetCommand{Key: key, Diet: diet(meal.Veg), ExpectedVersion: e.Version})
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	_, err = service.SetSelection(ctx, resident, SetCommand{Key: key, ExpectedVersion: e.Version})
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict on stale delete, got %v", err)
	}
}

func TestSetSelection_PublishesEvents(t *testing.T) {
	events := &recorder{}
	prices := pricing.NewService(pricing.NewInMemoryRepository(), nil)
	service := NewService(NewInMemoryRepository(), prices, events)
	ctx := context.Background()

	service.SetSelection(ctx, resident, SetCommand{Key: "2025-3-10-lunch", Diet: diet(meal.Veg)})
	service.SetSelection(ctx, resident, SetCommand{Key: "2025-03-10-lunch"})

	if len(events.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events.events))
	}
	if events.events[0].Kind != "selection.updated" || events.events[1].Kind != "selection.deleted" {
		t.Fatalf("unexpected event kinds: %s, %s", events.events[0].Kind, events.events[1].Kind)
	}
	if events.events[1].OwnerID != resident.ID {
		t.Fatalf("expected owner %s, got %s", resident.ID, events.events[1].OwnerID)
	}
}

func TestGetSelection(t *testing.T) {
	service, _, _ := setup()
	ctx := context.Background()

	e, err := service.GetSelection(ctx, resident, "", "2025-03-10-lunch")
	if err != nil || e != nil {
		t.Fatalf("expected absent selection, got %+v (%v)", e, err)
	}

	service.SetSelection(ctx, resident, SetCommand{Key: "2025-03-10-lunch", Diet: diet(meal.NonVeg)})

	e, err = service.GetSelection(ctx, resident, "", "2025-03-10-lunch")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e == nil || e.Diet != meal.NonVeg {
		t.Fatalf("expected non-veg, got %+v", e)
	}

	if _, err := service.GetSelection(ctx, core.Caller{ID: "resident-2", Role: core.RoleStudent}, resident.ID, "2025-03-10-lunch"); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
