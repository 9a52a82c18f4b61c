package requests

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/ledger"
	"github.com/43bits/mess-calender-gec/internal/meal"
	"github.com/43bits/mess-calender-gec/internal/pricing"
)

var (
	resident = core.Caller{ID: "r1", Role: core.RoleStudent}
	admin    = core.Caller{ID: "admin-1", Role: core.RoleAdmin}
)

type fakeNames map[string]string

func (f fakeNames) DisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, id := range ids {
		if name, ok := f[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type failingPrices struct{}

func (failingPrices) Get(ctx context.Context) (*pricing.Table, error) {
	return nil, errors.New("price store unavailable")
}

func (failingPrices) Upsert(ctx context.Context, t *pricing.Table) error {
	return errors.New("price store unavailable")
}

type fixture struct {
	service *Service
	repo    *InMemoryRepository
	ledger  *ledger.InMemoryRepository
}

func setupWithPrices(prices pricing.Repository) fixture {
	repo := NewInMemoryRepository()
	entries := ledger.NewInMemoryRepository()
	tx := NewMemoryTransactor(Stores{Ledger: entries, Requests: repo, Prices: prices})
	names := fakeNames{"r1": "Asha"}
	return fixture{
		service: NewService(repo, tx, names, nil),
		repo:    repo,
		ledger:  entries,
	}
}

func setup() fixture {
	return setupWithPrices(pricing.NewInMemoryRepository())
}

func str(s string) *string { return &s }

func TestApprove_WritesLedgerEntry(t *testing.T) {
	f := setup()
	ctx := context.Background()

	req, err := f.service.Submit(ctx, resident, SubmitInput{Meal: "dinner", Date: "2025-03-10", Type: str("veg")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != StatusPending {
		t.Fatalf("expected pending, got %s", req.Status)
	}

	approved, err := f.service.Approve(ctx, admin, req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.Status != StatusApproved || approved.DecidedBy != "admin-1" {
		t.Fatalf("unexpected request after approval: %+v", approved)
	}

	e, err := f.ledger.FindByKey(ctx, "r1", "2025-03-10-dinner")
	if err != nil {
		t.Fatalf("expected ledger entry: %v", err)
	}
	if e.Meal != meal.Dinner || e.Diet != meal.Veg || !e.ModifiedByAdmin {
		t.Fatalf("unexpected entry %+v", e)
	}
	if !e.AmountOrZero().Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected amount 70, got %s", e.AmountOrZero())
	}

	stored, _ := f.repo.FindByID(ctx, req.ID)
	if stored.Status != StatusApproved {
		t.Fatalf("expected stored status approved, got %s", stored.Status)
	}
}

func TestApprove_DefaultsToVeg(t *testing.T) {
	f := setup()
	ctx := context.Background()

	req, _ := f.service.Submit(ctx, resident, SubmitInput{Meal: "lunch", Date: "2025-03-10"})
	if _, err := f.service.Approve(ctx, admin, req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e, _ := f.ledger.FindByKey(ctx, "r1", "2025-03-10-lunch")
	if e == nil || e.Diet != meal.Veg {
		t.Fatalf("expected veg entry, got %+v", e)
	}
}

func TestApprove_UpdatesExistingEntry(t *testing.T) {
	f := setup()
	ctx := context.Background()

	f.ledger.Put(&ledger.Entry{
		OwnerID: "r1", Key: "2025-03-10-lunch", Meal: meal.Lunch, Diet: meal.Veg,
		Year: 2025, Month: 3, Day: 10, Version: 1,
		Amount: decimal.NewNullDecimal(decimal.NewFromInt(70)),
	})

	req, _ := f.service.Submit(ctx, resident, SubmitInput{Meal: "lunch", Date: "2025-03-10", Type: str("non-veg")})
	if _, err := f.service.Approve(ctx, admin, req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Approving again changes nothing.
	if _, err := f.service.Approve(ctx, admin, req.ID); err != nil {
		t.Fatalf("second approval failed: %v", err)
	}

	if f.ledger.Count() != 1 {
		t.Fatalf("expected exactly 1 entry, got %d", f.ledger.Count())
	}
	e, _ := f.ledger.FindByKey(ctx, "r1", "2025-03-10-lunch")
	if e.Diet != meal.NonVeg || !e.ModifiedByAdmin || e.Version != 2 {
		t.Fatalf("expected patched entry, got %+v", e)
	}
}

func TestApprove_AttributesEntryToApprovingAdmin(t *testing.T) {
	f := setup()
	ctx := context.Background()

	f.ledger.Put(&ledger.Entry{
		OwnerID: "r1", Key: "2025-03-10-lunch", Meal: meal.Lunch, Diet: meal.Veg,
		Year: 2025, Month: 3, Day: 10, Version: 1, CreatedBy: "r1", UpdatedBy: "r1",
		Amount: decimal.NewNullDecimal(decimal.NewFromInt(70)),
	})

	created, _ := f.service.Submit(ctx, resident, SubmitInput{Meal: "dinner", Date: "2025-03-10", Type: str("veg")})
	patched, _ := f.service.Submit(ctx, resident, SubmitInput{Meal: "lunch", Date: "2025-03-10", Type: str("non-veg")})
	for _, id := range []string{created.ID, patched.ID} {
		if _, err := f.service.Approve(ctx, admin, id); err != nil {
			t.Fatalf("approve %s: %v", id, err)
		}
	}

	dinner, _ := f.ledger.FindByKey(ctx, "r1", "2025-03-10-dinner")
	if dinner.CreatedBy != "admin-1" || dinner.UpdatedBy != "admin-1" || !dinner.CreatedByAdmin {
		t.Fatalf("expected new entry attributed to admin-1, got %+v", dinner)
	}

	lunch, _ := f.ledger.FindByKey(ctx, "r1", "2025-03-10-lunch")
	if lunch.CreatedBy != "r1" || lunch.UpdatedBy != "admin-1" || lunch.CreatedByAdmin || !lunch.ModifiedByAdmin {
		t.Fatalf("expected resident creation kept and admin update recorded, got %+v", lunch)
	}
}

func TestApprove_Errors(t *testing.T) {
	f := setup()
	ctx := context.Background()

	if _, err := f.service.Approve(ctx, admin, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	req, _ := f.service.Submit(ctx, resident, SubmitInput{Meal: "lunch", Date: "2025-03-10"})
	if _, err := f.service.Approve(ctx, resident, req.ID); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if _, err := f.service.Reject(ctx, admin, req.ID, "late"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.Approve(ctx, admin, req.ID); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict approving a rejected request, got %v", err)
	}
	if f.ledger.Count() != 0 {
		t.Fatalf("expected no ledger writes, got %d", f.ledger.Count())
	}
}

func TestApprove_PriceFailureLeavesRequestPending(t *testing.T) {
	f := setupWithPrices(failingPrices{})
	ctx := context.Background()

	req, _ := f.service.Submit(ctx, resident, SubmitInput{Meal: "lunch", Date: "2025-03-10"})
	if _, err := f.service.Approve(ctx, admin, req.ID); err == nil {
		t.Fatal("expected approval to fail")
	}

	stored, _ := f.repo.FindByID(ctx, req.ID)
	if stored.Status != StatusPending {
		t.Fatalf("expected pending, got %s", stored.Status)
	}
	if f.ledger.Count() != 0 {
		t.Fatalf("expected empty ledger, got %d", f.ledger.Count())
	}
}

func TestReject(t *testing.T) {
	f := setup()
	ctx := context.Background()

	req, _ := f.service.Submit(ctx, resident, SubmitInput{Meal: "breakfast", Date: "2025-03-10"})
	rejected, err := f.service.Reject(ctx, admin, req.ID, " too late ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.Status != StatusRejected || rejected.Note != "too late" || rejected.DecidedAt == nil {
		t.Fatalf("unexpected rejected request %+v", rejected)
	}

	if _, err := f.service.Reject(ctx, admin, req.ID, ""); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict on second reject, got %v", err)
	}
}

func TestSubmit_Validation(t *testing.T) {
	f := setup()
	ctx := context.Background()

	cases := []SubmitInput{
		{Meal: "brunch", Date: "2025-03-10"},
		{Meal: "lunch", Date: "10-03-2025"},
		{Meal: "lunch", Date: "2025-02-30"},
		{Meal: "lunch", Date: "2025-03-10", Type: str("vegan")},
	}
	for _, in := range cases {
		if _, err := f.service.Submit(ctx, resident, in); !errors.Is(err, core.ErrInvalidArgument) {
			t.Errorf("%+v: expected invalid argument, got %v", in, err)
		}
	}

	if _, err := f.service.Submit(ctx, core.Caller{}, SubmitInput{Meal: "lunch", Date: "2025-03-10"}); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestClearApproved(t *testing.T) {
	f := setup()
	ctx := context.Background()

	a, _ := f.service.Submit(ctx, resident, SubmitInput{Meal: "lunch", Date: "2025-03-10"})
	b, _ := f.service.Submit(ctx, resident, SubmitInput{Meal: "dinner", Date: "2025-03-10"})
	f.service.Submit(ctx, resident, SubmitInput{Meal: "breakfast", Date: "2025-03-11"})
	f.service.Approve(ctx, admin, a.ID)
	f.service.Approve(ctx, admin, b.ID)

	if _, err := f.service.ClearApproved(ctx, resident); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	n, err := f.service.ClearApproved(ctx, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}

	left, _ := f.service.ListForOwner(ctx, resident, "")
	if len(left) != 1 || left[0].Status != StatusPending {
		t.Fatalf("expected one pending request left, got %+v", left)
	}
}

func TestListForAdmin_ResolvesNames(t *testing.T) {
	f := setup()
	ctx := context.Background()

	f.service.Submit(ctx, resident, SubmitInput{Meal: "lunch", Date: "2025-03-10"})
	f.service.Submit(ctx, core.Caller{ID: "ghost", Role: core.RoleStudent}, SubmitInput{Meal: "lunch", Date: "2025-03-10"})

	list, err := f.service.ListForAdmin(ctx, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(list))
	}
	for _, l := range list {
		want := "Asha"
		if l.OwnerID == "ghost" {
			want = "Unknown"
		}
		if l.UserName != want {
			t.Errorf("owner %s: expected %s, got %s", l.OwnerID, want, l.UserName)
		}
	}

	if _, err := f.service.ListForOwner(ctx, resident, "ghost"); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
