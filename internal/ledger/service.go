package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/meal"
	"github.com/43bits/mess-calender-gec/internal/pricing"
)

// PriceSource yields the price table in effect for a write.
type PriceSource interface {
	Get(ctx context.Context) (pricing.Table, error)
}

type Service struct {
	repo      Repository
	prices    PriceSource
	publisher core.Publisher
}

func NewService(repo Repository, prices PriceSource, publisher core.Publisher) *Service {
	return &Service{repo: repo, prices: prices, publisher: publisher}
}

// SetCommand asks for a slot to be marked with Diet, or unmarked when Diet
// is nil. OwnerID defaults to the caller.
type SetCommand struct {
	OwnerID         string
	Key             string
	Diet            *meal.Diet
	AdminAction     bool
	ExpectedVersion int
}

// GetSelection returns the entry for the slot, or nil when it is unmarked.
func (s *Service) GetSelection(ctx context.Context, caller core.Caller, ownerID, key string) (*Entry, error) {
	if ownerID == "" {
		ownerID = caller.ID
	}
	if err := caller.RequireSelfOrAdmin(ownerID); err != nil {
		return nil, err
	}
	k, err := meal.ParseKey(key)
	if err != nil {
		return nil, err
	}

	e, err := s.repo.FindByKey(ctx, ownerID, k.String())
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	return e, err
}

// SetSelection marks, re-types or unmarks one slot using the current
// price table. Repeating the same command leaves the ledger unchanged.
func (s *Service) SetSelection(ctx context.Context, caller core.Caller, cmd SetCommand) (*Entry, error) {
	if err := authorize(caller, &cmd); err != nil {
		return nil, err
	}
	k, err := meal.ParseKey(cmd.Key)
	if err != nil {
		return nil, err
	}
	cmd.Key = k.String()

	table, err := s.prices.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	e, err := Apply(ctx, s.repo, table, caller, cmd)
	if err != nil {
		return nil, err
	}

	if e == nil {
		core.Publish(s.publisher, "selection.deleted", cmd.OwnerID, map[string]string{"key": cmd.Key})
	} else {
		core.Publish(s.publisher, "selection.updated", e.OwnerID, e)
	}
	return e, nil
}

func authorize(caller core.Caller, cmd *SetCommand) error {
	if err := caller.RequireAuthenticated(); err != nil {
		return err
	}
	cmd.OwnerID = strings.TrimSpace(cmd.OwnerID)
	if cmd.OwnerID == "" {
		cmd.OwnerID = caller.ID
	}
	if cmd.AdminAction {
		return caller.RequireAdmin()
	}
	return caller.RequireSelfOrAdmin(cmd.OwnerID)
}

// Apply performs the read-modify-write for one slot against repo with an
// already fetched price table. It returns the stored entry, or nil when the
// slot ends up unmarked. Callers running inside a transaction pass the
// transaction-bound repository.
func Apply(ctx context.Context, repo Repository, table pricing.Table, caller core.Caller, cmd SetCommand) (*Entry, error) {
	if err := authorize(caller, &cmd); err != nil {
		return nil, err
	}

	k, err := meal.ParseKey(cmd.Key)
	if err != nil {
		return nil, err
	}
	key := k.String()

	existing, err := repo.FindByKey(ctx, cmd.OwnerID, key)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}
	if existing == nil && cmd.ExpectedVersion != AnyVersion {
		return nil, fmt.Errorf("selection %s no longer exists: %w", key, core.ErrConflict)
	}

	if cmd.Diet == nil {
		if existing == nil {
			return nil, nil
		}
		if err := repo.Delete(ctx, existing.ID, cmd.ExpectedVersion); err != nil {
			return nil, err
		}
		return nil, nil
	}

	diet := *cmd.Diet
	if !diet.Valid() {
		return nil, fmt.Errorf("unknown meal type %q: %w", diet, core.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	amount := decimal.NewNullDecimal(table.PriceFor(k.Meal, diet))
	actor := caller.Actor()

	if existing != nil {
		existing.Diet = diet
		existing.Amount = amount
		existing.UpdatedAt = now
		existing.UpdatedBy = actor
		existing.ModifiedByAdmin = cmd.AdminAction
		if err := repo.Patch(ctx, existing, cmd.ExpectedVersion); err != nil {
			return nil, err
		}
		return existing, nil
	}

	e := &Entry{
		OwnerID:         cmd.OwnerID,
		Key:             key,
		Meal:            k.Meal,
		Diet:            diet,
		Year:            k.Date.Year,
		Month:           k.Date.Month,
		Day:             k.Date.Day,
		Amount:          amount,
		CreatedAt:       now,
		CreatedBy:       actor,
		UpdatedAt:       now,
		UpdatedBy:       actor,
		CreatedByAdmin:  cmd.AdminAction,
		ModifiedByAdmin: cmd.AdminAction,
	}
	if err := repo.Insert(ctx, e); err != nil {
		return nil, err
	}

	log.Printf("[LEDGER] %s marked %s for %s (%s, %s)", actor, key, e.OwnerID, diet, amount.Decimal.StringFixed(2))
	return e, nil
}
