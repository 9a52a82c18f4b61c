package settlement

import (
	"context"
	"fmt"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/ledger"
	"github.com/43bits/mess-calender-gec/internal/meal"
)

// Service answers billing questions from the ledger store. It never writes.
type Service struct {
	entries ledger.Repository
}

func NewService(entries ledger.Repository) *Service {
	return &Service{entries: entries}
}

func (s *Service) OwnSelections(ctx context.Context, caller core.Caller) (Rollup, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return Rollup{}, err
	}
	return s.rollup(ctx, caller.ID)
}

func (s *Service) OwnerSelections(ctx context.Context, caller core.Caller, ownerID string) (Rollup, error) {
	if err := caller.RequireAdmin(); err != nil {
		return Rollup{}, err
	}
	return s.rollup(ctx, ownerID)
}

func (s *Service) rollup(ctx context.Context, ownerID string) (Rollup, error) {
	entries, err := s.entries.ListByOwner(ctx, ownerID)
	if err != nil {
		return Rollup{}, err
	}
	return RollupForOwner(entries), nil
}

// OwnerWindow is available to the owner and to admins.
func (s *Service) OwnerWindow(ctx context.Context, caller core.Caller, ownerID string, year, month int) (Window, error) {
	if ownerID == "" {
		ownerID = caller.ID
	}
	if err := caller.RequireSelfOrAdmin(ownerID); err != nil {
		return Window{}, err
	}
	if _, err := meal.NewDate(year, month, 1); err != nil {
		return Window{}, err
	}

	entries, err := s.entries.ListByOwner(ctx, ownerID)
	if err != nil {
		return Window{}, err
	}
	return RollupForOwnerWindow(entries, year, month), nil
}

// DailyStats reads the whole year once and narrows it in memory.
func (s *Service) DailyStats(ctx context.Context, caller core.Caller, date meal.Date) (Daily, error) {
	if err := caller.RequireAdmin(); err != nil {
		return Daily{}, err
	}

	entries, err := s.entries.ListByDate(ctx, ledger.DateQuery{Year: date.Year})
	if err != nil {
		return Daily{}, fmt.Errorf("load %d entries: %w", date.Year, err)
	}
	return DailyStats(entries, date), nil
}
