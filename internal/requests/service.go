package requests

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/ledger"
	"github.com/43bits/mess-calender-gec/internal/meal"
	"github.com/43bits/mess-calender-gec/internal/pricing"
)

const unknownName = "Unknown"

// NameResolver maps user ids to display names. Unknown ids are omitted.
type NameResolver interface {
	DisplayNames(ctx context.Context, ids []string) (map[string]string, error)
}

type Service struct {
	repo      Repository
	tx        Transactor
	names     NameResolver
	publisher core.Publisher
}

func NewService(repo Repository, tx Transactor, names NameResolver, publisher core.Publisher) *Service {
	return &Service{repo: repo, tx: tx, names: names, publisher: publisher}
}

// SubmitInput is the untrusted request body.
type SubmitInput struct {
	Meal   string  `json:"meal"`
	Date   string  `json:"date"`
	Reason string  `json:"reason"`
	Type   *string `json:"type"`
}

// Submit files a pending request for the caller. Duplicates are allowed.
func (s *Service) Submit(ctx context.Context, caller core.Caller, in SubmitInput) (*Request, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}

	m, err := meal.ParseMeal(in.Meal)
	if err != nil {
		return nil, err
	}
	d, err := meal.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	req := &Request{
		OwnerID:   caller.ID,
		Meal:      m,
		Date:      d.String(),
		Reason:    strings.TrimSpace(in.Reason),
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if in.Type != nil && strings.TrimSpace(*in.Type) != "" {
		diet, err := meal.ParseDiet(*in.Type)
		if err != nil {
			return nil, err
		}
		req.Diet = &diet
	}

	if err := s.repo.Insert(ctx, req); err != nil {
		return nil, err
	}

	core.Publish(s.publisher, "request.submitted", req.OwnerID, req)
	return req, nil
}

// Approve writes the requested meal into the ledger and marks the request
// approved in one transaction. Approving twice is a no-op.
func (s *Service) Approve(ctx context.Context, caller core.Caller, id string) (*Request, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	var (
		approved *Request
		entry    *ledger.Entry
		changed  bool
	)
	err := s.tx.WithinTx(ctx, func(st Stores) error {
		req, err := st.Requests.FindByID(ctx, id)
		if err != nil {
			return err
		}
		switch req.Status {
		case StatusApproved:
			approved = req
			return nil
		case StatusRejected:
			return fmt.Errorf("request %s was rejected: %w", id, core.ErrConflict)
		}

		key, err := req.Key()
		if err != nil {
			return err
		}
		table, err := pricing.NewService(st.Prices, nil).Get(ctx)
		if err != nil {
			return fmt.Errorf("load prices: %w", err)
		}

		diet := req.DietOrDefault()
		entry, err = ledger.Apply(ctx, st.Ledger, table, caller, ledger.SetCommand{
			OwnerID:     req.OwnerID,
			Key:         key.String(),
			Diet:        &diet,
			AdminAction: true,
		})
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		err = st.Requests.UpdateStatus(ctx, id, Decision{
			From: StatusPending,
			To:   StatusApproved,
			By:   caller.Actor(),
			At:   now,
		})
		if err != nil {
			return err
		}

		req.Status = StatusApproved
		req.DecidedAt = &now
		req.DecidedBy = caller.Actor()
		approved = req
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		log.Printf("[REQUESTS] %s approved %s (%s %s for %s)", caller.ID, id, approved.Date, approved.Meal, approved.OwnerID)
		core.Publish(s.publisher, "selection.updated", entry.OwnerID, entry)
		core.Publish(s.publisher, "request.approved", approved.OwnerID, approved)
	}
	return approved, nil
}

// Reject closes a pending request without touching the ledger.
func (s *Service) Reject(ctx context.Context, caller core.Caller, id, note string) (*Request, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err := s.repo.UpdateStatus(ctx, id, Decision{
		From: StatusPending,
		To:   StatusRejected,
		By:   caller.Actor(),
		Note: strings.TrimSpace(note),
		At:   now,
	})
	if err != nil {
		return nil, err
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	core.Publish(s.publisher, "request.rejected", req.OwnerID, req)
	return req, nil
}

// ClearApproved permanently deletes every approved request.
func (s *Service) ClearApproved(ctx context.Context, caller core.Caller) (int, error) {
	if err := caller.RequireAdmin(); err != nil {
		return 0, err
	}

	n, err := s.repo.DeleteByStatus(ctx, StatusApproved)
	if err != nil {
		return 0, err
	}

	log.Printf("[REQUESTS] %s cleared %d approved requests", caller.Actor(), n)
	core.Publish(s.publisher, "requests.cleared", "", map[string]int{"deletedCount": n})
	return n, nil
}

func (s *Service) ListForAdmin(ctx context.Context, caller core.Caller) ([]Listing, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	names, err := s.displayNames(ctx, reqs)
	if err != nil {
		return nil, err
	}

	out := make([]Listing, 0, len(reqs))
	for _, r := range reqs {
		name, ok := names[r.OwnerID]
		if !ok || name == "" {
			name = unknownName
		}
		out = append(out, Listing{Request: r, UserName: name})
	}
	return out, nil
}

func (s *Service) displayNames(ctx context.Context, reqs []*Request) (map[string]string, error) {
	if s.names == nil || len(reqs) == 0 {
		return map[string]string{}, nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, r := range reqs {
		if !seen[r.OwnerID] {
			seen[r.OwnerID] = true
			ids = append(ids, r.OwnerID)
		}
	}
	return s.names.DisplayNames(ctx, ids)
}

func (s *Service) ListForOwner(ctx context.Context, caller core.Caller, ownerID string) ([]*Request, error) {
	if ownerID == "" {
		ownerID = caller.ID
	}
	if err := caller.RequireSelfOrAdmin(ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerID)
}
