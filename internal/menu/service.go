package menu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/43bits/mess-calender-gec/internal/core"
)

type Service struct {
	repo      Repository
	publisher core.Publisher
}

func NewService(repo Repository, publisher core.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// Get returns the published card, or an empty one.
func (s *Service) Get(ctx context.Context) (Card, error) {
	c, err := s.repo.Get(ctx)
	if err != nil {
		return Card{}, err
	}
	if c == nil {
		return Card{Data: json.RawMessage("null")}, nil
	}
	return *c, nil
}

// Update replaces the card. The document must be a JSON object.
func (s *Service) Update(ctx context.Context, caller core.Caller, data json.RawMessage) (Card, error) {
	if err := caller.RequireAdmin(); err != nil {
		return Card{}, err
	}

	var obj map[string]json.RawMessage
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &obj) != nil {
		return Card{}, fmt.Errorf("menu must be a JSON object: %w", core.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	c := Card{Data: trimmed, UpdatedAt: &now, UpdatedBy: caller.ID}
	if err := s.repo.Upsert(ctx, &c); err != nil {
		return Card{}, err
	}

	core.Publish(s.publisher, "menu.updated", "", nil)
	return c, nil
}
