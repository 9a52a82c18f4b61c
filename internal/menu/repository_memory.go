package menu

import (
	"context"
	"sync"
)

type InMemoryRepository struct {
	mu   sync.RWMutex
	card *Card
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Get(ctx context.Context) (*Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.card == nil {
		return nil, nil
	}
	cp := *r.card
	cp.Data = append([]byte(nil), r.card.Data...)
	return &cp, nil
}

func (r *InMemoryRepository) Upsert(ctx context.Context, c *Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *c
	cp.Data = append([]byte(nil), c.Data...)
	r.card = &cp
	return nil
}
