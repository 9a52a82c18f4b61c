package pricing

import (
	"context"
	"sync"
)

type InMemoryRepository struct {
	mu    sync.RWMutex
	table *Table
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Get(ctx context.Context) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.table == nil {
		return nil, nil
	}
	cp := *r.table
	return &cp, nil
}

func (r *InMemoryRepository) Upsert(ctx context.Context, t *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.table = &cp
	return nil
}
