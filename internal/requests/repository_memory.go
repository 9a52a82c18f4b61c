package requests

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/43bits/mess-calender-gec/internal/core"
)

type InMemoryRepository struct {
	mu       sync.RWMutex
	requests map[string]*Request
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{requests: make(map[string]*Request)}
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, core.ErrNotFound)
	}
	return clone(req), nil
}

func (r *InMemoryRepository) Insert(ctx context.Context, req *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	r.requests[req.ID] = clone(req)
	return nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, d Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("request %s: %w", id, core.ErrNotFound)
	}
	if req.Status != d.From {
		return fmt.Errorf("request %s is %s: %w", id, req.Status, core.ErrConflict)
	}

	at := d.At
	req.Status = d.To
	req.DecidedAt = &at
	req.DecidedBy = d.By
	req.Note = d.Note
	return nil
}

func (r *InMemoryRepository) DeleteByStatus(ctx context.Context, status Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, req := range r.requests {
		if req.Status == status {
			delete(r.requests, id)
			n++
		}
	}
	return n, nil
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*Request, error) {
	return r.list(func(*Request) bool { return true }), nil
}

func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Request, error) {
	return r.list(func(req *Request) bool { return req.OwnerID == ownerID }), nil
}

func (r *InMemoryRepository) list(keep func(*Request) bool) []*Request {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Request
	for _, req := range r.requests {
		if keep(req) {
			out = append(out, clone(req))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func clone(req *Request) *Request {
	cp := *req
	if req.Diet != nil {
		d := *req.Diet
		cp.Diet = &d
	}
	if req.DecidedAt != nil {
		t := *req.DecidedAt
		cp.DecidedAt = &t
	}
	return &cp
}
