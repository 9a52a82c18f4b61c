package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/43bits/mess-calender-gec/internal/core"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*Entry // by id
	slots   map[string]string // owner|key -> id
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		entries: make(map[string]*Entry),
		slots:   make(map[string]string),
	}
}

func slot(ownerID, key string) string {
	return ownerID + "|" + key
}

func (r *InMemoryRepository) FindByKey(ctx context.Context, ownerID, key string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.slots[slot(ownerID, key)]
	if !ok {
		return nil, fmt.Errorf("selection %s: %w", key, core.ErrNotFound)
	}
	cp := *r.entries[id]
	return &cp, nil
}

func (r *InMemoryRepository) Insert(ctx context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.slots[slot(e.OwnerID, e.Key)]; ok {
		existing := r.entries[id]
		existing.Diet = e.Diet
		existing.Amount = e.Amount
		existing.UpdatedAt = e.UpdatedAt
		existing.UpdatedBy = e.UpdatedBy
		existing.ModifiedByAdmin = e.ModifiedByAdmin
		existing.Version++
		*e = *existing
		return nil
	}

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Version == 0 {
		e.Version = 1
	}
	cp := *e
	r.entries[e.ID] = &cp
	r.slots[slot(e.OwnerID, e.Key)] = e.ID
	return nil
}

func (r *InMemoryRepository) Patch(ctx context.Context, e *Entry, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[e.ID]
	if !ok {
		return fmt.Errorf("selection %s: %w", e.ID, core.ErrNotFound)
	}
	if expectedVersion != AnyVersion && existing.Version != expectedVersion {
		return fmt.Errorf("selection %s changed (version %d, expected %d): %w",
			e.Key, existing.Version, expectedVersion, core.ErrConflict)
	}

	existing.Diet = e.Diet
	existing.Amount = e.Amount
	existing.UpdatedAt = e.UpdatedAt
	existing.UpdatedBy = e.UpdatedBy
	existing.ModifiedByAdmin = e.ModifiedByAdmin
	existing.Version++

	*e = *existing
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[id]
	if !ok {
		return nil
	}
	if expectedVersion != AnyVersion && existing.Version != expectedVersion {
		return fmt.Errorf("selection %s changed (version %d, expected %d): %w",
			existing.Key, existing.Version, expectedVersion, core.ErrConflict)
	}

	delete(r.slots, slot(existing.OwnerID, existing.Key))
	delete(r.entries, id)
	return nil
}

func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Entry, error) {
	return r.list(func(e *Entry) bool { return e.OwnerID == ownerID }), nil
}

func (r *InMemoryRepository) ListByDate(ctx context.Context, q DateQuery) ([]*Entry, error) {
	return r.list(q.Matches), nil
}

// Count reports how many entries are stored.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Put stores a raw entry as-is, bypassing validation. Used to seed legacy
// or malformed rows.
func (r *InMemoryRepository) Put(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	cp := *e
	r.entries[e.ID] = &cp
	r.slots[slot(e.OwnerID, e.Key)] = e.ID
}

func (r *InMemoryRepository) list(keep func(*Entry) bool) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Entry
	for _, e := range r.entries {
		if keep(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].OwnerID < out[j].OwnerID
	})
	return out
}
