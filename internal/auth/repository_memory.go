package auth

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/43bits/mess-calender-gec/internal/core"
)

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*User // by email
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]*User),
	}
}

func (r *InMemoryUserRepository) Save(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Generate UUID if not already set
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *InMemoryUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.users[email]
	return exists, nil
}

func (r *InMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, core.ErrNotFound)
	}
	cp := *user
	return &cp, nil
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u := r.byID(id); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
}

func (r *InMemoryUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*User
	for _, id := range ids {
		if u := r.byID(id); u != nil {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *InMemoryUserRepository) List(ctx context.Context) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryUserRepository) UpdateRole(ctx context.Context, id, role, updatedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.byID(id)
	if u == nil {
		return fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	u.Role = role
	u.UpdatedBy = updatedBy
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryUserRepository) UpdateProfile(ctx context.Context, id string, p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.byID(id)
	if u == nil {
		return fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	u.Profile = p
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryUserRepository) byID(id string) *User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}
