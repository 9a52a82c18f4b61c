package requests

import (
	"context"
	"time"
)

// Decision records who moved a request out of pending, and when.
type Decision struct {
	From Status
	To   Status
	By   string
	Note string
	At   time.Time
}

type Repository interface {
	// FindByID returns core.ErrNotFound for an unknown id.
	FindByID(ctx context.Context, id string) (*Request, error)
	Insert(ctx context.Context, r *Request) error

	// UpdateStatus applies d only while the stored status equals d.From,
	// failing with core.ErrConflict otherwise.
	UpdateStatus(ctx context.Context, id string, d Decision) error

	DeleteByStatus(ctx context.Context, status Status) (int, error)

	// Listings are newest first.
	ListAll(ctx context.Context) ([]*Request, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Request, error)
}
