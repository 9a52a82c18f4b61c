package menu

import "context"

// Repository stores the singleton menu card.
// Get returns (nil, nil) when no card has been published.
type Repository interface {
	Get(ctx context.Context) (*Card, error)
	Upsert(ctx context.Context, c *Card) error
}
