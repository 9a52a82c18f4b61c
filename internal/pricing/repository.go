package pricing

import "context"

// Repository stores the singleton price row.
// Get returns (nil, nil) when no row has ever been written.
type Repository interface {
	Get(ctx context.Context) (*Table, error)
	Upsert(ctx context.Context, t *Table) error
}
