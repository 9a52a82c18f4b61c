package ledger

import "context"

// AnyVersion disables the version guard on Patch and Delete.
const AnyVersion = 0

// Repository is the ledger store contract. Owner-scoped and date-scoped
// reads go through separate indexes.
type Repository interface {
	// FindByKey returns core.ErrNotFound when the slot is unmarked.
	FindByKey(ctx context.Context, ownerID, key string) (*Entry, error)

	// Insert stores a new entry. A concurrent insert for the same
	// (owner, key) collapses into an update so the slot stays unique.
	Insert(ctx context.Context, e *Entry) error

	// Patch writes Diet, Amount and update attribution and bumps Version.
	// With expectedVersion != AnyVersion it fails with core.ErrConflict
	// when the stored version differs.
	Patch(ctx context.Context, e *Entry, expectedVersion int) error

	Delete(ctx context.Context, id string, expectedVersion int) error

	ListByOwner(ctx context.Context, ownerID string) ([]*Entry, error)
	ListByDate(ctx context.Context, q DateQuery) ([]*Entry, error)
}
