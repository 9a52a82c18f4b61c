package auth

import "context"

// UserRepository defines the data-access contract.
// Service depends ONLY on this interface.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Lookups return core.ErrNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByIDs silently skips unknown ids.
	FindByIDs(ctx context.Context, ids []string) ([]*User, error)
	List(ctx context.Context) ([]*User, error)

	UpdateRole(ctx context.Context, id, role, updatedBy string) error
	UpdateProfile(ctx context.Context, id string, p Profile) error
}
