package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/43bits/mess-calender-gec/internal/core"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", core.ErrUnauthenticated)
	ErrEmailTaken         = fmt.Errorf("email already exists: %w", core.ErrConflict)
)

type Service struct {
	repo UserRepository
}

func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

// REGISTER
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	return s.create(ctx, name, email, password, core.RoleStudent)
}

func (s *Service) create(ctx context.Context, name, email, password, role string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("missing required fields: %w", core.ErrInvalidArgument)
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &User{
		Name:      name,
		Email:     email,
		Password:  string(hashedPassword),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// LOGIN
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	err = bcrypt.CompareHashAndPassword(
		[]byte(user.Password),
		[]byte(password),
	)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// SeedAdmin makes sure a bootstrap admin account exists. Existing accounts
// with the same email are promoted rather than recreated.
func (s *Service) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err == nil {
		if existing.Role == core.RoleAdmin {
			return nil
		}
		log.Printf("[AUTH] promoting %s to admin", existing.Email)
		return s.repo.UpdateRole(ctx, existing.ID, core.RoleAdmin, core.SystemActor)
	}
	if !errors.Is(err, core.ErrNotFound) {
		return err
	}

	if _, err := s.create(ctx, "Administrator", email, password, core.RoleAdmin); err != nil {
		return err
	}
	log.Printf("[AUTH] seeded admin %s", email)
	return nil
}

func (s *Service) Me(ctx context.Context, caller core.Caller) (*User, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, caller.ID)
}

func (s *Service) ListUsers(ctx context.Context, caller core.Caller) ([]*User, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *Service) UpdateRole(ctx context.Context, caller core.Caller, userID, role string) (*User, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, core.ErrInvalidArgument)
	}

	if err := s.repo.UpdateRole(ctx, userID, role, caller.ID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, caller core.Caller, p Profile) (*User, error) {
	if err := caller.RequireAuthenticated(); err != nil {
		return nil, err
	}
	p.Hostel = strings.TrimSpace(p.Hostel)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, caller.ID, p); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, caller.ID)
}

// DisplayNames resolves user ids to names for listings.
func (s *Service) DisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	users, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

// CurrentRole reads the stored role, which wins over the role claim of a
// token issued before the last role change.
func (s *Service) CurrentRole(ctx context.Context, userID string) (string, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return "", fmt.Errorf("user %s no longer exists: %w", userID, core.ErrUnauthenticated)
	}
	if err != nil {
		return "", err
	}
	return u.Role, nil
}
