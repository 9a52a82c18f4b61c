package core

import (
	"fmt"
	"strings"
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// SystemActor is recorded as the actor for writes made without a named admin.
const SystemActor = "admin"

// Caller is the identity fact supplied by the auth layer for every call.
type Caller struct {
	ID   string
	Role string
}

func (c Caller) Authenticated() bool {
	return strings.TrimSpace(c.ID) != ""
}

func (c Caller) IsAdmin() bool {
	return c.Authenticated() && c.Role == RoleAdmin
}

// RequireAuthenticated fails with ErrUnauthenticated for an empty caller.
func (c Caller) RequireAuthenticated() error {
	if !c.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// RequireAdmin fails unless the caller carries the admin role.
func (c Caller) RequireAdmin() error {
	if err := c.RequireAuthenticated(); err != nil {
		return err
	}
	if !c.IsAdmin() {
		return fmt.Errorf("admin role required: %w", ErrUnauthorized)
	}
	return nil
}

// RequireSelfOrAdmin allows a caller to act on its own resources, or an
// admin to act on anyone's.
func (c Caller) RequireSelfOrAdmin(ownerID string) error {
	if err := c.RequireAuthenticated(); err != nil {
		return err
	}
	if c.ID != ownerID && !c.IsAdmin() {
		return fmt.Errorf("cannot act for another resident: %w", ErrUnauthorized)
	}
	return nil
}

// Actor returns the identifier written into attribution fields.
func (c Caller) Actor() string {
	if c.Authenticated() {
		return c.ID
	}
	return SystemActor
}
