package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyProfileID = errors.New("profile ID cannot be empty")
	ErrInvalidRole    = errors.New("role must be one of: owner, manager, staff")
)

// Role is the access level a profile holds within its stores.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Valid reports whether the role is one of the known access levels.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleStaff:
		return true
	}
	return false
}

// Profile is the application-level record for an authenticated user,
// one-to-one with the backend identity via a matching ID. Profiles are
// fetched after authentication and never mutated by this service.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Role     Role      `json:"role"`
}

// Validate checks if the Profile has valid data.
// Returns an error if any field fails validation.
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProfileID
	}
	if !p.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}
