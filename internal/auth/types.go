package auth

import (
	"context"
	"time"
)

// RoleAdmin grants unconditional bypass of all tool gating.
const RoleAdmin = "admin"

// Profile is an account row. PasswordHash never leaves this package.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileStore describes the persistence operations the auth service needs.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p *Profile) error
	FindProfile(ctx context.Context, id string) (*Profile, error)
	FindProfileByEmail(ctx context.Context, email string) (*Profile, error)
	RolesForUser(ctx context.Context, userID string) ([]string, error)
}
