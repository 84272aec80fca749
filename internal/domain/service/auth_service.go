package service

import (
	"context"

	"github.com/scvp-dev/scvp/internal/domain/models"
)

// Identity is the capability a session-bearing principal exposes, decoupled
// from persistence concerns. models.User implements it.
type Identity interface {
	IsAuthenticated() bool
	IdentityKey() string
}

// AuthService defines credential and session handling
type AuthService interface {
	// Register creates a new user with a hashed password. Username
	// uniqueness is checked before the insert so callers get a
	// user-facing conflict error rather than a constraint violation.
	Register(ctx context.Context, username string, email *string, password string) (*models.User, error)

	// Login verifies credentials and issues a signed session token
	Login(ctx context.Context, username, password string) (*models.User, string, error)

	// ResolveSession maps a session token to a user. Any failure
	// (malformed, expired, or unknown user) resolves to an error and
	// the caller treats the request as anonymous.
	ResolveSession(ctx context.Context, token string) (*models.User, error)

	// CheckPassword recomputes and compares the stored hash
	CheckPassword(user *models.User, password string) bool
}
