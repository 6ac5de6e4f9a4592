package store

import (
	"context"

	"github.com/aicms/aicms-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// UpsertGoogleUser inserts user, or if a user with the same email
	// exists, refreshes its last login and (for Google sign-ups) its Google
	// ID. The stored row is returned either way.
	UpsertGoogleUser(ctx context.Context, user *domain.User) (*domain.User, error)

	// GetByPublicID retrieves a non-deleted user by public ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByPublicID(ctx context.Context, publicID string) (*domain.User, error)

	// GetByEmail retrieves a non-deleted user by email.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
