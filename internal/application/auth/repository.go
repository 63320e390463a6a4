package auth

import (
	"context"
	"time"

	"github.com/rezkam/listor/internal/domain"
)

// Repository defines storage operations for user accounts.
type Repository interface {
	// CreateUser creates a new user account.
	// Returns domain.ErrEmailTaken if the email is already registered.
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindUserByID retrieves a user by ID.
	// Returns domain.ErrUserNotFound if no account exists.
	FindUserByID(ctx context.Context, id string) (*domain.User, error)

	// FindUserByEmail retrieves a user by normalized email.
	// Returns domain.ErrUserNotFound if no account exists.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateLastActive updates the last active timestamp for a user.
	UpdateLastActive(ctx context.Context, userID string, timestamp time.Time) error

	// UpdateAvatarURL sets or clears a user's avatar URL.
	UpdateAvatarURL(ctx context.Context, userID string, avatarURL *string) error
}
