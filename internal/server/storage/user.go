package storage

import (
	"context"

	"github.com/antonk9218/gomarket/internal/models"
)

// UserStorage defines interface for user data persistence
// Email lookups are exact-match: the unique constraint on the raw
// email column is the source of truth for uniqueness
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if email is already taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// ExistsByEmail reports whether a user with this email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// UpdateUser updates user information
	// Returns ErrUserNotFound if user doesn't exist,
	// ErrUserAlreadyExists if the new email belongs to another user
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes user by ID
	// Returns ErrUserNotFound if user doesn't exist
	DeleteUser(ctx context.Context, userID string) error
}
