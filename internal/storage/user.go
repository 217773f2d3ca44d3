package storage

import (
	"context"

	"github.com/flockr-dev/flockr/internal/models"
)

// UserStorage defines the interface for user records (the identity store)
type UserStorage interface {
	// CreateUser stores a new user and assigns the next sequential id.
	// Ids are never reused. Returns ErrEmailTaken or ErrHandleTaken on a
	// uniqueness violation.
	CreateUser(ctx context.Context, user *models.User) (int64, error)

	// GetUserByID retrieves a user by id
	// Returns ErrUserNotFound if the user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// GetUserByEmail retrieves a user by email
	// Returns ErrUserNotFound if no user registered the email
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByHandle retrieves a user by handle
	// Returns ErrUserNotFound if no user holds the handle
	GetUserByHandle(ctx context.Context, handle string) (*models.User, error)

	// GetUserByResetCode retrieves the user holding an active reset code
	// Returns ErrUserNotFound if no user holds the code
	GetUserByResetCode(ctx context.Context, code string) (*models.User, error)

	// UpdateUser updates every mutable field of the user record
	// Returns ErrUserNotFound if the user doesn't exist
	UpdateUser(ctx context.Context, user *models.User) error

	// ListUsers returns all users ordered by id ascending
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CountUsers returns the number of registered users
	CountUsers(ctx context.Context) (int64, error)
}
