package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
)

const userColumns = "id, email, password_hash, name_first, name_last, handle, permission, reset_code"

// CreateUser stores a new user and assigns the next sequential id
func (s *Storage) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (email, password_hash, name_first, name_last, handle, permission, reset_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.NameFirst,
		user.NameLast,
		user.Handle,
		user.Permission,
		user.ResetCode,
	)
	if err != nil {
		if strings.Contains(err.Error(), "users.email") {
			return 0, storage.ErrEmailTaken
		}
		if strings.Contains(err.Error(), "users.handle") {
			return 0, storage.ErrHandleTaken
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return id, nil
}

func (s *Storage) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE " + where

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.NameFirst,
		&user.NameLast,
		&user.Handle,
		&user.Permission,
		&user.ResetCode,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by id
func (s *Storage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	return s.getUser(ctx, "id = ?", userID)
}

// GetUserByEmail retrieves a user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByHandle retrieves a user by handle
func (s *Storage) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	return s.getUser(ctx, "handle = ?", handle)
}

// GetUserByResetCode retrieves the user holding an active reset code
func (s *Storage) GetUserByResetCode(ctx context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, storage.ErrUserNotFound
	}
	return s.getUser(ctx, "reset_code = ?", code)
}

// UpdateUser updates every mutable field of the user record
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = ?, password_hash = ?, name_first = ?, name_last = ?, handle = ?, permission = ?, reset_code = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.NameFirst,
		user.NameLast,
		user.Handle,
		user.Permission,
		user.ResetCode,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

// ListUsers returns all users ordered by id ascending
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.NameFirst,
			&user.NameLast,
			&user.Handle,
			&user.Permission,
			&user.ResetCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// CountUsers returns the number of registered users
func (s *Storage) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
