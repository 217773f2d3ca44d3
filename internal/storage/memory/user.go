package memory

import (
	"context"
	"sort"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
)

// CreateUser stores a new user and assigns the next sequential id
func (s *Storage) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return 0, storage.ErrEmailTaken
		}
		if u.Handle == user.Handle {
			return 0, storage.ErrHandleTaken
		}
	}

	s.userSeq++
	u := cloneUser(user)
	u.ID = s.userSeq
	s.users[u.ID] = u
	return u.ID, nil
}

// GetUserByID retrieves a user by id
func (s *Storage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// GetUserByEmail retrieves a user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, storage.ErrUserNotFound
}

// GetUserByHandle retrieves a user by handle
func (s *Storage) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Handle == handle {
			return cloneUser(u), nil
		}
	}
	return nil, storage.ErrUserNotFound
}

// GetUserByResetCode retrieves the user holding an active reset code
func (s *Storage) GetUserByResetCode(ctx context.Context, code string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if code == "" {
		return nil, storage.ErrUserNotFound
	}
	for _, u := range s.users {
		if u.ResetCode == code {
			return cloneUser(u), nil
		}
	}
	return nil, storage.ErrUserNotFound
}

// UpdateUser updates every mutable field of the user record
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrUserNotFound
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

// ListUsers returns all users ordered by id ascending
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// CountUsers returns the number of registered users
func (s *Storage) CountUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}
