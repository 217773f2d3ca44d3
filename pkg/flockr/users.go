package flockr

import (
	"context"
	"errors"
	"fmt"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
	"github.com/flockr-dev/flockr/internal/validation"
	"github.com/flockr-dev/flockr/pkg/api"
)

// UserProfile returns the public profile of any registered user.
func (s *Service) UserProfile(ctx context.Context, token string, userID int64) (api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.resolveToken(ctx, token); err != nil {
		return api.User{}, err
	}
	target, err := s.user(ctx, userID)
	if err != nil {
		return api.User{}, err
	}
	return userView(target), nil
}

// UserSetName updates the caller's first and last name.
func (s *Service) UserSetName(ctx context.Context, token, nameFirst, nameLast string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	if err := validation.ValidateName(nameFirst); err != nil {
		return fmt.Errorf("first name: %v: %w", err, ErrInvalidInput)
	}
	if err := validation.ValidateName(nameLast); err != nil {
		return fmt.Errorf("last name: %v: %w", err, ErrInvalidInput)
	}

	caller.NameFirst = nameFirst
	caller.NameLast = nameLast
	return s.store.UpdateUser(ctx, caller)
}

// UserSetEmail updates the caller's email. The address must not be in use
// by any account, the caller's own included.
func (s *Service) UserSetEmail(ctx context.Context, token, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return fmt.Errorf("email %s is already in use: %w", email, ErrInvalidInput)
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return err
	}

	caller.Email = email
	return s.store.UpdateUser(ctx, caller)
}

// UserSetHandle updates the caller's handle. Like UserSetEmail, the handle
// must not be held by any account, the caller's own included.
func (s *Service) UserSetHandle(ctx context.Context, token, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	if err := validation.ValidateHandle(handle); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if _, err := s.store.GetUserByHandle(ctx, handle); err == nil {
		return fmt.Errorf("handle %s is already in use: %w", handle, ErrInvalidInput)
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return err
	}

	caller.Handle = handle
	return s.store.UpdateUser(ctx, caller)
}

// UsersAll returns every registered user's profile in registration order.
func (s *Service) UsersAll(ctx context.Context, token string) ([]api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.resolveToken(ctx, token); err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]api.User, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	return views, nil
}

// AdminSetPermission changes a user's global permission level. Only the
// flockr owner may call it; the target and level are validated first, so a
// bad target reads as input trouble even to non-owners.
func (s *Service) AdminSetPermission(ctx context.Context, token string, userID int64, permission int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	target, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if !models.ValidPermission(permission) {
		return fmt.Errorf("permission %d is not a valid level: %w", permission, ErrInvalidInput)
	}
	if !caller.IsFlockrOwner() {
		return fmt.Errorf("only the flockr owner may change permissions: %w", ErrAccessDenied)
	}

	target.Permission = permission
	if err := s.store.UpdateUser(ctx, target); err != nil {
		return err
	}

	s.logger.Info("permission changed", "user_id", userID, "permission", permission, "by", caller.ID)
	return nil
}
