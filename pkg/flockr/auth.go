package flockr

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flockr-dev/flockr/internal/crypto"
	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
	"github.com/flockr-dev/flockr/internal/validation"
	"github.com/flockr-dev/flockr/pkg/api"
)

// Register creates a user account and logs it in. The very first account
// registered becomes the flockr owner; everyone after it is a plain member.
// The handle is derived from the lowercased concatenation of the names,
// truncated to the handle limit and numbered until unique.
func (s *Service) Register(ctx context.Context, email, password, nameFirst, nameLast string) (api.Auth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.ValidateEmail(email); err != nil {
		return api.Auth{}, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return api.Auth{}, fmt.Errorf("email %s is already registered: %w", email, ErrInvalidInput)
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return api.Auth{}, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return api.Auth{}, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if err := validation.ValidateName(nameFirst); err != nil {
		return api.Auth{}, fmt.Errorf("first name: %v: %w", err, ErrInvalidInput)
	}
	if err := validation.ValidateName(nameLast); err != nil {
		return api.Auth{}, fmt.Errorf("last name: %v: %w", err, ErrInvalidInput)
	}

	handle, err := s.generateHandle(ctx, nameFirst, nameLast)
	if err != nil {
		return api.Auth{}, err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return api.Auth{}, err
	}

	permission := models.PermissionMember
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return api.Auth{}, err
	}
	if count == 0 {
		permission = models.PermissionOwner
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		NameFirst:    nameFirst,
		NameLast:     nameLast,
		Handle:       handle,
		Permission:   permission,
	}
	userID, err := s.store.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) || errors.Is(err, storage.ErrHandleTaken) {
			return api.Auth{}, fmt.Errorf("%v: %w", err, ErrInvalidInput)
		}
		return api.Auth{}, err
	}

	token, err := s.issueToken(ctx, userID)
	if err != nil {
		return api.Auth{}, err
	}

	s.logger.Info("user registered", "user_id", userID, "handle", handle)
	return api.Auth{Token: token, UserID: userID}, nil
}

// Login authenticates by email and password and issues a fresh token.
// Each login gets its own session, so concurrent logins from several
// devices log out independently.
func (s *Service) Login(ctx context.Context, email, password string) (api.Auth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.ValidateEmail(email); err != nil {
		return api.Auth{}, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return api.Auth{}, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return api.Auth{}, fmt.Errorf("email %s does not belong to a user: %w", email, ErrInvalidInput)
		}
		return api.Auth{}, err
	}

	if err := crypto.VerifyPassword(password, user.PasswordHash); err != nil {
		return api.Auth{}, fmt.Errorf("incorrect password: %w", ErrInvalidInput)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return api.Auth{}, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return api.Auth{Token: token, UserID: user.ID}, nil
}

// Logout invalidates the session behind the token. The returned flag
// reports whether a live session was actually ended.
func (s *Service) Logout(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return false, nil
	}
	if err := s.store.DeleteSession(ctx, claims.SessionID); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info("user logged out", "user_id", claims.UserID)
	return true, nil
}

// PasswordResetRequest stores a single-use reset code against the account
// and returns it for delivery. Sending the code (email or otherwise) is the
// caller's concern; requesting again replaces any earlier code.
func (s *Service) PasswordResetRequest(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", fmt.Errorf("email %s does not belong to a user: %w", email, ErrInvalidInput)
		}
		return "", err
	}

	code := uuid.NewString()
	user.ResetCode = code
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("password reset requested", "user_id", user.ID)
	return code, nil
}

// PasswordReset consumes a reset code and sets the new password. A used
// code cannot be replayed.
func (s *Service) PasswordReset(ctx context.Context, code, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code == "" {
		return fmt.Errorf("reset code is not valid: %w", ErrInvalidInput)
	}
	user, err := s.store.GetUserByResetCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("reset code is not valid: %w", ErrInvalidInput)
		}
		return err
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetCode = ""
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}

func (s *Service) issueToken(ctx context.Context, userID int64) (string, error) {
	token, sessionID, err := s.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	session := &models.Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// generateHandle builds the default handle for a new account. When the base
// handle is taken, a counter is appended; the base shrinks as the counter
// grows so the result never exceeds the handle limit.
func (s *Service) generateHandle(ctx context.Context, nameFirst, nameLast string) (string, error) {
	base := strings.ToLower(nameFirst + nameLast)
	if len(base) > validation.MaxHandleLen {
		base = base[:validation.MaxHandleLen]
	}

	handle := base
	for n := 0; ; n++ {
		_, err := s.store.GetUserByHandle(ctx, handle)
		if errors.Is(err, storage.ErrUserNotFound) {
			return handle, nil
		}
		if err != nil {
			return "", err
		}

		suffix := strconv.Itoa(n)
		keep := validation.MaxHandleLen - len(suffix)
		if keep > len(base) {
			keep = len(base)
		}
		handle = base[:keep] + suffix
	}
}
