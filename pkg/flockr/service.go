// Package flockr is the channel membership and message lifecycle core of
// the flockr backend: who belongs to which channel, who owns what, how
// messages are created, edited, removed, reacted to and pinned, and how the
// time-delayed operations (send-later, standup aggregation) are scheduled.
//
// The package is the boundary an external request layer calls into. Every
// operation takes the caller's token, resolves it before any other
// validation, performs all checks, and only then mutates state — an
// operation either fully succeeds or leaves nothing changed. Expected
// failures are ErrInvalidInput or ErrAccessDenied, nothing else.
package flockr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flockr-dev/flockr/internal/auth"
	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/scheduler"
	"github.com/flockr-dev/flockr/internal/storage"
	"github.com/flockr-dev/flockr/pkg/api"
)

// Config carries the façade's tunables
type Config struct {
	// JWTSecret signs access tokens. When empty a random per-process secret
	// is generated, which suits the volatile store: nothing outlives the
	// process anyway.
	JWTSecret string

	// AccessTokenTTL bounds token lifetime. Zero means tokens live until
	// logout.
	AccessTokenTTL time.Duration
}

// Service is the façade over the identity, channel and message stores.
// A single mutex serializes every operation, including the deferred
// deliveries fired by the scheduler, so no caller ever observes a
// partially-applied mutation.
type Service struct {
	store  storage.Storage
	tokens *auth.Service
	sched  *scheduler.Scheduler
	logger *slog.Logger
	mu     sync.Mutex
}

// New creates the façade on top of the given storage backend.
// A nil logger discards output.
func New(store storage.Storage, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.New().String()
	}

	return &Service{
		store:  store,
		tokens: auth.New(secret, cfg.AccessTokenTTL),
		sched:  scheduler.New(logger),
		logger: logger,
	}
}

// Close cancels pending deferred deliveries, waits for any that are
// mid-flight, and releases the backend.
func (s *Service) Close() error {
	s.sched.Stop()
	return s.store.Close()
}

// resolveToken maps the caller's token to their user record. It runs before
// any other validation in every operation, so an invalid token always
// yields ErrAccessDenied regardless of the other arguments.
func (s *Service) resolveToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", ErrAccessDenied)
	}

	if _, err := s.store.GetSession(ctx, claims.SessionID); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, fmt.Errorf("token is no longer valid: %w", ErrAccessDenied)
		}
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("token user no longer exists: %w", ErrAccessDenied)
		}
		return nil, err
	}
	return user, nil
}

// channel fetches a channel, mapping an unknown id to ErrInvalidInput.
func (s *Service) channel(ctx context.Context, channelID int64) (*models.Channel, error) {
	ch, err := s.store.GetChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, storage.ErrChannelNotFound) {
			return nil, fmt.Errorf("channel %d does not exist: %w", channelID, ErrInvalidInput)
		}
		return nil, err
	}
	return ch, nil
}

// user fetches a user, mapping an unknown id to ErrInvalidInput.
func (s *Service) user(ctx context.Context, userID int64) (*models.User, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("user %d does not exist: %w", userID, ErrInvalidInput)
		}
		return nil, err
	}
	return u, nil
}

// activeMessage fetches a message, treating blanked (removed) rows the same
// as ids that were never assigned.
func (s *Service) activeMessage(ctx context.Context, messageID int64) (*models.Message, error) {
	m, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			return nil, fmt.Errorf("message %d does not exist: %w", messageID, ErrInvalidInput)
		}
		return nil, err
	}
	if m.Removed() {
		return nil, fmt.Errorf("message %d does not exist: %w", messageID, ErrInvalidInput)
	}
	return m, nil
}

// canModifyMessage reports whether the caller may edit or remove the
// message: its author, an owner of its channel, or the flockr owner.
func (s *Service) canModifyMessage(ctx context.Context, caller *models.User, m *models.Message) (bool, error) {
	if m.AuthorID == caller.ID || caller.IsFlockrOwner() {
		return true, nil
	}
	return s.store.IsOwner(ctx, m.ChannelID, caller.ID)
}

// memberViews joins the user records behind a list of member ids.
func (s *Service) memberViews(ctx context.Context, userIDs []int64) ([]api.Member, error) {
	members := make([]api.Member, 0, len(userIDs))
	for _, id := range userIDs {
		u, err := s.store.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		members = append(members, api.Member{
			UserID:    u.ID,
			NameFirst: u.NameFirst,
			NameLast:  u.NameLast,
		})
	}
	return members, nil
}

// messageView renders a message for a particular caller, computing the
// per-caller reacted flag on each reaction kind.
func messageView(m *models.Message, callerID int64) api.Message {
	reacts := make([]api.React, 0, len(m.Reactions))
	for _, r := range m.Reactions {
		reacts = append(reacts, api.React{
			ReactID:           r.ReactID,
			UserIDs:           append([]int64{}, r.UserIDs...),
			IsThisUserReacted: m.ReactedBy(callerID, r.ReactID),
		})
	}
	return api.Message{
		MessageID:   m.ID,
		UserID:      m.AuthorID,
		Text:        m.Text,
		TimeCreated: m.CreatedAt,
		Reacts:      reacts,
		IsPinned:    m.IsPinned,
	}
}

func userView(u *models.User) api.User {
	return api.User{
		UserID:    u.ID,
		Email:     u.Email,
		NameFirst: u.NameFirst,
		NameLast:  u.NameLast,
		Handle:    u.Handle,
	}
}

// likeOnly is the reaction set every new message starts with: the single
// supported kind, no reactors.
func likeOnly() []models.Reaction {
	return []models.Reaction{{ReactID: models.ReactLike}}
}
