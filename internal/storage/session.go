package storage

import (
	"context"

	"github.com/flockr-dev/flockr/internal/models"
)

// SessionStorage defines the interface for the token-to-user binding. A
// token is only honoured while its session exists; logout deletes the
// session.
type SessionStorage interface {
	// SaveSession stores a new session
	SaveSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session by id
	// Returns ErrSessionNotFound if the session doesn't exist
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// DeleteSession deletes a session by id
	// Returns ErrSessionNotFound if the session doesn't exist
	DeleteSession(ctx context.Context, sessionID string) error
}
