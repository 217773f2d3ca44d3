package memory

import (
	"context"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
)

// SaveSession stores a new session
func (s *Storage) SaveSession(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *session
	s.sessions[c.ID] = &c
	return nil
}

// GetSession retrieves a session by id
func (s *Storage) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, storage.ErrSessionNotFound
	}
	c := *sess
	return &c, nil
}

// DeleteSession deletes a session by id
func (s *Storage) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return storage.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}
