package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
)

// SaveSession stores a new session
func (s *Storage) SaveSession(ctx context.Context, session *models.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET user_id = excluded.user_id, created_at = excluded.created_at`,
		session.ID, session.UserID, session.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by id
func (s *Storage) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	sess := &models.Session{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_at FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&sess.ID, &sess.UserID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sess.CreatedAt = time.Unix(createdAt, 0)
	return sess, nil
}

// DeleteSession deletes a session by id
func (s *Storage) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrSessionNotFound
	}
	return nil
}
