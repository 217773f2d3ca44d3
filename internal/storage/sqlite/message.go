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

// CreateMessage stores a new message and assigns the next sequential id
func (s *Storage) CreateMessage(ctx context.Context, message *models.Message) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (channel_id, author_id, text, created_at, is_pinned) VALUES (?, ?, ?, ?, ?)",
		message.ChannelID, message.AuthorID, message.Text, message.CreatedAt, message.IsPinned,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read message id: %w", err)
	}

	for _, r := range message.Reactions {
		for _, userID := range r.UserIDs {
			if _, err := s.db.ExecContext(ctx,
				"INSERT INTO message_reacts (message_id, react_id, user_id) VALUES (?, ?, ?)",
				id, r.ReactID, userID,
			); err != nil {
				return 0, fmt.Errorf("failed to insert reaction: %w", err)
			}
		}
	}

	return id, nil
}

func (s *Storage) loadReactions(ctx context.Context, messageID int64) ([]models.Reaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT react_id, user_id FROM message_reacts WHERE message_id = ? ORDER BY rowid",
		messageID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get reactions: %w", err)
	}
	defer rows.Close()

	// The single supported kind is always present, even with no reactors,
	// mirroring how the memory backend initializes messages.
	reactions := []models.Reaction{{ReactID: models.ReactLike}}
	byID := map[int64]int{models.ReactLike: 0}

	for rows.Next() {
		var reactID, userID int64
		if err := rows.Scan(&reactID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		i, ok := byID[reactID]
		if !ok {
			reactions = append(reactions, models.Reaction{ReactID: reactID})
			i = len(reactions) - 1
			byID[reactID] = i
		}
		reactions[i].UserIDs = append(reactions[i].UserIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reactions: %w", err)
	}
	return reactions, nil
}

// GetMessage retrieves a message by id, blanked or not
func (s *Storage) GetMessage(ctx context.Context, messageID int64) (*models.Message, error) {
	query := `
		SELECT id, channel_id, author_id, text, created_at, is_pinned
		FROM messages
		WHERE id = ?
	`

	m := &models.Message{}
	err := s.db.QueryRowContext(ctx, query, messageID).Scan(
		&m.ID,
		&m.ChannelID,
		&m.AuthorID,
		&m.Text,
		&m.CreatedAt,
		&m.IsPinned,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	m.Reactions, err = s.loadReactions(ctx, messageID)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateText replaces the message text
func (s *Storage) UpdateText(ctx context.Context, messageID int64, text string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE messages SET text = ? WHERE id = ?", text, messageID)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrMessageNotFound
	}
	return nil
}

// SetPinned sets the pin flag
func (s *Storage) SetPinned(ctx context.Context, messageID int64, pinned bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE messages SET is_pinned = ? WHERE id = ?", pinned, messageID)
	if err != nil {
		return fmt.Errorf("failed to update pin flag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrMessageNotFound
	}
	return nil
}

// AddReactor adds the user to the reactor set of the given kind
func (s *Storage) AddReactor(ctx context.Context, messageID, reactID, userID int64) error {
	if _, err := s.GetMessage(ctx, messageID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO message_reacts (message_id, react_id, user_id) VALUES (?, ?, ?)
		 ON CONFLICT (message_id, react_id, user_id) DO NOTHING`,
		messageID, reactID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

// RemoveReactor removes the user from the reactor set of the given kind
func (s *Storage) RemoveReactor(ctx context.Context, messageID, reactID, userID int64) error {
	if _, err := s.GetMessage(ctx, messageID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM message_reacts WHERE message_id = ? AND react_id = ? AND user_id = ?",
		messageID, reactID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove reaction: %w", err)
	}
	return nil
}

func (s *Storage) queryMessages(ctx context.Context, query string, args ...any) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(
			&m.ID,
			&m.ChannelID,
			&m.AuthorID,
			&m.Text,
			&m.CreatedAt,
			&m.IsPinned,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	rows.Close()

	for _, m := range messages {
		m.Reactions, err = s.loadReactions(ctx, m.ID)
		if err != nil {
			return nil, err
		}
	}
	return messages, nil
}

// ListChannelMessages returns the channel's non-blank messages ordered by
// creation time ascending
func (s *Storage) ListChannelMessages(ctx context.Context, channelID int64) ([]*models.Message, error) {
	query := `
		SELECT id, channel_id, author_id, text, created_at, is_pinned
		FROM messages
		WHERE channel_id = ? AND text != ''
		ORDER BY created_at, id
	`
	return s.queryMessages(ctx, query, channelID)
}

// SearchMessages returns non-blank messages in the given channels whose text
// contains the query substring. The substring match runs in Go so its
// semantics stay identical to the memory backend's.
func (s *Storage) SearchMessages(ctx context.Context, channelIDs []int64, query string) ([]*models.Message, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(channelIDs)-1) + "?"
	args := make([]any, len(channelIDs))
	for i, id := range channelIDs {
		args[i] = id
	}

	sqlQuery := `
		SELECT id, channel_id, author_id, text, created_at, is_pinned
		FROM messages
		WHERE channel_id IN (` + placeholders + `) AND text != ''
		ORDER BY id
	`
	candidates, err := s.queryMessages(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}

	var messages []*models.Message
	for _, m := range candidates {
		if strings.Contains(m.Text, query) {
			messages = append(messages, m)
		}
	}
	return messages, nil
}
