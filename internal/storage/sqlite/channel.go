package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
)

// CreateChannel stores a new channel and assigns the next sequential id
func (s *Storage) CreateChannel(ctx context.Context, channel *models.Channel) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO channels (name, is_public) VALUES (?, ?)",
		channel.Name, channel.IsPublic,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert channel: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read channel id: %w", err)
	}

	for _, userID := range channel.Members {
		isOwner := false
		for _, ownerID := range channel.Owners {
			if ownerID == userID {
				isOwner = true
				break
			}
		}
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO channel_members (channel_id, user_id, is_owner) VALUES (?, ?, ?)",
			id, userID, isOwner,
		); err != nil {
			return 0, fmt.Errorf("failed to insert channel member: %w", err)
		}
	}

	return id, nil
}

// GetChannel retrieves a channel with member and owner sets in join order
func (s *Storage) GetChannel(ctx context.Context, channelID int64) (*models.Channel, error) {
	query := `
		SELECT id, name, is_public, standup_finish, standup_starter, standup_buffer
		FROM channels
		WHERE id = ?
	`

	ch := &models.Channel{}
	var finish, starter sql.NullInt64
	var buffer string

	err := s.db.QueryRowContext(ctx, query, channelID).Scan(
		&ch.ID,
		&ch.Name,
		&ch.IsPublic,
		&finish,
		&starter,
		&buffer,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	if finish.Valid {
		ch.Standup = &models.Standup{
			Finish:    finish.Int64,
			StarterID: starter.Int64,
			Buffer:    buffer,
		}
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, is_owner FROM channel_members WHERE channel_id = ? ORDER BY rowid",
		channelID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var isOwner bool
		if err := rows.Scan(&userID, &isOwner); err != nil {
			return nil, fmt.Errorf("failed to scan channel member: %w", err)
		}
		ch.Members = append(ch.Members, userID)
		if isOwner {
			ch.Owners = append(ch.Owners, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate channel members: %w", err)
	}

	return ch, nil
}

// ListChannels returns all channels ordered by id ascending
func (s *Storage) ListChannels(ctx context.Context) ([]*models.Channel, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM channels ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan channel id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate channels: %w", err)
	}
	rows.Close()

	channels := make([]*models.Channel, 0, len(ids))
	for _, id := range ids {
		ch, err := s.GetChannel(ctx, id)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

func (s *Storage) channelExists(ctx context.Context, channelID int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM channels WHERE id = ?", channelID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrChannelNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check channel: %w", err)
	}
	return nil
}

// AddMember adds the user to the channel's member set. Idempotent.
func (s *Storage) AddMember(ctx context.Context, channelID, userID int64) error {
	if err := s.channelExists(ctx, channelID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO channel_members (channel_id, user_id, is_owner) VALUES (?, ?, 0)
		 ON CONFLICT (channel_id, user_id) DO NOTHING`,
		channelID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember removes the user from the member set and the owner set
func (s *Storage) RemoveMember(ctx context.Context, channelID, userID int64) error {
	if err := s.channelExists(ctx, channelID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM channel_members WHERE channel_id = ? AND user_id = ?",
		channelID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// AddOwner adds the user to the owner set, adding membership first if
// missing. Idempotent.
func (s *Storage) AddOwner(ctx context.Context, channelID, userID int64) error {
	if err := s.channelExists(ctx, channelID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO channel_members (channel_id, user_id, is_owner) VALUES (?, ?, 1)
		 ON CONFLICT (channel_id, user_id) DO UPDATE SET is_owner = 1`,
		channelID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add owner: %w", err)
	}
	return nil
}

// RemoveOwner removes the user from the owner set only
func (s *Storage) RemoveOwner(ctx context.Context, channelID, userID int64) error {
	if err := s.channelExists(ctx, channelID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE channel_members SET is_owner = 0 WHERE channel_id = ? AND user_id = ?",
		channelID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove owner: %w", err)
	}
	return nil
}

// IsMember reports whether the user is in the channel's member set
func (s *Storage) IsMember(ctx context.Context, channelID, userID int64) (bool, error) {
	if err := s.channelExists(ctx, channelID); err != nil {
		return false, err
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM channel_members WHERE channel_id = ? AND user_id = ?",
		channelID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

// IsOwner reports whether the user is in the channel's owner set
func (s *Storage) IsOwner(ctx context.Context, channelID, userID int64) (bool, error) {
	if err := s.channelExists(ctx, channelID); err != nil {
		return false, err
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM channel_members WHERE channel_id = ? AND user_id = ? AND is_owner = 1",
		channelID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check ownership: %w", err)
	}
	return true, nil
}

// SetStandup records a standup window for the channel
func (s *Storage) SetStandup(ctx context.Context, channelID int64, standup *models.Standup) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE channels SET standup_finish = ?, standup_starter = ?, standup_buffer = ? WHERE id = ?",
		standup.Finish, standup.StarterID, standup.Buffer, channelID,
	)
	if err != nil {
		return fmt.Errorf("failed to set standup: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrChannelNotFound
	}
	return nil
}

// GetStandup returns the channel's standup state
func (s *Storage) GetStandup(ctx context.Context, channelID int64) (*models.Standup, error) {
	ch, err := s.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch.Standup == nil {
		return nil, storage.ErrNoStandup
	}
	return ch.Standup, nil
}

// AppendStandup appends a formatted line to the standup buffer
func (s *Storage) AppendStandup(ctx context.Context, channelID int64, line string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE channels SET standup_buffer = standup_buffer || ? WHERE id = ? AND standup_finish IS NOT NULL",
		line, channelID,
	)
	if err != nil {
		return fmt.Errorf("failed to append standup line: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		if err := s.channelExists(ctx, channelID); err != nil {
			return err
		}
		return storage.ErrNoStandup
	}
	return nil
}

// TakeStandup returns the standup state and clears it atomically
func (s *Storage) TakeStandup(ctx context.Context, channelID int64) (*models.Standup, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var finish, starter sql.NullInt64
	var buffer string
	err = tx.QueryRowContext(ctx,
		"SELECT standup_finish, standup_starter, standup_buffer FROM channels WHERE id = ?",
		channelID,
	).Scan(&finish, &starter, &buffer)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrChannelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get standup: %w", err)
	}
	if !finish.Valid {
		return nil, storage.ErrNoStandup
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE channels SET standup_finish = NULL, standup_starter = NULL, standup_buffer = '' WHERE id = ?",
		channelID,
	); err != nil {
		return nil, fmt.Errorf("failed to clear standup: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return &models.Standup{
		Finish:    finish.Int64,
		StarterID: starter.Int64,
		Buffer:    buffer,
	}, nil
}
