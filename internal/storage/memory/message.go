package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
)

// CreateMessage stores a new message and assigns the next sequential id
func (s *Storage) CreateMessage(ctx context.Context, message *models.Message) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messageSeq++
	m := cloneMessage(message)
	m.ID = s.messageSeq
	s.messages[m.ID] = m
	return m.ID, nil
}

// GetMessage retrieves a message by id, blanked or not
func (s *Storage) GetMessage(ctx context.Context, messageID int64) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[messageID]
	if !ok {
		return nil, storage.ErrMessageNotFound
	}
	return cloneMessage(m), nil
}

// UpdateText replaces the message text
func (s *Storage) UpdateText(ctx context.Context, messageID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[messageID]
	if !ok {
		return storage.ErrMessageNotFound
	}
	m.Text = text
	return nil
}

// SetPinned sets the pin flag
func (s *Storage) SetPinned(ctx context.Context, messageID int64, pinned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[messageID]
	if !ok {
		return storage.ErrMessageNotFound
	}
	m.IsPinned = pinned
	return nil
}

// AddReactor adds the user to the reactor set of the given kind
func (s *Storage) AddReactor(ctx context.Context, messageID, reactID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[messageID]
	if !ok {
		return storage.ErrMessageNotFound
	}
	for i := range m.Reactions {
		r := &m.Reactions[i]
		if r.ReactID != reactID {
			continue
		}
		for _, id := range r.UserIDs {
			if id == userID {
				return nil
			}
		}
		r.UserIDs = append(r.UserIDs, userID)
		return nil
	}
	m.Reactions = append(m.Reactions, models.Reaction{ReactID: reactID, UserIDs: []int64{userID}})
	return nil
}

// RemoveReactor removes the user from the reactor set of the given kind
func (s *Storage) RemoveReactor(ctx context.Context, messageID, reactID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[messageID]
	if !ok {
		return storage.ErrMessageNotFound
	}
	for i := range m.Reactions {
		r := &m.Reactions[i]
		if r.ReactID == reactID {
			r.UserIDs = remove(r.UserIDs, userID)
		}
	}
	return nil
}

// ListChannelMessages returns the channel's non-blank messages ordered by
// creation time ascending
func (s *Storage) ListChannelMessages(ctx context.Context, channelID int64) ([]*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []*models.Message
	for _, m := range s.messages {
		if m.ChannelID == channelID && !m.Removed() {
			messages = append(messages, cloneMessage(m))
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt != messages[j].CreatedAt {
			return messages[i].CreatedAt < messages[j].CreatedAt
		}
		return messages[i].ID < messages[j].ID
	})
	return messages, nil
}

// SearchMessages returns non-blank messages in the given channels whose text
// contains the query substring
func (s *Storage) SearchMessages(ctx context.Context, channelIDs []int64, query string) ([]*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		members[id] = true
	}

	var messages []*models.Message
	for _, m := range s.messages {
		if !members[m.ChannelID] || m.Removed() {
			continue
		}
		if strings.Contains(m.Text, query) {
			messages = append(messages, cloneMessage(m))
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	return messages, nil
}
