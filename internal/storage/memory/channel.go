package memory

import (
	"context"
	"sort"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
)

// CreateChannel stores a new channel and assigns the next sequential id
func (s *Storage) CreateChannel(ctx context.Context, channel *models.Channel) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.channelSeq++
	ch := cloneChannel(channel)
	ch.ID = s.channelSeq
	s.channels[ch.ID] = ch
	return ch.ID, nil
}

// GetChannel retrieves a channel with member and owner sets in join order
func (s *Storage) GetChannel(ctx context.Context, channelID int64) (*models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return nil, storage.ErrChannelNotFound
	}
	return cloneChannel(ch), nil
}

// ListChannels returns all channels ordered by id ascending
func (s *Storage) ListChannels(ctx context.Context) ([]*models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channels := make([]*models.Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		channels = append(channels, cloneChannel(ch))
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].ID < channels[j].ID })
	return channels, nil
}

// AddMember adds the user to the channel's member set. Idempotent.
func (s *Storage) AddMember(ctx context.Context, channelID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return storage.ErrChannelNotFound
	}
	if !ch.HasMember(userID) {
		ch.Members = append(ch.Members, userID)
	}
	return nil
}

// RemoveMember removes the user from the member set and the owner set
func (s *Storage) RemoveMember(ctx context.Context, channelID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return storage.ErrChannelNotFound
	}
	ch.Members = remove(ch.Members, userID)
	ch.Owners = remove(ch.Owners, userID)
	return nil
}

// AddOwner adds the user to the owner set, adding membership first if
// missing. Idempotent.
func (s *Storage) AddOwner(ctx context.Context, channelID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return storage.ErrChannelNotFound
	}
	if !ch.HasMember(userID) {
		ch.Members = append(ch.Members, userID)
	}
	if !ch.HasOwner(userID) {
		ch.Owners = append(ch.Owners, userID)
	}
	return nil
}

// RemoveOwner removes the user from the owner set only
func (s *Storage) RemoveOwner(ctx context.Context, channelID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return storage.ErrChannelNotFound
	}
	ch.Owners = remove(ch.Owners, userID)
	return nil
}

// IsMember reports whether the user is in the channel's member set
func (s *Storage) IsMember(ctx context.Context, channelID, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return false, storage.ErrChannelNotFound
	}
	return ch.HasMember(userID), nil
}

// IsOwner reports whether the user is in the channel's owner set
func (s *Storage) IsOwner(ctx context.Context, channelID, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return false, storage.ErrChannelNotFound
	}
	return ch.HasOwner(userID), nil
}

// SetStandup records a standup window for the channel
func (s *Storage) SetStandup(ctx context.Context, channelID int64, standup *models.Standup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return storage.ErrChannelNotFound
	}
	st := *standup
	ch.Standup = &st
	return nil
}

// GetStandup returns the channel's standup state
func (s *Storage) GetStandup(ctx context.Context, channelID int64) (*models.Standup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return nil, storage.ErrChannelNotFound
	}
	if ch.Standup == nil {
		return nil, storage.ErrNoStandup
	}
	st := *ch.Standup
	return &st, nil
}

// AppendStandup appends a formatted line to the standup buffer
func (s *Storage) AppendStandup(ctx context.Context, channelID int64, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return storage.ErrChannelNotFound
	}
	if ch.Standup == nil {
		return storage.ErrNoStandup
	}
	ch.Standup.Buffer += line
	return nil
}

// TakeStandup returns the standup state and clears it atomically
func (s *Storage) TakeStandup(ctx context.Context, channelID int64) (*models.Standup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[channelID]
	if !ok {
		return nil, storage.ErrChannelNotFound
	}
	if ch.Standup == nil {
		return nil, storage.ErrNoStandup
	}
	st := *ch.Standup
	ch.Standup = nil
	return &st, nil
}

func remove(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
