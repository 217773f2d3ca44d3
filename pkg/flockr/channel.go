package flockr

import (
	"context"
	"fmt"

	"github.com/flockr-dev/flockr/pkg/api"
)

// historyPageSize is how many messages ChannelMessages returns per page.
const historyPageSize = 50

// ChannelInvite adds a user to a channel on a member's behalf. Inviting
// someone who is already a member is a no-op, not an error.
func (s *Service) ChannelInvite(ctx context.Context, token string, channelID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	ch, err := s.channel(ctx, channelID)
	if err != nil {
		return err
	}
	if _, err := s.user(ctx, userID); err != nil {
		return err
	}
	if !ch.HasMember(caller.ID) {
		return fmt.Errorf("caller is not a member of channel %d: %w", channelID, ErrAccessDenied)
	}

	return s.store.AddMember(ctx, channelID, userID)
}

// ChannelDetails returns a channel's name and membership, visible to
// members only.
func (s *Service) ChannelDetails(ctx context.Context, token string, channelID int64) (api.ChannelDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return api.ChannelDetails{}, err
	}
	ch, err := s.channel(ctx, channelID)
	if err != nil {
		return api.ChannelDetails{}, err
	}
	if !ch.HasMember(caller.ID) {
		return api.ChannelDetails{}, fmt.Errorf("caller is not a member of channel %d: %w", channelID, ErrAccessDenied)
	}

	owners, err := s.memberViews(ctx, ch.Owners)
	if err != nil {
		return api.ChannelDetails{}, err
	}
	members, err := s.memberViews(ctx, ch.Members)
	if err != nil {
		return api.ChannelDetails{}, err
	}
	return api.ChannelDetails{
		Name:         ch.Name,
		OwnerMembers: owners,
		AllMembers:   members,
	}, nil
}

// ChannelMessages returns one page of a channel's history, most recent
// first, starting at offset start into the visible (non-removed) messages.
// End is start+50, or -1 when the page reaches the oldest message. An offset
// equal to the message count yields an empty final page.
func (s *Service) ChannelMessages(ctx context.Context, token string, channelID int64, start int) (api.MessagesPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return api.MessagesPage{}, err
	}
	ch, err := s.channel(ctx, channelID)
	if err != nil {
		return api.MessagesPage{}, err
	}

	history, err := s.store.ListChannelMessages(ctx, channelID)
	if err != nil {
		return api.MessagesPage{}, err
	}
	if start < 0 || start > len(history) {
		return api.MessagesPage{}, fmt.Errorf("start %d is beyond the %d messages in channel %d: %w",
			start, len(history), channelID, ErrInvalidInput)
	}
	if !ch.HasMember(caller.ID) {
		return api.MessagesPage{}, fmt.Errorf("caller is not a member of channel %d: %w", channelID, ErrAccessDenied)
	}

	// history is oldest-first; the page walks it backwards from the newest.
	page := api.MessagesPage{
		Messages: make([]api.Message, 0, historyPageSize),
		Start:    start,
		End:      start + historyPageSize,
	}
	for i := len(history) - 1 - start; i >= 0 && len(page.Messages) < historyPageSize; i-- {
		page.Messages = append(page.Messages, messageView(history[i], caller.ID))
	}
	if start+historyPageSize >= len(history) {
		page.End = -1
	}
	return page, nil
}

// ChannelLeave removes the caller from a channel. Leaving drops ownership
// of the channel too; messages the caller sent stay behind.
func (s *Service) ChannelLeave(ctx context.Context, token string, channelID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	ch, err := s.channel(ctx, channelID)
	if err != nil {
		return err
	}
	if !ch.HasMember(caller.ID) {
		return fmt.Errorf("caller is not a member of channel %d: %w", channelID, ErrAccessDenied)
	}

	return s.store.RemoveMember(ctx, channelID, caller.ID)
}

// ChannelJoin adds the caller to a public channel. The flockr owner may
// join private channels as well. Joining twice is a no-op.
func (s *Service) ChannelJoin(ctx context.Context, token string, channelID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	ch, err := s.channel(ctx, channelID)
	if err != nil {
		return err
	}
	if !ch.IsPublic && !caller.IsFlockrOwner() {
		return fmt.Errorf("channel %d is private: %w", channelID, ErrAccessDenied)
	}

	return s.store.AddMember(ctx, channelID, caller.ID)
}

// ChannelAddOwner promotes a user to channel owner. The target need not be
// a member yet; promotion adds membership. Callers must own the channel or
// be the flockr owner.
func (s *Service) ChannelAddOwner(ctx context.Context, token string, channelID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	ch, err := s.channel(ctx, channelID)
	if err != nil {
		return err
	}
	if ch.HasOwner(userID) {
		return fmt.Errorf("user %d already owns channel %d: %w", userID, channelID, ErrInvalidInput)
	}
	if _, err := s.user(ctx, userID); err != nil {
		return err
	}
	if !ch.HasOwner(caller.ID) && !caller.IsFlockrOwner() {
		return fmt.Errorf("caller does not own channel %d: %w", channelID, ErrAccessDenied)
	}

	return s.store.AddOwner(ctx, channelID, userID)
}

// ChannelRemoveOwner demotes a channel owner back to plain member.
func (s *Service) ChannelRemoveOwner(ctx context.Context, token string, channelID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	ch, err := s.channel(ctx, channelID)
	if err != nil {
		return err
	}
	if _, err := s.user(ctx, userID); err != nil {
		return err
	}
	if !ch.HasOwner(userID) {
		return fmt.Errorf("user %d does not own channel %d: %w", userID, channelID, ErrInvalidInput)
	}
	if !ch.HasOwner(caller.ID) && !caller.IsFlockrOwner() {
		return fmt.Errorf("caller does not own channel %d: %w", channelID, ErrAccessDenied)
	}

	return s.store.RemoveOwner(ctx, channelID, userID)
}
