package flockr

import (
	"context"
	"fmt"
	"time"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/validation"
)

// MessageSend posts a message to a channel the caller belongs to (the
// flockr owner may post anywhere) and returns its id. Ids are assigned in
// send order across all channels and never reused, removal included.
func (s *Service) MessageSend(ctx context.Context, token string, channelID int64, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return 0, err
	}
	if err := validation.ValidateMessageLen(text); err != nil {
		return 0, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	ch, err := s.channel(ctx, channelID)
	if err != nil {
		return 0, err
	}
	if !ch.HasMember(caller.ID) && !caller.IsFlockrOwner() {
		return 0, fmt.Errorf("caller is not a member of channel %d: %w", channelID, ErrAccessDenied)
	}
	if text == "" {
		return 0, fmt.Errorf("message is empty: %w", ErrInvalidInput)
	}

	msg := &models.Message{
		ChannelID: channelID,
		AuthorID:  caller.ID,
		Text:      text,
		CreatedAt: time.Now().Unix(),
		Reactions: likeOnly(),
	}
	messageID, err := s.store.CreateMessage(ctx, msg)
	if err != nil {
		return 0, err
	}

	s.logger.Debug("message sent", "message_id", messageID, "channel_id", channelID, "by", caller.ID)
	return messageID, nil
}

// MessageSendLater reserves a message id now and delivers the text at
// timeSent (unix seconds, which must be in the future). Until delivery the
// message is invisible to history, search, edits and reactions, but its id
// keeps its place in the global send order. Delivery is unconditional: the
// author leaving the channel in the meantime does not cancel it.
func (s *Service) MessageSendLater(ctx context.Context, token string, channelID int64, text string, timeSent int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return 0, err
	}
	now := time.Now().Unix()
	ch, err := s.channel(ctx, channelID)
	if err != nil {
		return 0, err
	}
	if err := validation.ValidateMessageLen(text); err != nil {
		return 0, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if timeSent < now {
		return 0, fmt.Errorf("send time %d is in the past: %w", timeSent, ErrInvalidInput)
	}
	if !ch.HasMember(caller.ID) {
		return 0, fmt.Errorf("caller is not a member of channel %d: %w", channelID, ErrAccessDenied)
	}

	// The row is created blank and filled in at delivery time; blank rows
	// read as nonexistent everywhere else.
	msg := &models.Message{
		ChannelID: channelID,
		AuthorID:  caller.ID,
		CreatedAt: timeSent,
		Reactions: likeOnly(),
	}
	messageID, err := s.store.CreateMessage(ctx, msg)
	if err != nil {
		return 0, err
	}

	s.sched.Schedule(time.Duration(timeSent-now)*time.Second, func() {
		s.deliverLater(messageID, channelID, text, timeSent)
	})

	s.logger.Debug("message scheduled", "message_id", messageID, "channel_id", channelID, "time_sent", timeSent)
	return messageID, nil
}

// deliverLater fills in a reserved message at its send time. If the row is
// gone or no longer the one the timer was armed for (the store was cleared
// and the id reassigned), the delivery is dropped.
func (s *Service) deliverLater(messageID, channelID int64, text string, timeSent int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	m, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		s.logger.Warn("deferred message vanished before delivery", "message_id", messageID)
		return
	}
	if !m.Removed() || m.ChannelID != channelID || m.CreatedAt != timeSent {
		s.logger.Warn("deferred message no longer matches its reservation", "message_id", messageID)
		return
	}

	if err := s.store.UpdateText(ctx, messageID, text); err != nil {
		s.logger.Error("deliver deferred message", "message_id", messageID, "error", err)
		return
	}
	s.logger.Debug("deferred message delivered", "message_id", messageID, "channel_id", channelID)
}

// MessageEdit replaces a message's text. Permitted to the author, a channel
// owner, or the flockr owner. Editing to the empty string removes the
// message.
func (s *Service) MessageEdit(ctx context.Context, token string, messageID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	m, err := s.activeMessage(ctx, messageID)
	if err != nil {
		return err
	}
	ok, err := s.canModifyMessage(ctx, caller, m)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("caller may not edit message %d: %w", messageID, ErrAccessDenied)
	}
	if err := validation.ValidateMessageLen(text); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	return s.store.UpdateText(ctx, messageID, text)
}

// MessageRemove removes a message under the same permission rule as
// MessageEdit. The id stays retired; pagination and search skip the row.
func (s *Service) MessageRemove(ctx context.Context, token string, messageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	m, err := s.activeMessage(ctx, messageID)
	if err != nil {
		return err
	}
	ok, err := s.canModifyMessage(ctx, caller, m)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("caller may not remove message %d: %w", messageID, ErrAccessDenied)
	}

	return s.store.UpdateText(ctx, messageID, "")
}

// MessageReact records the caller's reaction on a message in a channel they
// belong to. Every failure here is input trouble, double-reacting included.
func (s *Service) MessageReact(ctx context.Context, token string, messageID, reactID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	m, err := s.reactableMessage(ctx, caller.ID, messageID, reactID)
	if err != nil {
		return err
	}
	if m.ReactedBy(caller.ID, reactID) {
		return fmt.Errorf("caller already reacted to message %d: %w", messageID, ErrInvalidInput)
	}

	return s.store.AddReactor(ctx, messageID, reactID, caller.ID)
}

// MessageUnreact withdraws the caller's reaction.
func (s *Service) MessageUnreact(ctx context.Context, token string, messageID, reactID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	m, err := s.reactableMessage(ctx, caller.ID, messageID, reactID)
	if err != nil {
		return err
	}
	if !m.ReactedBy(caller.ID, reactID) {
		return fmt.Errorf("caller has not reacted to message %d: %w", messageID, ErrInvalidInput)
	}

	return s.store.RemoveReactor(ctx, messageID, reactID, caller.ID)
}

// reactableMessage checks the shared react/unreact preconditions: the
// message exists and is not removed, the caller belongs to its channel, and
// the reaction kind is supported.
func (s *Service) reactableMessage(ctx context.Context, callerID, messageID, reactID int64) (*models.Message, error) {
	m, err := s.activeMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	member, err := s.store.IsMember(ctx, m.ChannelID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("caller is not a member of message %d's channel: %w", messageID, ErrInvalidInput)
	}
	if reactID != models.ReactLike {
		return nil, fmt.Errorf("react %d is not a valid reaction: %w", reactID, ErrInvalidInput)
	}
	return m, nil
}

// MessagePin marks a message as pinned. The caller must both belong to the
// message's channel and own it; the flockr owner gets no shortcut here.
func (s *Service) MessagePin(ctx context.Context, token string, messageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	m, err := s.activeMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if m.IsPinned {
		return fmt.Errorf("message %d is already pinned: %w", messageID, ErrInvalidInput)
	}
	if err := s.requireMemberOwner(ctx, caller.ID, m.ChannelID); err != nil {
		return err
	}

	return s.store.SetPinned(ctx, messageID, true)
}

// MessageUnpin clears a message's pinned mark under the same rule as
// MessagePin.
func (s *Service) MessageUnpin(ctx context.Context, token string, messageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	m, err := s.activeMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if !m.IsPinned {
		return fmt.Errorf("message %d is not pinned: %w", messageID, ErrInvalidInput)
	}
	if err := s.requireMemberOwner(ctx, caller.ID, m.ChannelID); err != nil {
		return err
	}

	return s.store.SetPinned(ctx, messageID, false)
}

func (s *Service) requireMemberOwner(ctx context.Context, callerID, channelID int64) error {
	ch, err := s.store.GetChannel(ctx, channelID)
	if err != nil {
		return err
	}
	if !ch.HasMember(callerID) {
		return fmt.Errorf("caller is not a member of channel %d: %w", channelID, ErrAccessDenied)
	}
	if !ch.HasOwner(callerID) {
		return fmt.Errorf("caller does not own channel %d: %w", channelID, ErrAccessDenied)
	}
	return nil
}
