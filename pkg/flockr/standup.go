package flockr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
	"github.com/flockr-dev/flockr/internal/validation"
	"github.com/flockr-dev/flockr/pkg/api"
)

// StandupStart opens a standup window in a channel for length seconds and
// returns the finish time (unix seconds). Contributions sent during the
// window are buffered; at the deadline the buffer is posted as one message
// authored by whoever started the standup. Only one standup runs per
// channel at a time, but separate channels run independently.
func (s *Service) StandupStart(ctx context.Context, token string, channelID, length int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return 0, err
	}
	ch, err := s.channel(ctx, channelID)
	if err != nil {
		return 0, err
	}
	if !ch.HasMember(caller.ID) {
		return 0, fmt.Errorf("caller is not a member of channel %d: %w", channelID, ErrAccessDenied)
	}

	now := time.Now().Unix()
	if ch.Standup != nil && ch.Standup.Finish >= now {
		return 0, fmt.Errorf("a standup is already running in channel %d: %w", channelID, ErrInvalidInput)
	}

	finish := now + length
	standup := &models.Standup{
		StarterID: caller.ID,
		Finish:    finish,
	}
	if err := s.store.SetStandup(ctx, channelID, standup); err != nil {
		return 0, err
	}

	s.sched.Schedule(time.Duration(length)*time.Second, func() {
		s.flushStandup(channelID, finish)
	})

	s.logger.Info("standup started", "channel_id", channelID, "finish", finish, "by", caller.ID)
	return finish, nil
}

// StandupActive reports whether a standup window is open in the channel,
// and the finish time of the most recent one if any was ever started.
func (s *Service) StandupActive(ctx context.Context, token string, channelID int64) (api.StandupStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return api.StandupStatus{}, err
	}
	ch, err := s.channel(ctx, channelID)
	if err != nil {
		return api.StandupStatus{}, err
	}
	if !ch.HasMember(caller.ID) {
		return api.StandupStatus{}, fmt.Errorf("caller is not a member of channel %d: %w", channelID, ErrAccessDenied)
	}

	if ch.Standup == nil {
		return api.StandupStatus{IsActive: false}, nil
	}
	finish := ch.Standup.Finish
	return api.StandupStatus{
		IsActive:   finish >= time.Now().Unix(),
		TimeFinish: &finish,
	}, nil
}

// StandupSend buffers a contribution into the channel's open standup as a
// "handle: text" line. Buffered lines are invisible until the window
// closes.
func (s *Service) StandupSend(ctx context.Context, token string, channelID int64, text string) error {
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
	if err := validation.ValidateMessageLen(text); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if ch.Standup == nil || ch.Standup.Finish < time.Now().Unix() {
		return fmt.Errorf("no standup is running in channel %d: %w", channelID, ErrInvalidInput)
	}

	line := caller.Handle + ": " + text + "\n"
	return s.store.AppendStandup(ctx, channelID, line)
}

// flushStandup closes a standup window at its deadline: the buffered lines
// become a single message authored by the starter, timestamped at the
// finish time. An empty buffer posts nothing. The finish argument ties the
// timer to the window it was armed for, so a stale timer surviving a store
// clear (or racing a newer standup) drops out instead of flushing the wrong
// window.
func (s *Service) flushStandup(channelID, finish int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	current, err := s.store.GetStandup(ctx, channelID)
	if err != nil {
		if !errors.Is(err, storage.ErrNoStandup) && !errors.Is(err, storage.ErrChannelNotFound) {
			s.logger.Error("read standup state", "channel_id", channelID, "error", err)
		}
		return
	}
	if current.Finish != finish {
		s.logger.Debug("standup window superseded, timer dropped", "channel_id", channelID)
		return
	}

	standup, err := s.store.TakeStandup(ctx, channelID)
	if err != nil {
		s.logger.Error("take standup state", "channel_id", channelID, "error", err)
		return
	}
	if standup.Buffer == "" {
		s.logger.Debug("standup closed with empty buffer", "channel_id", channelID)
		return
	}

	msg := &models.Message{
		ChannelID: channelID,
		AuthorID:  standup.StarterID,
		Text:      standup.Buffer,
		CreatedAt: standup.Finish,
		Reactions: likeOnly(),
	}
	messageID, err := s.store.CreateMessage(ctx, msg)
	if err != nil {
		s.logger.Error("post standup summary", "channel_id", channelID, "error", err)
		return
	}
	s.logger.Info("standup summary posted", "channel_id", channelID, "message_id", messageID)
}
