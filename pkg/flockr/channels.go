package flockr

import (
	"context"
	"fmt"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/validation"
	"github.com/flockr-dev/flockr/pkg/api"
)

// ChannelsCreate creates a channel with the caller as its sole member and
// owner, and returns the new channel's id.
func (s *Service) ChannelsCreate(ctx context.Context, token, name string, isPublic bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return 0, err
	}
	if err := validation.ValidateChannelName(name); err != nil {
		return 0, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	ch := &models.Channel{
		Name:     name,
		IsPublic: isPublic,
		Members:  []int64{caller.ID},
		Owners:   []int64{caller.ID},
	}
	channelID, err := s.store.CreateChannel(ctx, ch)
	if err != nil {
		return 0, err
	}

	s.logger.Info("channel created", "channel_id", channelID, "name", name, "public", isPublic, "by", caller.ID)
	return channelID, nil
}

// ChannelsList returns the channels the caller is a member of, in creation
// order.
func (s *Service) ChannelsList(ctx context.Context, token string) ([]api.ChannelSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	channels, err := s.store.ListChannels(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]api.ChannelSummary, 0, len(channels))
	for _, ch := range channels {
		if ch.HasMember(caller.ID) {
			summaries = append(summaries, api.ChannelSummary{ChannelID: ch.ID, Name: ch.Name})
		}
	}
	return summaries, nil
}

// ChannelsListAll returns every channel, private ones included; only ids
// and names are exposed, so this leaks no membership or content.
func (s *Service) ChannelsListAll(ctx context.Context, token string) ([]api.ChannelSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.resolveToken(ctx, token); err != nil {
		return nil, err
	}
	channels, err := s.store.ListChannels(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]api.ChannelSummary, 0, len(channels))
	for _, ch := range channels {
		summaries = append(summaries, api.ChannelSummary{ChannelID: ch.ID, Name: ch.Name})
	}
	return summaries, nil
}
