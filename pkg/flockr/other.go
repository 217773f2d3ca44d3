package flockr

import (
	"context"

	"github.com/flockr-dev/flockr/pkg/api"
)

// Search returns the caller's view of every message containing query as a
// substring, across all channels they belong to, ordered by message id.
// An empty query matches everything the caller can see.
func (s *Service) Search(ctx context.Context, token, query string) ([]api.Message, error) {
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

	var channelIDs []int64
	for _, ch := range channels {
		if ch.HasMember(caller.ID) {
			channelIDs = append(channelIDs, ch.ID)
		}
	}

	matches, err := s.store.SearchMessages(ctx, channelIDs, query)
	if err != nil {
		return nil, err
	}
	views := make([]api.Message, 0, len(matches))
	for _, m := range matches {
		views = append(views, messageView(m, caller.ID))
	}
	return views, nil
}

// Clear wipes all state: users, channels, messages, sessions, standups.
// Timers armed before the clear become no-ops. Mainly for tests and resets
// between acceptance runs.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.logger.Info("state cleared")
	return nil
}
