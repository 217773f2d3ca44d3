// Package memory implements storage.Storage with plain maps guarded by a
// single RWMutex. This is the default backend: the system keeps all state in
// volatile process memory, and one lock is the serialization point the
// deferred-delivery timers rely on.
package memory

import (
	"context"
	"sync"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
)

// Storage is the in-memory backend
type Storage struct {
	users    map[int64]*models.User
	channels map[int64]*models.Channel
	messages map[int64]*models.Message
	sessions map[string]*models.Session

	// monotonic id counters; container size is not used so blanked or
	// removed entries can never cause id reuse
	userSeq    int64
	channelSeq int64
	messageSeq int64

	mu sync.RWMutex
}

var _ storage.Storage = (*Storage)(nil)

// New creates an empty in-memory storage
func New() *Storage {
	s := &Storage{}
	s.reset()
	return s
}

func (s *Storage) reset() {
	s.users = make(map[int64]*models.User)
	s.channels = make(map[int64]*models.Channel)
	s.messages = make(map[int64]*models.Message)
	s.sessions = make(map[string]*models.Session)
	s.userSeq = 0
	s.channelSeq = 0
	s.messageSeq = 0
}

// Reset wipes every store and restarts id assignment
func (s *Storage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

// Close is a no-op for the memory backend
func (s *Storage) Close() error {
	return nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneChannel(ch *models.Channel) *models.Channel {
	c := *ch
	c.Members = append([]int64(nil), ch.Members...)
	c.Owners = append([]int64(nil), ch.Owners...)
	if ch.Standup != nil {
		st := *ch.Standup
		c.Standup = &st
	}
	return &c
}

func cloneMessage(m *models.Message) *models.Message {
	c := *m
	c.Reactions = make([]models.Reaction, len(m.Reactions))
	for i, r := range m.Reactions {
		c.Reactions[i] = models.Reaction{
			ReactID: r.ReactID,
			UserIDs: append([]int64(nil), r.UserIDs...),
		}
	}
	return &c
}
