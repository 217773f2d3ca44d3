package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
)

func newUser(email, handle string) *models.User {
	return &models.User{
		Email:        email,
		PasswordHash: "hash",
		NameFirst:    "First",
		NameLast:     "Last",
		Handle:       handle,
		Permission:   models.PermissionMember,
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := New()

	userID, err := s.CreateUser(ctx, newUser("a@example.com", "first"))
	require.NoError(t, err)
	chID, err := s.CreateChannel(ctx, &models.Channel{Name: "ch", Members: []int64{userID}, Owners: []int64{userID}})
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, &models.Message{ChannelID: chID, AuthorID: userID, Text: "hi"})
	require.NoError(t, err)
	require.NoError(t, s.SaveSession(ctx, &models.Session{ID: "sid", UserID: userID}))

	require.NoError(t, s.Reset(ctx))

	_, err = s.GetUserByID(ctx, userID)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	_, err = s.GetChannel(ctx, chID)
	assert.ErrorIs(t, err, storage.ErrChannelNotFound)
	_, err = s.GetSession(ctx, "sid")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// id assignment restarts
	id, err := s.CreateUser(ctx, newUser("b@example.com", "second"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestClonesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("a@example.com", "first")
	id, err := s.CreateUser(ctx, u)
	require.NoError(t, err)

	// mutating the fetched record must not leak into the store
	got, err := s.GetUserByID(ctx, id)
	require.NoError(t, err)
	got.Email = "tampered@example.com"

	again, err := s.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", again.Email)

	// mutating the argument after Create must not either
	u.Handle = "tampered"
	again, err = s.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first", again.Handle)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.SaveSession(ctx, &models.Session{ID: "sid-1", UserID: 1}))

	sess, err := s.GetSession(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), sess.UserID)

	require.NoError(t, s.DeleteSession(ctx, "sid-1"))
	_, err = s.GetSession(ctx, "sid-1")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	assert.ErrorIs(t, s.DeleteSession(ctx, "sid-1"), storage.ErrSessionNotFound)
}
