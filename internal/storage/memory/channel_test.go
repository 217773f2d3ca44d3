package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flockr-dev/flockr/internal/models"
	"github.com/flockr-dev/flockr/internal/storage"
)

func createTestChannel(t *testing.T, s *Storage, creatorID int64) int64 {
	t.Helper()
	id, err := s.CreateChannel(context.Background(), &models.Channel{
		Name:     "general",
		IsPublic: true,
		Members:  []int64{creatorID},
		Owners:   []int64{creatorID},
	})
	require.NoError(t, err)
	return id
}

func TestCreateChannel(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := createTestChannel(t, s, 1)
	second := createTestChannel(t, s, 1)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)

	ch, err := s.GetChannel(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "general", ch.Name)
	assert.Equal(t, []int64{1}, ch.Members)
	assert.Equal(t, []int64{1}, ch.Owners)

	_, err = s.GetChannel(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrChannelNotFound)

	channels, err := s.ListChannels(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, first, channels[0].ID)
	assert.Equal(t, second, channels[1].ID)
}

func TestMembership(t *testing.T) {
	ctx := context.Background()
	s := New()
	ch := createTestChannel(t, s, 1)

	require.NoError(t, s.AddMember(ctx, ch, 2))
	// idempotent
	require.NoError(t, s.AddMember(ctx, ch, 2))

	got, err := s.GetChannel(ctx, ch)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got.Members)

	member, err := s.IsMember(ctx, ch, 2)
	require.NoError(t, err)
	assert.True(t, member)
	owner, err := s.IsOwner(ctx, ch, 2)
	require.NoError(t, err)
	assert.False(t, owner)

	require.NoError(t, s.RemoveMember(ctx, ch, 2))
	member, err = s.IsMember(ctx, ch, 2)
	require.NoError(t, err)
	assert.False(t, member)

	assert.ErrorIs(t, s.AddMember(ctx, 999, 2), storage.ErrChannelNotFound)
}

func TestRemoveMember_DropsOwnership(t *testing.T) {
	ctx := context.Background()
	s := New()
	ch := createTestChannel(t, s, 1)
	require.NoError(t, s.AddOwner(ctx, ch, 2))

	require.NoError(t, s.RemoveMember(ctx, ch, 2))

	got, err := s.GetChannel(ctx, ch)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, got.Members)
	assert.Equal(t, []int64{1}, got.Owners)
}

func TestAddOwner_AddsMembership(t *testing.T) {
	ctx := context.Background()
	s := New()
	ch := createTestChannel(t, s, 1)

	// user 2 was never a member; promotion brings them in
	require.NoError(t, s.AddOwner(ctx, ch, 2))

	got, err := s.GetChannel(ctx, ch)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got.Members)
	assert.Equal(t, []int64{1, 2}, got.Owners)

	// idempotent
	require.NoError(t, s.AddOwner(ctx, ch, 2))
	got, err = s.GetChannel(ctx, ch)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got.Owners)
}

func TestRemoveOwner_KeepsMembership(t *testing.T) {
	ctx := context.Background()
	s := New()
	ch := createTestChannel(t, s, 1)
	require.NoError(t, s.AddOwner(ctx, ch, 2))

	require.NoError(t, s.RemoveOwner(ctx, ch, 2))

	got, err := s.GetChannel(ctx, ch)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got.Members)
	assert.Equal(t, []int64{1}, got.Owners)
}

func TestStandupLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	ch := createTestChannel(t, s, 1)

	_, err := s.GetStandup(ctx, ch)
	assert.ErrorIs(t, err, storage.ErrNoStandup)
	assert.ErrorIs(t, s.AppendStandup(ctx, ch, "line\n"), storage.ErrNoStandup)
	_, err = s.TakeStandup(ctx, ch)
	assert.ErrorIs(t, err, storage.ErrNoStandup)

	require.NoError(t, s.SetStandup(ctx, ch, &models.Standup{StarterID: 1, Finish: 12345}))
	require.NoError(t, s.AppendStandup(ctx, ch, "alice: hi\n"))
	require.NoError(t, s.AppendStandup(ctx, ch, "bob: hey\n"))

	st, err := s.GetStandup(ctx, ch)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.StarterID)
	assert.Equal(t, int64(12345), st.Finish)
	assert.Equal(t, "alice: hi\nbob: hey\n", st.Buffer)

	taken, err := s.TakeStandup(ctx, ch)
	require.NoError(t, err)
	assert.Equal(t, "alice: hi\nbob: hey\n", taken.Buffer)

	// cleared after take
	_, err = s.GetStandup(ctx, ch)
	assert.ErrorIs(t, err, storage.ErrNoStandup)

	assert.ErrorIs(t, s.SetStandup(ctx, 999, &models.Standup{}), storage.ErrChannelNotFound)
}
