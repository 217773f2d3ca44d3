package flockr_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flockr-dev/flockr/pkg/flockr"
)

func TestStandup_FullCycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	auths := registerN(t, svc, 2)
	a, b := auths[0], auths[1]
	ch := createChannel(t, svc, a.Token, "general", true)
	require.NoError(t, svc.ChannelJoin(ctx, b.Token, ch))

	finish, err := svc.StandupStart(ctx, a.Token, ch, 1)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Unix()+1, finish, 1)

	status, err := svc.StandupActive(ctx, b.Token, ch)
	require.NoError(t, err)
	assert.True(t, status.IsActive)
	require.NotNil(t, status.TimeFinish)
	assert.Equal(t, finish, *status.TimeFinish)

	require.NoError(t, svc.StandupSend(ctx, a.Token, ch, "shipped the parser"))
	require.NoError(t, svc.StandupSend(ctx, b.Token, ch, "reviewing it"))

	// contributions stay buffered while the window is open
	page, err := svc.ChannelMessages(ctx, a.Token, ch, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)

	require.Eventually(t, func() bool {
		p, err := svc.ChannelMessages(ctx, a.Token, ch, 0)
		return err == nil && len(p.Messages) == 1
	}, 4*time.Second, 50*time.Millisecond)

	page, err = svc.ChannelMessages(ctx, a.Token, ch, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	summary := page.Messages[0]
	// one message, authored by the starter, timestamped at the deadline
	assert.Equal(t, a.UserID, summary.UserID)
	assert.Equal(t, finish, summary.TimeCreated)
	assert.Equal(t, "first0last0: shipped the parser\nfirst1last1: reviewing it\n", summary.Text)

	status, err = svc.StandupActive(ctx, a.Token, ch)
	require.NoError(t, err)
	assert.False(t, status.IsActive)
}

func TestStandup_EmptyBufferPostsNothing(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := register(t, svc, "ada@example.com", "Ada", "Lovelace")
	ch := createChannel(t, svc, a.Token, "general", true)

	_, err := svc.StandupStart(ctx, a.Token, ch, 1)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err := svc.StandupActive(ctx, a.Token, ch)
		return err == nil && !status.IsActive
	}, 4*time.Second, 50*time.Millisecond)

	page, err := svc.ChannelMessages(ctx, a.Token, ch, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
}

func TestStandupStart_Failures(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	auths := registerN(t, svc, 2)
	a, b := auths[0], auths[1]
	ch := createChannel(t, svc, a.Token, "general", true)

	_, err := svc.StandupStart(ctx, a.Token, 999, 60)
	assert.ErrorIs(t, err, flockr.ErrInvalidInput)
	_, err = svc.StandupStart(ctx, b.Token, ch, 60)
	assert.ErrorIs(t, err, flockr.ErrAccessDenied)

	_, err = svc.StandupStart(ctx, a.Token, ch, 60)
	require.NoError(t, err)
	// only one standup per channel at a time
	_, err = svc.StandupStart(ctx, a.Token, ch, 60)
	assert.ErrorIs(t, err, flockr.ErrInvalidInput)
}

func TestStandup_ChannelsRunIndependently(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := register(t, svc, "ada@example.com", "Ada", "Lovelace")
	ch1 := createChannel(t, svc, a.Token, "one", true)
	ch2 := createChannel(t, svc, a.Token, "two", true)

	_, err := svc.StandupStart(ctx, a.Token, ch1, 60)
	require.NoError(t, err)
	_, err = svc.StandupStart(ctx, a.Token, ch2, 60)
	assert.NoError(t, err)
}

func TestStandupActive_NeverStarted(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := register(t, svc, "ada@example.com", "Ada", "Lovelace")
	ch := createChannel(t, svc, a.Token, "general", true)

	status, err := svc.StandupActive(ctx, a.Token, ch)
	require.NoError(t, err)
	assert.False(t, status.IsActive)
	assert.Nil(t, status.TimeFinish)

	_, err = svc.StandupActive(ctx, a.Token, 999)
	assert.ErrorIs(t, err, flockr.ErrInvalidInput)
}

func TestStandupSend_Failures(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	auths := registerN(t, svc, 2)
	a, b := auths[0], auths[1]
	ch := createChannel(t, svc, a.Token, "general", true)

	// no standup running
	assert.ErrorIs(t, svc.StandupSend(ctx, a.Token, ch, "hi"), flockr.ErrInvalidInput)

	_, err := svc.StandupStart(ctx, a.Token, ch, 60)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.StandupSend(ctx, a.Token, 999, "hi"), flockr.ErrInvalidInput)
	assert.ErrorIs(t, svc.StandupSend(ctx, b.Token, ch, "hi"), flockr.ErrAccessDenied)
	assert.ErrorIs(t, svc.StandupSend(ctx, a.Token, ch, strings.Repeat("x", 1001)), flockr.ErrInvalidInput)
}
