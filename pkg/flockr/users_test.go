package flockr_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flockr-dev/flockr/pkg/api"
	"github.com/flockr-dev/flockr/pkg/flockr"
)

func TestUserProfile(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := register(t, svc, "ada@example.com", "Ada", "Lovelace")
	b := register(t, svc, "grace@example.com", "Grace", "Hopper")

	// any user can view any other user's profile
	prof, err := svc.UserProfile(ctx, b.Token, a.UserID)
	require.NoError(t, err)
	assert.Equal(t, api.User{
		UserID:    a.UserID,
		Email:     "ada@example.com",
		NameFirst: "Ada",
		NameLast:  "Lovelace",
		Handle:    "adalovelace",
	}, prof)

	_, err = svc.UserProfile(ctx, a.Token, 999)
	assert.ErrorIs(t, err, flockr.ErrInvalidInput)

	_, err = svc.UserProfile(ctx, "bad-token", a.UserID)
	assert.ErrorIs(t, err, flockr.ErrAccessDenied)
}

func TestUserSetName(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := register(t, svc, "ada@example.com", "Ada", "Lovelace")

	require.NoError(t, svc.UserSetName(ctx, a.Token, "Augusta", "King"))

	prof, err := svc.UserProfile(ctx, a.Token, a.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", prof.NameFirst)
	assert.Equal(t, "King", prof.NameLast)
	// the handle does not follow name changes
	assert.Equal(t, "adalovelace", prof.Handle)

	assert.ErrorIs(t, svc.UserSetName(ctx, a.Token, "", "King"), flockr.ErrInvalidInput)
}

func TestUserSetEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := register(t, svc, "ada@example.com", "Ada", "Lovelace")
	register(t, svc, "grace@example.com", "Grace", "Hopper")

	require.NoError(t, svc.UserSetEmail(ctx, a.Token, "augusta@example.com"))

	prof, err := svc.UserProfile(ctx, a.Token, a.UserID)
	require.NoError(t, err)
	assert.Equal(t, "augusta@example.com", prof.Email)

	// taken by another account
	assert.ErrorIs(t, svc.UserSetEmail(ctx, a.Token, "grace@example.com"), flockr.ErrInvalidInput)
	// in-use covers the caller's own current address too
	assert.ErrorIs(t, svc.UserSetEmail(ctx, a.Token, "augusta@example.com"), flockr.ErrInvalidInput)
	assert.ErrorIs(t, svc.UserSetEmail(ctx, a.Token, "not an email"), flockr.ErrInvalidInput)
}

func TestUserSetHandle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := register(t, svc, "ada@example.com", "Ada", "Lovelace")
	register(t, svc, "grace@example.com", "Grace", "Hopper")

	require.NoError(t, svc.UserSetHandle(ctx, a.Token, "countess"))

	prof, err := svc.UserProfile(ctx, a.Token, a.UserID)
	require.NoError(t, err)
	assert.Equal(t, "countess", prof.Handle)

	assert.ErrorIs(t, svc.UserSetHandle(ctx, a.Token, "gracehopper"), flockr.ErrInvalidInput)
	assert.ErrorIs(t, svc.UserSetHandle(ctx, a.Token, "countess"), flockr.ErrInvalidInput)
	assert.ErrorIs(t, svc.UserSetHandle(ctx, a.Token, "ab"), flockr.ErrInvalidInput)
	assert.ErrorIs(t, svc.UserSetHandle(ctx, a.Token, "abcdefghijklmnopqrstu"), flockr.ErrInvalidInput)
}

func TestUsersAll(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	auths := registerN(t, svc, 3)

	users, err := svc.UsersAll(ctx, auths[2].Token)
	require.NoError(t, err)
	require.Len(t, users, 3)

	// registration order
	for i, u := range users {
		assert.Equal(t, auths[i].UserID, u.UserID)
	}
}

func TestAdminSetPermission(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	auths := registerN(t, svc, 2)
	owner, member := auths[0], auths[1]

	private := createChannel(t, svc, owner.Token, "secret", false)

	// a plain member cannot join a private channel
	err := svc.ChannelJoin(ctx, member.Token, private)
	require.ErrorIs(t, err, flockr.ErrAccessDenied)

	// promoting them to flockr owner lifts that restriction
	require.NoError(t, svc.AdminSetPermission(ctx, owner.Token, member.UserID, 1))
	require.NoError(t, svc.ChannelJoin(ctx, member.Token, private))

	// and demoting works the other way
	require.NoError(t, svc.AdminSetPermission(ctx, owner.Token, member.UserID, 2))
	private2 := createChannel(t, svc, owner.Token, "secret2", false)
	assert.ErrorIs(t, svc.ChannelJoin(ctx, member.Token, private2), flockr.ErrAccessDenied)
}

func TestAdminSetPermission_Failures(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	auths := registerN(t, svc, 2)
	owner, member := auths[0], auths[1]

	// unknown target
	assert.ErrorIs(t, svc.AdminSetPermission(ctx, owner.Token, 999, 1), flockr.ErrInvalidInput)
	// bad level
	assert.ErrorIs(t, svc.AdminSetPermission(ctx, owner.Token, member.UserID, 3), flockr.ErrInvalidInput)
	assert.ErrorIs(t, svc.AdminSetPermission(ctx, owner.Token, member.UserID, 0), flockr.ErrInvalidInput)
	// non-owner caller: target checks still come first
	assert.ErrorIs(t, svc.AdminSetPermission(ctx, member.Token, 999, 1), flockr.ErrInvalidInput)
	assert.ErrorIs(t, svc.AdminSetPermission(ctx, member.Token, owner.UserID, 1), flockr.ErrAccessDenied)
}
