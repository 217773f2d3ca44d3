package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPermission(t *testing.T) {
	assert.True(t, ValidPermission(PermissionOwner))
	assert.True(t, ValidPermission(PermissionMember))
	assert.False(t, ValidPermission(0))
	assert.False(t, ValidPermission(3))
}

func TestUser_IsFlockrOwner(t *testing.T) {
	assert.True(t, (&User{Permission: PermissionOwner}).IsFlockrOwner())
	assert.False(t, (&User{Permission: PermissionMember}).IsFlockrOwner())
}

func TestChannel_Membership(t *testing.T) {
	ch := &Channel{Members: []int64{1, 2}, Owners: []int64{1}}

	assert.True(t, ch.HasMember(2))
	assert.False(t, ch.HasMember(3))
	assert.True(t, ch.HasOwner(1))
	assert.False(t, ch.HasOwner(2))
}

func TestMessage_Removed(t *testing.T) {
	assert.False(t, (&Message{Text: "hi"}).Removed())
	assert.True(t, (&Message{}).Removed())
}

func TestMessage_ReactedBy(t *testing.T) {
	m := &Message{Reactions: []Reaction{{ReactID: ReactLike, UserIDs: []int64{7}}}}

	assert.True(t, m.ReactedBy(7, ReactLike))
	assert.False(t, m.ReactedBy(8, ReactLike))
	assert.False(t, m.ReactedBy(7, 2))
}
