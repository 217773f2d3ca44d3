package storage

import (
	"context"

	"github.com/flockr-dev/flockr/internal/models"
)

// ChannelStorage defines the interface for channel records (the channel
// registry). All membership mutations keep the invariant that owners are a
// subset of members.
type ChannelStorage interface {
	// CreateChannel stores a new channel and assigns the next sequential id.
	// The Members and Owners sets are stored as given (the creator is
	// expected to be in both).
	CreateChannel(ctx context.Context, channel *models.Channel) (int64, error)

	// GetChannel retrieves a channel with its member and owner sets in join
	// order. Returns ErrChannelNotFound if the channel doesn't exist.
	GetChannel(ctx context.Context, channelID int64) (*models.Channel, error)

	// ListChannels returns all channels ordered by id ascending
	ListChannels(ctx context.Context) ([]*models.Channel, error)

	// AddMember adds the user to the channel's member set. Idempotent.
	// Returns ErrChannelNotFound if the channel doesn't exist.
	AddMember(ctx context.Context, channelID, userID int64) error

	// RemoveMember removes the user from the member set, and from the owner
	// set if present
	RemoveMember(ctx context.Context, channelID, userID int64) error

	// AddOwner adds the user to the owner set, adding membership first if
	// missing. Idempotent.
	AddOwner(ctx context.Context, channelID, userID int64) error

	// RemoveOwner removes the user from the owner set only; membership is
	// kept
	RemoveOwner(ctx context.Context, channelID, userID int64) error

	// IsMember reports whether the user is in the channel's member set
	IsMember(ctx context.Context, channelID, userID int64) (bool, error)

	// IsOwner reports whether the user is in the channel's owner set
	IsOwner(ctx context.Context, channelID, userID int64) (bool, error)

	// SetStandup records a standup window for the channel, replacing any
	// previous state
	SetStandup(ctx context.Context, channelID int64, standup *models.Standup) error

	// GetStandup returns the channel's standup state, or ErrNoStandup when
	// none is recorded
	GetStandup(ctx context.Context, channelID int64) (*models.Standup, error)

	// AppendStandup appends a formatted line to the standup buffer
	// Returns ErrNoStandup when no standup is recorded
	AppendStandup(ctx context.Context, channelID int64, line string) error

	// TakeStandup returns the standup state and clears it atomically
	// Returns ErrNoStandup when no standup is recorded
	TakeStandup(ctx context.Context, channelID int64) (*models.Standup, error)
}
