package storage

import (
	"context"

	"github.com/flockr-dev/flockr/internal/models"
)

// MessageStorage defines the interface for message records. Blanked
// (removed) messages stay in storage so ids are never reused; the listing
// and search operations skip them, while GetMessage returns them raw so the
// caller decides how a blank row is treated.
type MessageStorage interface {
	// CreateMessage stores a new message and assigns the next sequential
	// id (global across all channels)
	CreateMessage(ctx context.Context, message *models.Message) (int64, error)

	// GetMessage retrieves a message by id, blanked or not
	// Returns ErrMessageNotFound if the id was never assigned
	GetMessage(ctx context.Context, messageID int64) (*models.Message, error)

	// UpdateText replaces the message text. Setting the empty string blanks
	// the message, which is how removal works.
	UpdateText(ctx context.Context, messageID int64, text string) error

	// SetPinned sets the pin flag
	SetPinned(ctx context.Context, messageID int64, pinned bool) error

	// AddReactor adds the user to the reactor set of the given kind
	AddReactor(ctx context.Context, messageID, reactID, userID int64) error

	// RemoveReactor removes the user from the reactor set of the given kind
	RemoveReactor(ctx context.Context, messageID, reactID, userID int64) error

	// ListChannelMessages returns the channel's non-blank messages ordered
	// by creation time ascending (id ascending on ties)
	ListChannelMessages(ctx context.Context, channelID int64) ([]*models.Message, error)

	// SearchMessages returns non-blank messages in the given channels whose
	// text contains the query substring, ordered by id ascending
	SearchMessages(ctx context.Context, channelIDs []int64, query string) ([]*models.Message, error)
}
