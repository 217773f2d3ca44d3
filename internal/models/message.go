package models

// ReactLike is the only reaction kind the frontend knows about. The data
// model supports more kinds but validation hard-codes this one.
const ReactLike int64 = 1

// Reaction maps one reaction kind to the set of users who reacted with it.
type Reaction struct {
	UserIDs []int64
	ReactID int64
}

// Message represents a message record. A message is never physically
// deleted; removing it blanks the text so ids stay stable.
type Message struct {
	Text      string
	Reactions []Reaction
	ID        int64
	ChannelID int64
	AuthorID  int64
	CreatedAt int64 // unix seconds; for deferred sends this is the delivery time
	IsPinned  bool
}

// Removed reports whether the message has been logically deleted.
func (m *Message) Removed() bool {
	return m.Text == ""
}

// ReactedBy reports whether the user has an active reaction of the given
// kind on the message.
func (m *Message) ReactedBy(userID, reactID int64) bool {
	for _, r := range m.Reactions {
		if r.ReactID != reactID {
			continue
		}
		for _, id := range r.UserIDs {
			if id == userID {
				return true
			}
		}
	}
	return false
}
