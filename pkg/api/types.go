// Package api holds the result types returned across the façade boundary.
// The transport layer that sits in front of the core (out of this module's
// scope) marshals these as-is; the json tags follow the wire names the
// frontend expects.
package api

// Auth is returned by register and login
type Auth struct {
	Token  string `json:"token"`
	UserID int64  `json:"u_id"`
}

// User is the public profile of a registered user
type User struct {
	Email     string `json:"email"`
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
	Handle    string `json:"handle_str"`
	UserID    int64  `json:"u_id"`
}

// Member is a user's display entry in a channel's member or owner list
type Member struct {
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
	UserID    int64  `json:"u_id"`
}

// ChannelSummary is a channel's listing entry
type ChannelSummary struct {
	Name      string `json:"name"`
	ChannelID int64  `json:"channel_id"`
}

// ChannelDetails describes one channel's membership
type ChannelDetails struct {
	Name         string   `json:"name"`
	OwnerMembers []Member `json:"owner_members"`
	AllMembers   []Member `json:"all_members"`
}

// React is one reaction kind on a message, with a per-caller flag
type React struct {
	UserIDs           []int64 `json:"u_ids"`
	ReactID           int64   `json:"react_id"`
	IsThisUserReacted bool    `json:"is_this_user_reacted"`
}

// Message is a message as seen by a particular caller
type Message struct {
	Text        string  `json:"message"`
	Reacts      []React `json:"reacts"`
	MessageID   int64   `json:"message_id"`
	UserID      int64   `json:"u_id"`
	TimeCreated int64   `json:"time_created"`
	IsPinned    bool    `json:"is_pinned"`
}

// MessagesPage is one page of a channel's history, most recent first.
// End is -1 when there is no further page to load.
type MessagesPage struct {
	Messages []Message `json:"messages"`
	Start    int       `json:"start"`
	End      int       `json:"end"`
}

// StandupStatus reports whether a standup is running in a channel.
// TimeFinish is nil when no standup state exists.
type StandupStatus struct {
	TimeFinish *int64 `json:"time_finish"`
	IsActive   bool   `json:"is_active"`
}
