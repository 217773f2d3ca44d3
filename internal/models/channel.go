package models

// Standup is the buffering window state of a channel. At most one standup is
// active per channel at any time.
type Standup struct {
	Buffer    string // accumulated "<handle>: <text>\n" lines, in send order
	StarterID int64  // user who started the standup; authors the flushed message
	Finish    int64  // unix seconds at which the buffer is flushed
}

// Channel represents a channel record. Members and Owners hold user ids in
// join order; display fields are joined from the user records at read time.
// Owners is always a subset of Members.
type Channel struct {
	Name     string
	Members  []int64
	Owners   []int64
	Standup  *Standup // nil when no standup is running
	ID       int64
	IsPublic bool
}

// HasMember reports whether the user belongs to the channel.
func (c *Channel) HasMember(userID int64) bool {
	for _, id := range c.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// HasOwner reports whether the user is an owner of the channel.
func (c *Channel) HasOwner(userID int64) bool {
	for _, id := range c.Owners {
		if id == userID {
			return true
		}
	}
	return false
}
