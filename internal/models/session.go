package models

import "time"

// Session binds an issued token to a user. Logging out deletes the session,
// which invalidates every copy of the token immediately.
type Session struct {
	ID        string // uuid, carried in the token's sid claim
	UserID    int64
	CreatedAt time.Time
}
