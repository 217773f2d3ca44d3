package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that the user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates that another user already registered the email
	ErrEmailTaken = errors.New("email already taken")

	// ErrHandleTaken indicates that another user already holds the handle
	ErrHandleTaken = errors.New("handle already taken")

	// ErrChannelNotFound indicates that the channel was not found in storage
	ErrChannelNotFound = errors.New("channel not found")

	// ErrMessageNotFound indicates that the message was not found in storage
	ErrMessageNotFound = errors.New("message not found")

	// ErrNoStandup indicates that the channel has no standup state
	ErrNoStandup = errors.New("no active standup")

	// ErrSessionNotFound indicates that the session was not found
	ErrSessionNotFound = errors.New("session not found")
)
