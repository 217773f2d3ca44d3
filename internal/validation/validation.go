package validation

import (
	"fmt"
	"regexp"
)

// EmailPattern defines the accepted email format: a local part of lowercase
// letters and digits with an optional single dot or underscore, then a
// domain with a 2-3 character TLD.
var EmailPattern = regexp.MustCompile(`^[a-z0-9]+[._]?[a-z0-9]+@\w+\.\w{2,3}$`)

const (
	// MinPasswordLen is the minimum password length
	MinPasswordLen = 6
	// MaxNameLen is the maximum length of a first or last name
	MaxNameLen = 50
	// MinHandleLen is the minimum handle length
	MinHandleLen = 3
	// MaxHandleLen is the maximum handle length
	MaxHandleLen = 20
	// MaxChannelNameLen is the maximum channel name length
	MaxChannelNameLen = 20
	// MaxMessageLen is the maximum message text length
	MaxMessageLen = 1000
)

// ValidateEmail checks that the email matches EmailPattern.
func ValidateEmail(email string) error {
	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword checks the minimum password requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// ValidateName checks that a first or last name is 1-50 characters.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}
	return nil
}

// ValidateHandle checks that a handle is 3-20 characters. Uniqueness is the
// caller's concern.
func ValidateHandle(handle string) error {
	if len(handle) < MinHandleLen {
		return fmt.Errorf("handle must be at least %d characters long", MinHandleLen)
	}
	if len(handle) > MaxHandleLen {
		return fmt.Errorf("handle must not exceed %d characters", MaxHandleLen)
	}
	return nil
}

// ValidateChannelName checks that a channel name is at most 20 characters.
func ValidateChannelName(name string) error {
	if len(name) > MaxChannelNameLen {
		return fmt.Errorf("channel name must not exceed %d characters", MaxChannelNameLen)
	}
	return nil
}

// ValidateMessageLen checks that message text is at most 1000 characters.
// The empty string is allowed here; operations that forbid it check
// separately.
func ValidateMessageLen(text string) error {
	if len(text) > MaxMessageLen {
		return fmt.Errorf("message must not exceed %d characters", MaxMessageLen)
	}
	return nil
}
