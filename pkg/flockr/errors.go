package flockr

import "errors"

// The façade reports every expected failure as one of two kinds, wrapped
// with context at the point of the violated precondition. Callers test with
// errors.Is and map the kinds to whatever their transport uses.
var (
	// ErrInvalidInput indicates a malformed, unknown or already-in-state
	// argument: an unknown id, text over the limit, a deadline in the past,
	// a duplicate owner.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAccessDenied indicates the caller is authenticated but lacks the
	// required relationship: not a member, not an owner, not the flockr
	// owner — or the token itself no longer resolves to a user.
	ErrAccessDenied = errors.New("access denied")
)
