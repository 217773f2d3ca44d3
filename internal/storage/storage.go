// Package storage defines the persistence interfaces of the flockr core:
// users, channels, messages and token sessions. Two implementations exist,
// the map-based memory backend and the sqlite backend; both are volatile by
// default, matching the system's in-process lifetime.
package storage

import "context"

// Storage is the full store surface the façade operates on.
type Storage interface {
	UserStorage
	ChannelStorage
	MessageStorage
	SessionStorage

	// Reset wipes every store and restarts id assignment. Mirrors the
	// clear() operation of the external surface.
	Reset(ctx context.Context) error

	// Close releases any resources held by the backend
	Close() error
}
