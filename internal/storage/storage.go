// Package storage defines the durable key-value contract backing the
// CityPulse account, session and favorites state. The store is
// string-keyed with opaque byte values and survives process restarts.
package storage

import (
	"context"
	"errors"
)

// Well-known durable keys. One logical entry per key; every writer
// rewrites its entry wholesale, there are no partial updates.
const (
	// SessionSnapshotKey holds the serialized session snapshot.
	SessionSnapshotKey = "citypulse:userStore:v1"

	// UsersKey holds the JSON map of normalized email to stored user.
	UsersKey = "citypulse:users:v1"

	// FavoritesKeyPrefix scopes per-user favorites entries. The full
	// key is FavoritesKeyPrefix + userID.
	FavoritesKeyPrefix = "citypulse:favorites:"
)

// ErrKeyNotFound indicates the requested key has no entry.
var ErrKeyNotFound = errors.New("key not found")

// FavoritesKey returns the durable key for a user's favorites entry.
func FavoritesKey(userID string) string {
	return FavoritesKeyPrefix + userID
}

// KV is a durable string-keyed store. Implementations must return
// ErrKeyNotFound from Get for absent keys and treat Delete of an absent
// key as a no-op.
//
// Callers in the repository layer never propagate KV failures upward:
// a failed read is handled as an absent entry and a failed write is
// best-effort. Implementations should still report errors faithfully so
// they can be logged.
type KV interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous entry.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the entry under key, if any.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}
