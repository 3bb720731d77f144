// Package securestore holds the single sensitive value backing the
// biometric link: the normalized email of the account eligible for fast
// login on this device. The contract mirrors an OS keychain slot:
// one value, get/set/delete, protected at rest.
package securestore

import (
	"context"
	"errors"
)

// ErrEmpty indicates the secure slot holds no value.
var ErrEmpty = errors.New("secure store is empty")

// Store is a single-slot secure value store.
type Store interface {
	// Get returns the stored value, or ErrEmpty if none is set.
	Get(ctx context.Context) (string, error)

	// Set replaces the stored value.
	Set(ctx context.Context, value string) error

	// Delete clears the slot. Deleting an empty slot is a no-op.
	Delete(ctx context.Context) error
}
