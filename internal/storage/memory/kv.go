// Package memory provides an in-memory KV store. State does not survive
// restarts; it exists for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/prn-tf/citypulse/internal/storage"
)

// KV implements storage.KV using an in-memory map.
type KV struct {
	mu    sync.RWMutex
	items map[string][]byte

	// FailReads and FailWrites force the corresponding operations to
	// return Err. Tests use them to exercise the degrade-to-default
	// contracts of the repository layer.
	FailReads  bool
	FailWrites bool
	Err        error
}

// New creates an empty in-memory KV store.
func New() *KV {
	return &KV{items: make(map[string][]byte)}
}

// Get returns the value stored under key.
func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailReads {
		return nil, s.Err
	}

	value, ok := s.items[key]
	if !ok {
		return nil, storage.ErrKeyNotFound
	}

	// Return a copy to prevent mutation.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores value under key, replacing any previous entry.
func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return s.Err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	s.items[key] = valueCopy
	return nil
}

// Delete removes the entry under key, if any.
func (s *KV) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return s.Err
	}

	delete(s.items, key)
	return nil
}

// Close is a no-op.
func (s *KV) Close() error {
	return nil
}

// Len returns the number of stored entries.
func (s *KV) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Ensure KV implements storage.KV.
var _ storage.KV = (*KV)(nil)
