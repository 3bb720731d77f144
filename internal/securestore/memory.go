package securestore

import (
	"context"
	"sync"
)

// Memory implements Store in memory, for tests and ephemeral runs.
type Memory struct {
	mu    sync.Mutex
	value string
	set   bool

	// FailReads and FailWrites force the corresponding operations to
	// return Err, so callers' verification and swallow paths can be
	// exercised.
	FailReads  bool
	FailWrites bool
	Err        error
}

// NewMemory creates an empty in-memory secure store.
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns the stored value, or ErrEmpty if none is set.
func (m *Memory) Get(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailReads {
		return "", m.Err
	}
	if !m.set {
		return "", ErrEmpty
	}
	return m.value, nil
}

// Set replaces the stored value.
func (m *Memory) Set(ctx context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return m.Err
	}
	m.value = value
	m.set = true
	return nil
}

// Delete clears the slot.
func (m *Memory) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return m.Err
	}
	m.value = ""
	m.set = false
	return nil
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
