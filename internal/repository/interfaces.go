// Package repository defines data access interfaces for CityPulse.
// These interfaces abstract the durable key-value store, allowing for
// different backends (SQLite, PostgreSQL, in-memory for testing) while
// keeping the service layer clean.
//
// The read contracts are deliberately lossy: a missing or corrupt entry
// is indistinguishable from an empty one, and writes are best-effort.
// The UI layer already reflects the in-memory state when a write lands,
// so a failed write degrades durability, never correctness of the
// running session. Implementations log failures instead of returning
// them.
package repository

import (
	"context"

	"github.com/prn-tf/citypulse/internal/domain"
)

// UserRegistry is the authoritative map of local accounts, keyed by
// normalized email.
type UserRegistry interface {
	// Register upserts an account. If the normalized email is already
	// registered, the existing ID is preserved and name/password are
	// overwritten; otherwise a new ID is minted. Register always
	// succeeds: the full user map rewrite is best-effort.
	Register(ctx context.Context, name, email, password string) *domain.StoredUser

	// Authenticate looks up the normalized email and compares the
	// password. Both an unknown email and a mismatch return
	// domain.ErrInvalidCredentials; callers cannot tell them apart.
	Authenticate(ctx context.Context, email, password string) (*domain.StoredUser, error)

	// GetByEmail returns the account for a normalized email, or
	// ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.StoredUser, error)

	// List returns all registered accounts.
	List(ctx context.Context) []*domain.StoredUser
}

// FavoritesRepository persists the per-identity favorites records.
// Each user ID (including domain.GuestID) owns an independent slot.
type FavoritesRepository interface {
	// Load returns the favorites for a user ID. Absent or unparsable
	// entries yield an empty list.
	Load(ctx context.Context, userID string) []string

	// Save overwrites the user's favorites slot, best-effort.
	Save(ctx context.Context, userID string, eventIDs []string)
}

// SnapshotStore persists the durable session snapshot: language,
// profile and authentication flag. Favorites are stored separately
// per-user, so the snapshot always carries an empty favorites list.
type SnapshotStore interface {
	// Load returns the stored snapshot. The second return is false
	// when no snapshot exists or it cannot be read.
	Load(ctx context.Context) (domain.SessionState, bool)

	// Save overwrites the snapshot, best-effort.
	Save(ctx context.Context, state domain.SessionState)
}
