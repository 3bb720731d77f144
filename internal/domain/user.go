// Package domain contains the core business entities for CityPulse.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the local account and session layer.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GuestID is the reserved pseudo-identity used to scope favorites
// storage when no user is authenticated.
const GuestID = "guest"

// StoredUser represents a locally registered account.
// The registry is keyed by the normalized email; at most one StoredUser
// exists per normalized email.
type StoredUser struct {
	// ID is the stable identifier assigned once at creation.
	// Re-registering the same email preserves the existing ID.
	ID string `json:"id"`

	// Name is the display name, overwritten on re-registration.
	Name string `json:"name"`

	// Email is the normalized (trimmed, lowercased) email address.
	Email string `json:"email"`

	// Password is stored in plaintext. This is an explicit mock scheme
	// for a device-local store with no server-side identity authority;
	// it must never be treated as real authentication.
	Password string `json:"password"`
}

// NewStoredUser creates a new StoredUser with a freshly minted ID.
func NewStoredUser(name, email, password string) *StoredUser {
	return &StoredUser{
		ID:       MintUserID(),
		Name:     name,
		Email:    NormalizeEmail(email),
		Password: password,
	}
}

// Profile returns the session-visible subset of the user record.
func (u *StoredUser) Profile() *UserProfile {
	return &UserProfile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// UserProfile is the session-visible subset of a StoredUser.
// It never carries the password.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MintUserID returns a new creation-time-derived unique user ID.
// UUIDv7 embeds a millisecond timestamp, so IDs sort by creation time.
func MintUserID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the random source is exhausted.
		id = uuid.New()
	}
	return "u_" + id.String()
}

// NormalizeEmail returns the trimmed, lowercased form of an email address.
// The normalized form is the registry's identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// InferNameFromEmail derives a display name from the local part of an
// email address, upper-casing the first letter. Returns "User" when the
// local part is empty.
func InferNameFromEmail(email string) string {
	local, _, _ := strings.Cut(NormalizeEmail(email), "@")
	if local == "" {
		return "User"
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

// UserIDCreatedAt extracts the creation timestamp embedded in a minted
// user ID. Returns the zero time if the ID is not a UUIDv7 token.
func UserIDCreatedAt(id string) time.Time {
	raw, ok := strings.CutPrefix(id, "u_")
	if !ok {
		return time.Time{}
	}
	parsed, err := uuid.Parse(raw)
	if err != nil || parsed.Version() != 7 {
		return time.Time{}
	}
	sec, nsec := parsed.Time().UnixTime()
	return time.Unix(sec, nsec).UTC()
}
