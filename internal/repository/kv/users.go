// Package kv implements the CityPulse repositories over the durable
// key-value store. Every repository uses the same storage shape: one
// JSON document per logical entry, rewritten wholesale on mutation.
package kv

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rs/zerolog"

	"github.com/prn-tf/citypulse/internal/domain"
	"github.com/prn-tf/citypulse/internal/repository"
	"github.com/prn-tf/citypulse/internal/storage"
)

// userRegistry implements repository.UserRegistry over storage.KV.
// The whole registry lives in a single JSON map under storage.UsersKey.
type userRegistry struct {
	store  storage.KV
	logger zerolog.Logger
}

// NewUserRegistry creates a KV-backed user registry.
func NewUserRegistry(store storage.KV, logger zerolog.Logger) repository.UserRegistry {
	return &userRegistry{
		store:  store,
		logger: logger.With().Str("repository", "users").Logger(),
	}
}

// usersMap loads the full registry map. A missing or unreadable entry
// is an empty registry; corruption is never surfaced.
func (r *userRegistry) usersMap(ctx context.Context) map[string]*domain.StoredUser {
	raw, err := r.store.Get(ctx, storage.UsersKey)
	if err != nil {
		if err != storage.ErrKeyNotFound {
			r.logger.Warn().Err(err).Msg("failed to read user map, treating as empty")
		}
		return map[string]*domain.StoredUser{}
	}

	users := map[string]*domain.StoredUser{}
	if err := json.Unmarshal(raw, &users); err != nil {
		r.logger.Warn().Err(err).Msg("corrupt user map, treating as empty")
		return map[string]*domain.StoredUser{}
	}
	return users
}

// writeUsersMap rewrites the full registry map, best-effort.
func (r *userRegistry) writeUsersMap(ctx context.Context, users map[string]*domain.StoredUser) {
	raw, err := json.Marshal(users)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to encode user map")
		return
	}
	if err := r.store.Set(ctx, storage.UsersKey, raw); err != nil {
		r.logger.Warn().Err(err).Msg("failed to persist user map")
	}
}

// Register upserts an account, preserving the existing ID when the
// normalized email is already registered.
func (r *userRegistry) Register(ctx context.Context, name, email, password string) *domain.StoredUser {
	users := r.usersMap(ctx)
	key := domain.NormalizeEmail(email)

	id := domain.MintUserID()
	if existing, ok := users[key]; ok {
		id = existing.ID
	}

	user := &domain.StoredUser{
		ID:       id,
		Name:     name,
		Email:    key,
		Password: password,
	}
	users[key] = user
	r.writeUsersMap(ctx, users)

	r.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("user registered")

	return user
}

// Authenticate verifies credentials against the stored plaintext
// password. Unknown email and wrong password are indistinguishable.
func (r *userRegistry) Authenticate(ctx context.Context, email, password string) (*domain.StoredUser, error) {
	users := r.usersMap(ctx)
	key := domain.NormalizeEmail(email)

	user, ok := users[key]
	if !ok {
		r.logger.Debug().Str("email", key).Msg("unknown email during authentication")
		return nil, domain.ErrInvalidCredentials
	}
	if user.Password != password {
		r.logger.Debug().Str("email", key).Msg("password mismatch during authentication")
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// GetByEmail returns the account for a normalized email.
func (r *userRegistry) GetByEmail(ctx context.Context, email string) (*domain.StoredUser, error) {
	users := r.usersMap(ctx)
	user, ok := users[domain.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

// List returns all registered accounts, ordered by email.
func (r *userRegistry) List(ctx context.Context) []*domain.StoredUser {
	users := r.usersMap(ctx)

	out := make([]*domain.StoredUser, 0, len(users))
	for _, u := range users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}
