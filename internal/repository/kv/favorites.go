package kv

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/prn-tf/citypulse/internal/repository"
	"github.com/prn-tf/citypulse/internal/storage"
)

// favoritesRepository implements repository.FavoritesRepository over
// storage.KV. Each identity owns an independent slot, so switching
// identities swaps the visible set without merging.
type favoritesRepository struct {
	store  storage.KV
	logger zerolog.Logger
}

// NewFavoritesRepository creates a KV-backed favorites repository.
func NewFavoritesRepository(store storage.KV, logger zerolog.Logger) repository.FavoritesRepository {
	return &favoritesRepository{
		store:  store,
		logger: logger.With().Str("repository", "favorites").Logger(),
	}
}

// Load returns the favorites for a user ID. Absent or unparsable
// entries yield an empty list.
func (r *favoritesRepository) Load(ctx context.Context, userID string) []string {
	raw, err := r.store.Get(ctx, storage.FavoritesKey(userID))
	if err != nil {
		if err != storage.ErrKeyNotFound {
			r.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to read favorites, treating as empty")
		}
		return []string{}
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("corrupt favorites entry, treating as empty")
		return []string{}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// Save overwrites the user's favorites slot, best-effort.
func (r *favoritesRepository) Save(ctx context.Context, userID string, eventIDs []string) {
	if eventIDs == nil {
		eventIDs = []string{}
	}

	raw, err := json.Marshal(eventIDs)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to encode favorites")
		return
	}
	if err := r.store.Set(ctx, storage.FavoritesKey(userID), raw); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to persist favorites")
	}
}
