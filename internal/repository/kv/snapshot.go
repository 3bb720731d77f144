package kv

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/prn-tf/citypulse/internal/domain"
	"github.com/prn-tf/citypulse/internal/repository"
	"github.com/prn-tf/citypulse/internal/storage"
)

// snapshotStore implements repository.SnapshotStore over storage.KV.
type snapshotStore struct {
	store  storage.KV
	logger zerolog.Logger
}

// NewSnapshotStore creates a KV-backed session snapshot store.
func NewSnapshotStore(store storage.KV, logger zerolog.Logger) repository.SnapshotStore {
	return &snapshotStore{
		store:  store,
		logger: logger.With().Str("repository", "snapshot").Logger(),
	}
}

// Load returns the stored snapshot. A missing or unreadable entry
// reports found=false; the caller falls back to the default state.
func (r *snapshotStore) Load(ctx context.Context) (domain.SessionState, bool) {
	raw, err := r.store.Get(ctx, storage.SessionSnapshotKey)
	if err != nil {
		if err != storage.ErrKeyNotFound {
			r.logger.Warn().Err(err).Msg("failed to read session snapshot")
		}
		return domain.DefaultSessionState(), false
	}

	state := domain.DefaultSessionState()
	if err := json.Unmarshal(raw, &state); err != nil {
		r.logger.Warn().Err(err).Msg("corrupt session snapshot")
		return domain.DefaultSessionState(), false
	}
	if !state.Language.Valid() {
		state.Language = domain.LanguageEnglish
	}
	return state, true
}

// Save overwrites the snapshot, best-effort. Favorites are persisted
// per-user in their own slots, so the snapshot always carries an empty
// favorites list.
func (r *snapshotStore) Save(ctx context.Context, state domain.SessionState) {
	snapshot := state.Clone()
	snapshot.Favorites = []string{}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to encode session snapshot")
		return
	}
	if err := r.store.Set(ctx, storage.SessionSnapshotKey, raw); err != nil {
		r.logger.Warn().Err(err).Msg("failed to persist session snapshot")
	}
}
