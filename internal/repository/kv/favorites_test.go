package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/citypulse/internal/domain"
	"github.com/prn-tf/citypulse/internal/storage"
	"github.com/prn-tf/citypulse/internal/storage/memory"
)

func TestFavoritesRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoritesRepository(memory.New(), zerolog.Nop())

	assert.Empty(t, repo.Load(ctx, "u_1"))

	repo.Save(ctx, "u_1", []string{"evt1", "evt2"})
	assert.Equal(t, []string{"evt1", "evt2"}, repo.Load(ctx, "u_1"))
}

func TestFavoritesAreScopedPerIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoritesRepository(memory.New(), zerolog.Nop())

	repo.Save(ctx, "u_1", []string{"evt1"})
	repo.Save(ctx, domain.GuestID, []string{"evt9"})

	assert.Equal(t, []string{"evt1"}, repo.Load(ctx, "u_1"))
	assert.Equal(t, []string{"evt9"}, repo.Load(ctx, domain.GuestID))
	assert.Empty(t, repo.Load(ctx, "u_2"))
}

func TestCorruptFavoritesTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Set(ctx, storage.FavoritesKey("u_1"), []byte(`{"not":"a list"}`)))

	repo := NewFavoritesRepository(store, zerolog.Nop())
	got := repo.Load(ctx, "u_1")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFailedFavoritesReadTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.FailReads = true
	store.Err = errors.New("backend down")

	repo := NewFavoritesRepository(store, zerolog.Nop())
	got := repo.Load(ctx, "u_1")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFavoritesSaveIsBestEffort(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.FailWrites = true
	store.Err = errors.New("backend down")

	repo := NewFavoritesRepository(store, zerolog.Nop())

	// Must not panic or surface the failure.
	repo.Save(ctx, "u_1", []string{"evt1"})
}

func TestFavoritesNilSavedAsEmptyList(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewFavoritesRepository(store, zerolog.Nop())

	repo.Save(ctx, "u_1", nil)

	raw, err := store.Get(ctx, storage.FavoritesKey("u_1"))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}
