// Package integration provides end-to-end tests for the CityPulse
// store over its real durable backends.
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/citypulse/internal/domain"
	"github.com/prn-tf/citypulse/internal/platform"
	"github.com/prn-tf/citypulse/internal/repository/kv"
	"github.com/prn-tf/citypulse/internal/securestore"
	"github.com/prn-tf/citypulse/internal/service"
	"github.com/prn-tf/citypulse/internal/storage/sqlite"
)

// stack is one "process": services wired over the on-disk backends.
type stack struct {
	session    *service.SessionService
	biometrics *service.BiometricService
	close      func()
}

// openStack boots the full stack over the given data directory.
// Opening a second stack on the same directory simulates an app
// restart.
func openStack(t *testing.T, dataDir string) *stack {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()

	store, err := sqlite.New(ctx, sqlite.DefaultConfig(filepath.Join(dataDir, "citypulse.db")), logger)
	require.NoError(t, err)

	secure, err := securestore.NewSealedFile(filepath.Join(dataDir, "biometric.sealed"), "device-secret", logger)
	require.NoError(t, err)

	users := kv.NewUserRegistry(store, logger)
	session := service.NewSessionService(service.SessionConfig{
		Users:     users,
		Favorites: kv.NewFavoritesRepository(store, logger),
		Snapshots: kv.NewSnapshotStore(store, logger),
		Direction: platform.NewLoggedDirection(logger),
		Restarter: platform.NoopRestarter{},
		Logger:    logger,
	})
	session.Load(ctx)

	return &stack{
		session:    session,
		biometrics: service.NewBiometricService(secure, users, session, logger),
		close:      func() { store.Close() },
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	app := openStack(t, dataDir)
	app.session.RegisterUser(ctx, "Alice", "alice@x.com", "pw1")
	app.session.ToggleFavorite(ctx, "evt1")
	app.session.ToggleFavorite(ctx, "evt2")
	require.NoError(t, app.session.SetLanguage(ctx, domain.LanguageArabic))
	app.close()

	restarted := openStack(t, dataDir)
	defer restarted.close()

	state := restarted.session.State()
	assert.True(t, state.IsAuthenticated)
	require.NotNil(t, state.Profile)
	assert.Equal(t, "alice@x.com", state.Profile.Email)
	assert.Equal(t, domain.LanguageArabic, state.Language)
	assert.Equal(t, []string{"evt1", "evt2"}, state.Favorites)
}

func TestBiometricLinkSurvivesRestart(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	app := openStack(t, dataDir)
	app.session.RegisterUser(ctx, "Alice", "alice@x.com", "pw1")
	app.session.ToggleFavorite(ctx, "evt1")
	require.True(t, app.biometrics.EnableForCurrentUser(ctx))
	app.session.MockLogout(ctx)
	app.close()

	restarted := openStack(t, dataDir)
	defer restarted.close()

	require.True(t, restarted.biometrics.LoginFromLink(ctx))
	state := restarted.session.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, []string{"evt1"}, state.Favorites)
}

func TestAccountsAreSharedAcrossRestarts(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	app := openStack(t, dataDir)
	app.session.RegisterUser(ctx, "Alice", "alice@x.com", "pw1")
	app.session.MockLogout(ctx)
	app.session.RegisterUser(ctx, "Bob", "bob@y.org", "pw2")
	app.session.MockLogout(ctx)
	app.close()

	restarted := openStack(t, dataDir)
	defer restarted.close()

	assert.False(t, restarted.session.LoginUser(ctx, "alice@x.com", "wrong"))
	assert.True(t, restarted.session.LoginUser(ctx, "alice@x.com", "pw1"))
	assert.Equal(t, "Alice", restarted.session.State().Profile.Name)
}
