package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/citypulse/internal/storage"
)

func TestEnableRequiresAuthenticatedUser(t *testing.T) {
	env := newTestEnv(t, nil)

	assert.False(t, env.biometrics.EnableForCurrentUser(context.Background()))
	_, ok := env.biometrics.LinkedEmail(context.Background())
	assert.False(t, ok)
}

func TestEnableLinksCurrentAccount(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.session.RegisterUser(ctx, "Alice", "Alice@X.Com", "pw1")

	require.True(t, env.biometrics.EnableForCurrentUser(ctx))

	email, ok := env.biometrics.LinkedEmail(ctx)
	require.True(t, ok)
	assert.Equal(t, "alice@x.com", email)
	assert.True(t, env.biometrics.IsLinkedForCurrentUser(ctx))
}

func TestEnableFailsWhenWriteCannotBeVerified(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.session.RegisterUser(ctx, "Alice", "alice@x.com", "pw1")

	env.secure.FailReads = true
	assert.False(t, env.biometrics.EnableForCurrentUser(ctx))
}

func TestEnableFailsWhenWriteFails(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.session.RegisterUser(ctx, "Alice", "alice@x.com", "pw1")

	env.secure.FailWrites = true
	assert.False(t, env.biometrics.EnableForCurrentUser(ctx))
}

func TestLinkIsSingleSlot(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.session.RegisterUser(ctx, "Alice", "alice@x.com", "pw1")
	require.True(t, env.biometrics.EnableForCurrentUser(ctx))
	env.session.MockLogout(ctx)

	env.session.RegisterUser(ctx, "Bob", "bob@y.org", "pw2")
	assert.False(t, env.biometrics.IsLinkedForCurrentUser(ctx))

	// Enabling for Bob overwrites Alice's link.
	require.True(t, env.biometrics.EnableForCurrentUser(ctx))
	email, ok := env.biometrics.LinkedEmail(ctx)
	require.True(t, ok)
	assert.Equal(t, "bob@y.org", email)

	env.session.MockLogout(ctx)
	require.True(t, env.session.LoginUser(ctx, "alice@x.com", "pw1"))
	assert.False(t, env.biometrics.IsLinkedForCurrentUser(ctx))
}

func TestLoginFromLinkRestoresAccountAndFavorites(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.session.RegisterUser(ctx, "Alice", "alice@x.com", "pw1")
	env.session.ToggleFavorite(ctx, "evt1")
	require.True(t, env.biometrics.EnableForCurrentUser(ctx))
	env.session.MockLogout(ctx)

	require.True(t, env.biometrics.LoginFromLink(ctx))

	state := env.session.State()
	assert.True(t, state.IsAuthenticated)
	require.NotNil(t, state.Profile)
	assert.Equal(t, "alice@x.com", state.Profile.Email)
	assert.Equal(t, []string{"evt1"}, state.Favorites)
}

func TestLoginFromLinkFailsWithoutLink(t *testing.T) {
	env := newTestEnv(t, nil)

	assert.False(t, env.biometrics.LoginFromLink(context.Background()))
	assert.False(t, env.session.State().IsAuthenticated)
}

func TestLoginFromLinkFailsForVanishedAccount(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.session.RegisterUser(ctx, "Alice", "alice@x.com", "pw1")
	require.True(t, env.biometrics.EnableForCurrentUser(ctx))
	env.session.MockLogout(ctx)

	// The linked account no longer exists in the registry.
	require.NoError(t, env.kv.Delete(ctx, storage.UsersKey))

	assert.False(t, env.biometrics.LoginFromLink(ctx))
	assert.False(t, env.session.State().IsAuthenticated)
}

func TestLoginFromLinkFailsWhenSecureReadFails(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.session.RegisterUser(ctx, "Alice", "alice@x.com", "pw1")
	require.True(t, env.biometrics.EnableForCurrentUser(ctx))
	env.session.MockLogout(ctx)

	env.secure.FailReads = true
	assert.False(t, env.biometrics.LoginFromLink(ctx))
}

func TestDisableIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.session.RegisterUser(ctx, "Alice", "alice@x.com", "pw1")
	require.True(t, env.biometrics.EnableForCurrentUser(ctx))

	env.biometrics.Disable(ctx)
	env.biometrics.Disable(ctx)

	_, ok := env.biometrics.LinkedEmail(ctx)
	assert.False(t, ok)
	assert.False(t, env.biometrics.IsLinkedForCurrentUser(ctx))
}
