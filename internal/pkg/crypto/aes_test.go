package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealerRoundTrip(t *testing.T) {
	key := DeriveKey("device-secret", "test-salt")
	sealer, err := NewSealer(key)
	require.NoError(t, err)

	sealed, err := sealer.SealString("alice@x.com")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "alice")

	opened, err := sealer.OpenString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", opened)
}

func TestSealerRejectsShortKey(t *testing.T) {
	_, err := NewSealer([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	sealer, err := NewSealer(DeriveKey("device-secret", "test-salt"))
	require.NoError(t, err)

	sealed, err := sealer.SealString("alice@x.com")
	require.NoError(t, err)

	_, err = sealer.OpenString("x" + sealed[1:])
	assert.Error(t, err)
}

func TestOpenRejectsGarbage(t *testing.T) {
	sealer, err := NewSealer(DeriveKey("device-secret", "test-salt"))
	require.NoError(t, err)

	_, err = sealer.Open("not base64!!!")
	assert.Error(t, err)

	_, err = sealer.Open("c2hvcnQ=")
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestDeriveKeyIsDeterministicPerSalt(t *testing.T) {
	a := DeriveKey("device-secret", "salt-a")
	b := DeriveKey("device-secret", "salt-a")
	c := DeriveKey("device-secret", "salt-b")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, KeySize)
}
