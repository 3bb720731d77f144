package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// deriveIterations is the PBKDF2 iteration count for key derivation.
// The derived key protects a device-local slot, not a remote secret, so
// the count favors startup latency over brute-force hardness.
const deriveIterations = 64 * 1024

// DeriveKey stretches a device secret into a 32-byte sealing key using
// PBKDF2-SHA256. The salt namespaces the key per store instance. This
// derives storage keys only; user passwords are never hashed here.
func DeriveKey(secret, salt string) []byte {
	return pbkdf2.Key([]byte(secret), []byte(salt), deriveIterations, KeySize, sha256.New)
}
