package securestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/prn-tf/citypulse/internal/pkg/crypto"
)

// saltSuffix namespaces the derived key so the same device secret used
// elsewhere cannot open this slot.
const saltSuffix = ":citypulse:biometricUser"

// SealedFile implements Store by keeping the value AES-256-GCM sealed
// in a file. The sealing key is derived from a device secret, standing
// in for OS-protected storage on platforms without a keychain.
type SealedFile struct {
	path   string
	sealer *crypto.Sealer
	logger zerolog.Logger
}

// NewSealedFile creates a sealed single-slot store at path. The sealing
// key is derived from deviceSecret with PBKDF2.
func NewSealedFile(path, deviceSecret string, logger zerolog.Logger) (*SealedFile, error) {
	if deviceSecret == "" {
		return nil, fmt.Errorf("device secret is required")
	}

	sealer, err := crypto.NewSealer(crypto.DeriveKey(deviceSecret, path+saltSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to create sealer: %w", err)
	}

	return &SealedFile{
		path:   path,
		sealer: sealer,
		logger: logger.With().Str("component", "securestore").Logger(),
	}, nil
}

// Get returns the stored value, or ErrEmpty if none is set.
func (s *SealedFile) Get(ctx context.Context) (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrEmpty
		}
		return "", fmt.Errorf("failed to read secure slot: %w", err)
	}

	value, err := s.sealer.OpenString(string(raw))
	if err != nil {
		return "", fmt.Errorf("failed to unseal secure slot: %w", err)
	}
	return value, nil
}

// Set replaces the stored value.
func (s *SealedFile) Set(ctx context.Context, value string) error {
	sealed, err := s.sealer.SealString(value)
	if err != nil {
		return fmt.Errorf("failed to seal value: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create secure store directory: %w", err)
		}
	}

	// Write-then-rename so a crash never leaves a truncated slot.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sealed), 0o600); err != nil {
		return fmt.Errorf("failed to write secure slot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace secure slot: %w", err)
	}

	s.logger.Debug().Msg("secure slot updated")
	return nil
}

// Delete clears the slot.
func (s *SealedFile) Delete(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete secure slot: %w", err)
	}
	return nil
}

// Ensure SealedFile implements Store.
var _ Store = (*SealedFile)(nil)
