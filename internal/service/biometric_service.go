package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prn-tf/citypulse/internal/domain"
	"github.com/prn-tf/citypulse/internal/repository"
	"github.com/prn-tf/citypulse/internal/securestore"
)

// BiometricService manages the device's biometric link: a single
// secure-store slot holding the normalized email of the one account
// eligible for fast login. The link binds the device to one account;
// enabling it for account B silently revokes usability for account A.
//
// Possession of the slot is treated as proof of identity: LoginFromLink
// establishes a session without a password check. The actual biometric
// prompt is the caller's concern (see the biometric package).
type BiometricService struct {
	secure  securestore.Store
	users   repository.UserRegistry
	session *SessionService
	metrics *Metrics
	logger  zerolog.Logger
}

// NewBiometricService creates a BiometricService.
func NewBiometricService(secure securestore.Store, users repository.UserRegistry, session *SessionService, logger zerolog.Logger) *BiometricService {
	return &BiometricService{
		secure:  secure,
		users:   users,
		session: session,
		metrics: session.metrics,
		logger:  logger.With().Str("service", "biometric").Logger(),
	}
}

// EnableForCurrentUser links the active profile's normalized email to
// this device. Success means the write was verified by a round-trip
// read; a silent secure-store failure reports false. Requires an
// authenticated session.
func (b *BiometricService) EnableForCurrentUser(ctx context.Context) bool {
	profile := b.session.State().Profile
	if profile == nil {
		return false
	}

	email := domain.NormalizeEmail(profile.Email)
	if err := b.secure.Set(ctx, email); err != nil {
		b.logger.Warn().Err(err).Msg("failed to write biometric link")
		return false
	}

	linked, ok := b.LinkedEmail(ctx)
	if !ok || linked != email {
		b.logger.Warn().Msg("biometric link round-trip verification failed")
		return false
	}

	b.metrics.BiometricLinks.Inc()
	b.logger.Info().Str("user_id", profile.ID).Msg("biometric link enabled")
	return true
}

// LinkedEmail returns the normalized email linked on this device.
// Any read error reports ok=false; callers cannot distinguish "never
// set" from a store failure.
func (b *BiometricService) LinkedEmail(ctx context.Context) (string, bool) {
	value, err := b.secure.Get(ctx)
	if err != nil {
		if err != securestore.ErrEmpty {
			b.logger.Warn().Err(err).Msg("failed to read biometric link")
		}
		return "", false
	}
	if value == "" {
		return "", false
	}
	return domain.NormalizeEmail(value), true
}

// IsLinkedForCurrentUser reports whether the active profile is the
// linked account. Switching profiles flips this to false without any
// explicit unlink.
func (b *BiometricService) IsLinkedForCurrentUser(ctx context.Context) bool {
	profile := b.session.State().Profile
	if profile == nil {
		return false
	}
	linked, ok := b.LinkedEmail(ctx)
	return ok && linked == domain.NormalizeEmail(profile.Email)
}

// LoginFromLink establishes a session for the linked account without a
// password check. Returns false when no link exists or the linked
// email no longer matches any registered account.
func (b *BiometricService) LoginFromLink(ctx context.Context) bool {
	linked, ok := b.LinkedEmail(ctx)
	if !ok {
		b.metrics.Logins.WithLabelValues(loginMethodBiometric, loginResultFailure).Inc()
		return false
	}

	user, err := b.users.GetByEmail(ctx, linked)
	if err != nil {
		b.logger.Debug().Str("email", linked).Msg("biometric link points at unknown account")
		b.metrics.Logins.WithLabelValues(loginMethodBiometric, loginResultFailure).Inc()
		return false
	}

	b.session.establish(ctx, user)
	b.metrics.Logins.WithLabelValues(loginMethodBiometric, loginResultSuccess).Inc()
	return true
}

// Disable clears the biometric link. Idempotent; errors are swallowed.
func (b *BiometricService) Disable(ctx context.Context) {
	if err := b.secure.Delete(ctx); err != nil {
		b.logger.Warn().Err(err).Msg("failed to delete biometric link")
	}
}
