// Package domain contains the core business entities for CityPulse.
package domain

import "errors"

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (storage, network, etc.).
//
// Storage-level failures are deliberately absent here: the core's public
// operations never surface them. Reads that fail degrade to empty
// defaults and writes are best-effort.

var (
	// ErrInvalidCredentials indicates login failed. It covers both an
	// unknown email and a password mismatch; callers cannot distinguish
	// the two causes.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthenticated indicates the operation requires an active
	// authenticated profile.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoBiometricLink indicates no account is linked for biometric
	// login on this device.
	ErrNoBiometricLink = errors.New("no biometric link")

	// ErrInvalidLanguage indicates an unsupported language code.
	ErrInvalidLanguage = errors.New("unsupported language")

	// ErrEventNotFound indicates the catalog has no event with the
	// requested ID.
	ErrEventNotFound = errors.New("event not found")
)
