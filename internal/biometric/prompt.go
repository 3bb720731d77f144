// Package biometric models the biometric-prompt collaborator. The
// session core never talks to sensor hardware; it only consumes the
// outcome of a prompt. Hardware availability, enrollment and user
// cancellation are reported as distinct outcomes for the UI, not as
// store-level errors.
package biometric

import "context"

// Outcome is the result of a biometric prompt.
type Outcome string

const (
	// OutcomeVerified means the user passed the biometric check.
	OutcomeVerified Outcome = "verified"

	// OutcomeUnavailable means the device has no usable biometric
	// hardware.
	OutcomeUnavailable Outcome = "unavailable"

	// OutcomeNotEnrolled means hardware exists but no biometrics are
	// enrolled.
	OutcomeNotEnrolled Outcome = "not_enrolled"

	// OutcomeCanceled means the user dismissed the prompt.
	OutcomeCanceled Outcome = "canceled"
)

// Describe returns the human-readable message for an outcome.
func (o Outcome) Describe() string {
	switch o {
	case OutcomeVerified:
		return "biometric check passed"
	case OutcomeUnavailable:
		return "biometric auth not available"
	case OutcomeNotEnrolled:
		return "no biometrics enrolled"
	case OutcomeCanceled:
		return "biometric prompt canceled"
	default:
		return "unknown biometric outcome"
	}
}

// Verified reports whether the outcome allows proceeding.
func (o Outcome) Verified() bool {
	return o == OutcomeVerified
}

// Prompter shows a biometric prompt and reports its outcome.
type Prompter interface {
	Prompt(ctx context.Context, message string) Outcome
}

// StaticPrompter always reports a fixed outcome. Hosts without sensor
// integration configure OutcomeVerified to treat possession of the
// device as sufficient; tests configure failure outcomes.
type StaticPrompter struct {
	Outcome Outcome
}

// Prompt returns the configured outcome.
func (p StaticPrompter) Prompt(ctx context.Context, message string) Outcome {
	return p.Outcome
}

// Ensure StaticPrompter implements Prompter.
var _ Prompter = StaticPrompter{}
