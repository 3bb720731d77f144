// Package platform holds the host-side collaborators the session layer
// drives but does not own: the text-direction switch and the app
// restart request that makes a direction change take visual effect.
package platform

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/rs/zerolog"
)

// Direction applies the text direction matching the active language.
type Direction interface {
	// SetRTL requests right-to-left (or left-to-right) rendering.
	SetRTL(ctx context.Context, rtl bool) error
}

// Restarter requests a full application restart so a direction change
// takes visual effect.
type Restarter interface {
	Restart(ctx context.Context) error
}

// LoggedDirection records direction changes in the log. Hosts with a
// real rendering layer supply their own implementation.
type LoggedDirection struct {
	logger zerolog.Logger
}

// NewLoggedDirection creates a Direction that only logs.
func NewLoggedDirection(logger zerolog.Logger) *LoggedDirection {
	return &LoggedDirection{logger: logger.With().Str("component", "direction").Logger()}
}

// SetRTL logs the requested direction.
func (d *LoggedDirection) SetRTL(ctx context.Context, rtl bool) error {
	d.logger.Info().Bool("rtl", rtl).Msg("text direction changed")
	return nil
}

// ExecRestarter restarts the process by re-executing the current
// binary in place, preserving arguments and environment.
type ExecRestarter struct {
	logger zerolog.Logger
}

// NewExecRestarter creates a Restarter that re-executes the process.
func NewExecRestarter(logger zerolog.Logger) *ExecRestarter {
	return &ExecRestarter{logger: logger.With().Str("component", "restarter").Logger()}
}

// Restart replaces the running process image. It only returns on
// failure.
func (r *ExecRestarter) Restart(ctx context.Context) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable: %w", err)
	}

	r.logger.Info().Str("exe", exe).Msg("restarting process")
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		return fmt.Errorf("failed to exec %s: %w", exe, err)
	}
	return nil
}

// NoopRestarter ignores restart requests. Used where the host manages
// its own lifecycle, and in tests.
type NoopRestarter struct{}

// Restart does nothing.
func (NoopRestarter) Restart(ctx context.Context) error {
	return nil
}

// Ensure implementations satisfy their interfaces.
var (
	_ Direction = (*LoggedDirection)(nil)
	_ Restarter = (*ExecRestarter)(nil)
	_ Restarter = NoopRestarter{}
)
