// Package service provides the business logic for the CityPulse
// account and session layer.
package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/citypulse/internal/domain"
	"github.com/prn-tf/citypulse/internal/platform"
	"github.com/prn-tf/citypulse/internal/repository"
)

// subscriberBufferSize is the channel buffer for each state observer.
const subscriberBufferSize = 16

// SessionService owns the single process-wide session state and is the
// only mutation path for it. It is constructed once at startup and
// injected into every consumer; there is no package-level instance.
//
// State is defined by the (IsAuthenticated, Profile) pair: Guest when
// unauthenticated with a nil profile, Authenticated otherwise. All
// mutators persist a durable snapshot and broadcast the new state to
// subscribers. Storage failures never escape a mutator; the in-memory
// state is authoritative for the running process.
type SessionService struct {
	users     repository.UserRegistry
	favorites repository.FavoritesRepository
	snapshots repository.SnapshotStore
	direction platform.Direction
	restarter platform.Restarter
	metrics   *Metrics
	logger    zerolog.Logger

	mu    sync.RWMutex
	state domain.SessionState

	subMu sync.RWMutex
	subs  map[string]chan domain.SessionState
}

// SessionConfig contains the dependencies of a SessionService.
type SessionConfig struct {
	Users     repository.UserRegistry
	Favorites repository.FavoritesRepository
	Snapshots repository.SnapshotStore
	Direction platform.Direction
	Restarter platform.Restarter
	Metrics   *Metrics
	Logger    zerolog.Logger
}

// NewSessionService creates a SessionService in the default Guest
// state. Call Load to restore the durable snapshot.
func NewSessionService(cfg SessionConfig) *SessionService {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewUnregisteredMetrics()
	}
	return &SessionService{
		users:     cfg.Users,
		favorites: cfg.Favorites,
		snapshots: cfg.Snapshots,
		direction: cfg.Direction,
		restarter: cfg.Restarter,
		metrics:   metrics,
		logger:    cfg.Logger.With().Str("service", "session").Logger(),
		state:     domain.DefaultSessionState(),
		subs:      make(map[string]chan domain.SessionState),
	}
}

// State returns a copy of the current session state.
func (s *SessionService) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Load restores the session from the durable snapshot. If the snapshot
// carries a profile, the user registry is the source of truth for the
// display name: a renamed account overrides the cached session name.
// Favorites are then loaded for the resulting active identity. Any
// storage failure falls back to the default Guest/English state.
func (s *SessionService) Load(ctx context.Context) {
	state, found := s.snapshots.Load(ctx)
	if !found {
		state = domain.DefaultSessionState()
	}

	if state.Profile != nil {
		if stored, err := s.users.GetByEmail(ctx, state.Profile.Email); err == nil {
			if stored.Name != state.Profile.Name {
				s.logger.Debug().
					Str("user_id", stored.ID).
					Msg("session profile name reconciled from registry")
			}
			state.Profile = stored.Profile()
		}
	}

	state.Favorites = s.favorites.Load(ctx, state.ActiveUserID())

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.logger.Info().
		Bool("authenticated", state.IsAuthenticated).
		Str("language", string(state.Language)).
		Int("favorites", len(state.Favorites)).
		Msg("session restored")

	s.notify()
}

// RegisterUser upserts the account and transitions to Authenticated
// with a fresh profile. Session favorites reset to empty; the per-user
// favorites slot is left untouched until the next toggle.
func (s *SessionService) RegisterUser(ctx context.Context, name, email, password string) *domain.UserProfile {
	user := s.users.Register(ctx, name, email, password)
	profile := user.Profile()

	s.mu.Lock()
	s.state.IsAuthenticated = true
	s.state.Profile = profile
	s.state.Favorites = []string{}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.snapshots.Save(ctx, snapshot)
	s.metrics.Registrations.Inc()
	s.notify()

	p := *profile
	return &p
}

// LoginUser transitions Guest to Authenticated on a credential match
// and loads that user's stored favorites. Returns false, with no state
// change, when the credentials don't match.
func (s *SessionService) LoginUser(ctx context.Context, email, password string) bool {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		s.metrics.Logins.WithLabelValues(loginMethodPassword, loginResultFailure).Inc()
		return false
	}

	s.establish(ctx, user)
	s.metrics.Logins.WithLabelValues(loginMethodPassword, loginResultSuccess).Inc()
	return true
}

// establish performs the shared Guest-to-Authenticated transition:
// profile adopted, snapshot persisted, stored favorites loaded.
func (s *SessionService) establish(ctx context.Context, user *domain.StoredUser) {
	profile := user.Profile()

	s.mu.Lock()
	s.state.IsAuthenticated = true
	s.state.Profile = profile
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.snapshots.Save(ctx, snapshot)

	favs := s.favorites.Load(ctx, user.ID)

	s.mu.Lock()
	s.state.Favorites = favs
	s.mu.Unlock()

	s.logger.Info().Str("user_id", user.ID).Msg("session established")
	s.notify()
}

// MockLogout transitions to Guest. Profile and session favorites are
// cleared immediately; the guest's stored favorites are not loaded.
// Stored user records and favorites slots persist untouched.
func (s *SessionService) MockLogout(ctx context.Context) {
	s.mu.Lock()
	s.state.IsAuthenticated = false
	s.state.Profile = nil
	s.state.Favorites = []string{}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.snapshots.Save(ctx, snapshot)
	s.logger.Info().Msg("session logged out")
	s.notify()
}

// SetLanguage updates the language, requests the matching text
// direction, persists the snapshot, then requests a full restart so
// the direction change takes visual effect. Direction and restart
// failures are swallowed: the in-memory change stands until the next
// natural restart.
func (s *SessionService) SetLanguage(ctx context.Context, lang domain.Language) error {
	if !lang.Valid() {
		return domain.ErrInvalidLanguage
	}

	s.mu.Lock()
	s.state.Language = lang
	snapshot := s.state.Clone()
	s.mu.Unlock()

	if err := s.direction.SetRTL(ctx, lang.RTL()); err != nil {
		s.logger.Warn().Err(err).Msg("failed to apply text direction")
	}

	s.snapshots.Save(ctx, snapshot)
	s.metrics.LanguageChanges.Inc()
	s.notify()

	if err := s.restarter.Restart(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("restart request failed, direction applies on next restart")
	}
	return nil
}

// ToggleFavorite removes the event ID from the session favorites if
// present, otherwise appends it, and saves the result for the active
// identity (the authenticated user, or guest). This is the sole
// favorites mutation entry point; it always targets whoever is active
// now. Returns the resulting list.
func (s *SessionService) ToggleFavorite(ctx context.Context, eventID string) []string {
	s.mu.Lock()
	next := make([]string, 0, len(s.state.Favorites)+1)
	removed := false
	for _, id := range s.state.Favorites {
		if id == eventID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, eventID)
	}
	s.state.Favorites = next
	userID := s.state.ActiveUserID()
	out := append([]string(nil), next...)
	s.mu.Unlock()

	s.favorites.Save(ctx, userID, out)
	s.metrics.FavoriteToggles.Inc()
	s.notify()
	return out
}

// Subscribe registers an observer for session state changes. Returns a
// channel receiving state copies and a subscription ID. The
// subscription is cleaned up when ctx is cancelled. Slow observers
// miss updates rather than blocking mutators.
func (s *SessionService) Subscribe(ctx context.Context) (<-chan domain.SessionState, string) {
	subID := uuid.New().String()
	ch := make(chan domain.SessionState, subscriberBufferSize)

	s.subMu.Lock()
	s.subs[subID] = ch
	s.subMu.Unlock()

	s.logger.Debug().Str("sub_id", subID).Msg("session observer added")

	go func() {
		<-ctx.Done()
		s.Unsubscribe(subID)
	}()

	return ch, subID
}

// Unsubscribe removes a subscription and closes its channel.
func (s *SessionService) Unsubscribe(subID string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	ch, ok := s.subs[subID]
	if !ok {
		return
	}
	delete(s.subs, subID)
	close(ch)
}

// notify broadcasts the current state to all subscribers.
func (s *SessionService) notify() {
	state := s.State()

	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for subID, ch := range s.subs {
		select {
		case ch <- state:
		default:
			s.logger.Debug().Str("sub_id", subID).Msg("dropped state update for slow observer")
		}
	}
}
