package domain

// Language is a supported interface language code.
type Language string

const (
	// LanguageEnglish is the default, left-to-right language.
	LanguageEnglish Language = "en"

	// LanguageArabic is rendered right-to-left.
	LanguageArabic Language = "ar"
)

// Valid reports whether the language code is one of the supported values.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageArabic
}

// RTL reports whether the language is rendered right-to-left.
func (l Language) RTL() bool {
	return l == LanguageArabic
}

// SessionState is the session-visible state of the app. Exactly one
// instance exists per process, owned by the session service and mutated
// only through its documented operations.
//
// The state is Guest when IsAuthenticated is false and Profile is nil,
// and Authenticated when IsAuthenticated is true and Profile is set.
// Favorites always reflect the currently active identity: the
// authenticated user's ID, or GuestID when unauthenticated.
type SessionState struct {
	Language        Language     `json:"language"`
	Favorites       []string     `json:"favorites"`
	Profile         *UserProfile `json:"profile"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// DefaultSessionState returns the Guest/English state the session falls
// back to when no durable snapshot exists or the snapshot is unreadable.
func DefaultSessionState() SessionState {
	return SessionState{
		Language:        LanguageEnglish,
		Favorites:       []string{},
		Profile:         nil,
		IsAuthenticated: false,
	}
}

// ActiveUserID returns the identity that scopes favorites storage:
// the authenticated profile's ID, or GuestID.
func (s SessionState) ActiveUserID() string {
	if s.Profile != nil {
		return s.Profile.ID
	}
	return GuestID
}

// Clone returns a deep copy of the state, safe to hand to observers.
func (s SessionState) Clone() SessionState {
	out := s
	out.Favorites = append([]string(nil), s.Favorites...)
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return out
}

// HasFavorite reports whether the event ID is in the favorites list.
func (s SessionState) HasFavorite(eventID string) bool {
	for _, id := range s.Favorites {
		if id == eventID {
			return true
		}
	}
	return false
}
