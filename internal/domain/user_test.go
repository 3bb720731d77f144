package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@x.com", NormalizeEmail("  Alice@X.Com "))
	assert.Equal(t, "", NormalizeEmail("   "))
	assert.Equal(t, "bob@y.org", NormalizeEmail("bob@y.org"))
}

func TestInferNameFromEmail(t *testing.T) {
	assert.Equal(t, "Alice", InferNameFromEmail("alice@x.com"))
	assert.Equal(t, "Bob.smith", InferNameFromEmail("Bob.Smith@y.org"))
	assert.Equal(t, "User", InferNameFromEmail("@x.com"))
	assert.Equal(t, "User", InferNameFromEmail(""))
}

func TestMintUserID(t *testing.T) {
	a := MintUserID()
	b := MintUserID()

	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "u_")

	created := UserIDCreatedAt(a)
	require.False(t, created.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), created, time.Minute)
}

func TestUserIDCreatedAtRejectsForeignTokens(t *testing.T) {
	assert.True(t, UserIDCreatedAt("guest").IsZero())
	assert.True(t, UserIDCreatedAt("u_not-a-uuid").IsZero())
}

func TestNewStoredUserNormalizesEmail(t *testing.T) {
	u := NewStoredUser("Alice", " Alice@X.Com ", "pw1")

	assert.Equal(t, "alice@x.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "pw1", u.Password)
	assert.NotEmpty(t, u.ID)
}

func TestProfileOmitsPassword(t *testing.T) {
	u := NewStoredUser("Alice", "alice@x.com", "pw1")
	p := u.Profile()

	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, u.Name, p.Name)
	assert.Equal(t, u.Email, p.Email)
}

func TestSessionStateActiveUserID(t *testing.T) {
	s := DefaultSessionState()
	assert.Equal(t, GuestID, s.ActiveUserID())

	s.Profile = &UserProfile{ID: "u_1", Name: "Alice", Email: "alice@x.com"}
	assert.Equal(t, "u_1", s.ActiveUserID())
}

func TestSessionStateCloneIsDeep(t *testing.T) {
	s := SessionState{
		Language:        LanguageArabic,
		Favorites:       []string{"evt1"},
		Profile:         &UserProfile{ID: "u_1"},
		IsAuthenticated: true,
	}

	c := s.Clone()
	c.Favorites[0] = "evt2"
	c.Profile.ID = "u_2"

	assert.Equal(t, "evt1", s.Favorites[0])
	assert.Equal(t, "u_1", s.Profile.ID)
}

func TestLanguage(t *testing.T) {
	assert.True(t, LanguageEnglish.Valid())
	assert.True(t, LanguageArabic.Valid())
	assert.False(t, Language("fr").Valid())

	assert.False(t, LanguageEnglish.RTL())
	assert.True(t, LanguageArabic.RTL())
}
