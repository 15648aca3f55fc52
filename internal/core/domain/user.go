package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies what a signed-in user may do in the portal.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// SessionStorageKey is the fixed name the session is persisted under.
const SessionStorageKey = "user"

// Session is the authenticated user's identity and credential. It is what the
// backend returns on login and what gets persisted between reloads.
type Session struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// NewSession fills ExpiresAt from the token's exp claim. The signature is not
// checked here: the portal never holds the backend's signing key, it only needs
// to know when to stop presenting the credential. Opaque tokens never expire.
func NewSession(s Session) *Session {
	out := s
	out.ExpiresAt = time.Time{}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err == nil && claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return &out
}

func (s *Session) Identity() string { return s.ID }

// Expired reports whether the credential is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

// IsAdmin is a nil-safe role check.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// RegisterDraft is the payload of the sign-up form.
type RegisterDraft struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}
