package model

import "time"

// Session is the server-side record of an authenticated identity. Only an
// opaque, signed reference to it travels in the browser cookie; the upstream
// bearer token never leaves this service.
//
// User may be nil: when the identity lookup fails right after login, the
// session is retained with the token only.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its fixed lifetime.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// UserID returns the identity claim subject, or "" for a token-only session.
func (s *Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}
