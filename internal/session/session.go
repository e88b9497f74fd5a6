// Package session owns the browser-session authentication state: the bearer
// token, the profile fetched with it, and the role decoded out of it. The
// session value travels through the request context rather than living in a
// package-level singleton, so handlers and the transport client share one
// injected instance per request.
package session

import (
	"github.com/ems-platform/web-client/internal/domain"
)

// Flash is a one-time notification shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session is the per-browser-session authentication state. Authenticated
// holds exactly when both the token and a decoded role are present; the role
// is always derived from the token, never set independently.
type Session struct {
	ID string

	token   string
	user    *domain.Profile
	role    domain.Role
	flashes []Flash

	isNew bool
	dirty bool
}

// SetAuth decodes the role out of token and atomically replaces the
// authentication state. A token without a decodable role leaves the session
// untouched and returns the decode error; callers must treat that as "no
// role available" and refuse to proceed as authenticated.
func (s *Session) SetAuth(token string, user *domain.Profile) error {
	role, err := DecodeRole(token)
	if err != nil {
		return err
	}
	s.token = token
	s.user = user
	s.role = role
	s.dirty = true
	return nil
}

// Clear resets the session to its empty state and drops the persisted token
// on the next commit. Clearing an already-empty session is a no-op, so
// several rejected requests in the same tick clear at most once.
func (s *Session) Clear() {
	if s.token == "" && s.user == nil && s.role == "" {
		return
	}
	s.token = ""
	s.user = nil
	s.role = ""
	s.dirty = true
}

// Authenticated reports whether both token and role are present.
func (s *Session) Authenticated() bool {
	return s.token != "" && s.role != ""
}

// Token returns the bearer credential, or "" when absent.
func (s *Session) Token() string {
	return s.token
}

// User returns the cached profile, or nil before rehydration.
func (s *Session) User() *domain.Profile {
	return s.user
}

// Role returns the decoded role, or "" when unauthenticated.
func (s *Session) Role() domain.Role {
	return s.role
}

// AddFlash queues a one-time notification.
func (s *Session) AddFlash(kind, message string) {
	s.flashes = append(s.flashes, Flash{Kind: kind, Message: message})
	s.dirty = true
}

// PopFlash retrieves and clears the oldest queued notification.
func (s *Session) PopFlash() *Flash {
	if len(s.flashes) == 0 {
		return nil
	}
	msg := s.flashes[0]
	s.flashes = s.flashes[1:]
	s.dirty = true
	return &msg
}

// restoreToken rehydrates only the token slot from storage. The profile and
// role are re-derived by the rehydration middleware, so the session stays
// unauthenticated until a fresh profile fetch succeeds.
func (s *Session) restoreToken(token string) {
	s.token = token
}
