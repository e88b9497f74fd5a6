package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Manager persists the durable part of browser sessions in Redis. Only the
// bearer token and pending flashes survive a process restart; the profile
// and role are re-derived from the token on the next request.
type Manager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

type sessionPayload struct {
	Token   string  `json:"token,omitempty"`
	Flashes []Flash `json:"flashes,omitempty"`
}

// NewManager constructs a session Manager.
func NewManager(client *redis.Client, cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{client: client, cookieName: cookieName, ttl: ttl, secure: secure}
}

// Load resolves the session for a request. An empty or unknown ID yields a
// fresh, empty session.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return m.newSession(), nil
	}

	payload, err := m.client.Get(ctx, m.redisKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			sess := m.newSession()
			sess.ID = sessionID
			return sess, nil
		}
		return nil, err
	}

	var stored sessionPayload
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}

	sess := &Session{ID: sessionID}
	sess.restoreToken(stored.Token)
	sess.flashes = stored.Flashes
	return sess, nil
}

// Commit persists the durable slot. A session holding neither a token nor
// pending flashes is deleted outright, which is how a cleared session drops
// its persisted token.
func (m *Manager) Commit(ctx context.Context, sess *Session) error {
	if sess == nil || (!sess.dirty && !sess.isNew) {
		return nil
	}

	if sess.token == "" && len(sess.flashes) == 0 {
		// A brand-new anonymous session has no slot to drop.
		if sess.isNew {
			sess.dirty = false
			return nil
		}
		if err := m.client.Del(ctx, m.redisKey(sess.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		sess.dirty = false
		return nil
	}

	data, err := json.Marshal(sessionPayload{Token: sess.token, Flashes: sess.flashes})
	if err != nil {
		return err
	}
	if err := m.client.Set(ctx, m.redisKey(sess.ID), data, m.ttl).Err(); err != nil {
		return err
	}
	sess.dirty = false
	sess.isNew = false
	return nil
}

// CookieName returns the cookie identifier used for sessions.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// TTL exposes the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Secure reports whether session cookies require TLS.
func (m *Manager) Secure() bool {
	return m.secure
}

func (m *Manager) newSession() *Session {
	return &Session{ID: uuid.NewString(), isNew: true}
}

func (m *Manager) redisKey(id string) string {
	return "ems:session:" + id
}
