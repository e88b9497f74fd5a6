package web_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ems-platform/web-client/internal/config"
	"github.com/ems-platform/web-client/internal/domain"
	"github.com/ems-platform/web-client/internal/emsapi"
	"github.com/ems-platform/web-client/internal/session"
	"github.com/ems-platform/web-client/internal/web"
)

func makeToken(t *testing.T, role string) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]string{"role": role})
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "."
}

type testHarness struct {
	app      *fiber.App
	sessions *session.Manager
	redis    *miniredis.Miniredis
	backend  *httptest.Server
	meHits   *int
}

func newHarness(t *testing.T, me http.HandlerFunc) *testHarness {
	t.Helper()

	hits := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/employee/me" {
			hits++
			me(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(backend.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := session.NewManager(client, "test_session", time.Hour, false)
	api := emsapi.NewClient(config.BackendConfig{BaseURL: backend.URL, TimeoutSeconds: 5}, zap.NewNop(), nil)

	app := fiber.New()
	app.Use(web.SessionLoader(sessions, api, zap.NewNop()))
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/dashboard", web.RequireAuth(), ok)
	app.Get("/leaves/review", web.RequireRole(domain.RoleManager), ok)
	app.Get("/admin/users", web.RequireRole(domain.RoleAdmin), ok)

	return &testHarness{app: app, sessions: sessions, redis: mr, backend: backend, meHits: &hits}
}

// seedSession persists an authenticated session and returns its cookie value.
func (h *testHarness) seedSession(t *testing.T, role string) string {
	t.Helper()
	ctx := context.Background()
	sess, err := h.sessions.Load(ctx, "")
	require.NoError(t, err)
	require.NoError(t, sess.SetAuth(makeToken(t, role), &domain.Profile{Username: "jane"}))
	require.NoError(t, h.sessions.Commit(ctx, sess))
	return sess.ID
}

func serveProfile(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.Profile{ID: 1, Username: "jane", Name: "Jane", Role: role})
	}
}

func get(t *testing.T, app *fiber.App, path, sessionID string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "test_session", Value: sessionID})
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func TestAnonymousVisitorRedirectedToLogin(t *testing.T) {
	h := newHarness(t, serveProfile(domain.RoleEmployee))

	resp := get(t, h.app, "/dashboard", "")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	// No stored token means no validation round trip.
	assert.Zero(t, *h.meHits)
}

func TestStoredTokenRehydratedOnce(t *testing.T) {
	h := newHarness(t, serveProfile(domain.RoleEmployee))
	id := h.seedSession(t, "ROLE_EMPLOYEE")

	resp := get(t, h.app, "/dashboard", id)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, *h.meHits)
}

func TestEmployeeBlockedFromReviewerScreen(t *testing.T) {
	h := newHarness(t, serveProfile(domain.RoleEmployee))
	id := h.seedSession(t, "ROLE_EMPLOYEE")

	resp := get(t, h.app, "/leaves/review", id)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/403", resp.Header.Get("Location"))
}

func TestManagerAllowedOnReviewerScreen(t *testing.T) {
	h := newHarness(t, serveProfile(domain.RoleManager))
	id := h.seedSession(t, "ROLE_MANAGER")

	resp := get(t, h.app, "/leaves/review", id)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminSatisfiesEveryGuard(t *testing.T) {
	h := newHarness(t, serveProfile(domain.RoleAdmin))
	id := h.seedSession(t, "ROLE_ADMIN")

	for _, path := range []string{"/dashboard", "/leaves/review", "/admin/users"} {
		resp := get(t, h.app, path, id)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}

func TestDeadTokenClearsPersistedSession(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	id := h.seedSession(t, "ROLE_EMPLOYEE")
	require.True(t, h.redis.Exists("ems:session:"+id))

	resp := get(t, h.app, "/dashboard", id)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.False(t, h.redis.Exists("ems:session:"+id))
}
