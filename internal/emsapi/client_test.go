package emsapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ems-platform/web-client/internal/config"
	"github.com/ems-platform/web-client/internal/emsapi"
	"github.com/ems-platform/web-client/pkg/util"
)

type stubTokens struct {
	token   string
	cleared int
}

func (s *stubTokens) Token() string { return s.token }
func (s *stubTokens) Clear()        { s.cleared++; s.token = "" }

func newTestClient(baseURL string) *emsapi.Client {
	return emsapi.NewClient(config.BackendConfig{BaseURL: baseURL, TimeoutSeconds: 5}, zap.NewNop(), nil)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"username":"jane","role":"EMPLOYEE"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	profile, err := client.Me(context.Background(), emsapi.Bearer("tok-123"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "jane", profile.Username)
}

func TestForgotPasswordSendsBareAddress(t *testing.T) {
	var gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotBody = string(raw)
		gotType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte("If the account exists, a reset email has been sent"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	message, err := client.ForgotPassword(context.Background(), "jane@example.com")
	require.NoError(t, err)
	// The endpoint binds the raw body to a string, so JSON quotes would make
	// the address unmatchable.
	assert.Equal(t, "jane@example.com", gotBody)
	assert.Equal(t, "text/plain", gotType)
	assert.Equal(t, "If the account exists, a reset email has been sent", message)
}

func TestUnauthorizedClearsTokenSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &stubTokens{token: "expired"}
	client := newTestClient(srv.URL)

	_, err := client.Me(context.Background(), tokens)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", util.ToDomainError(err).Code)
	assert.Equal(t, 1, tokens.cleared)
	assert.Empty(t, tokens.token)
}

func TestBadRequestMessageShownVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Already checked in today"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CheckIn(context.Background(), emsapi.Bearer("tok"))
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	assert.Equal(t, "UPSTREAM_REJECTED", domainErr.Code)
	assert.Equal(t, "Already checked in today", domainErr.Message)
}

func TestBadRequestJSONMessageUnwrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Leave dates overlap an approved leave"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.ApplyLeave(context.Background(), emsapi.Bearer("tok"), emsapi.LeaveApplication{})
	require.Error(t, err)
	assert.Equal(t, "Leave dates overlap an approved leave", util.ToDomainError(err).Message)
}

func TestPlainTextSuccessMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/attendance/check-in", r.URL.Path)
		_, _ = w.Write([]byte("Checked in at 09:00\n"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	message, err := client.CheckIn(context.Background(), emsapi.Bearer("tok"))
	require.NoError(t, err)
	assert.Equal(t, "Checked in at 09:00", message)
}

func TestUnreachableBackendMapsToUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Me(context.Background(), emsapi.Bearer("tok"))
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", util.ToDomainError(err).Code)
}

func TestServerErrorMapsToUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.AttendanceHistory(context.Background(), emsapi.Bearer("tok"))
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	assert.Equal(t, "UPSTREAM_ERROR", domainErr.Code)
	assert.Equal(t, http.StatusBadGateway, domainErr.HTTPStatus)
}

func TestSalarySlipReturnsRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payroll/slip/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	data, contentType, err := client.SalarySlip(context.Background(), emsapi.Bearer("tok"), 7)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}
