package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ems-platform/web-client/internal/domain"
)

func TestSetAuthEstablishesAuthenticatedState(t *testing.T) {
	sess := &Session{ID: "s1"}
	token := makeToken(t, map[string]any{"role": "ROLE_EMPLOYEE"})
	profile := &domain.Profile{Username: "jane", Role: domain.RoleEmployee}

	require.NoError(t, sess.SetAuth(token, profile))

	assert.True(t, sess.Authenticated())
	assert.Equal(t, token, sess.Token())
	assert.Equal(t, domain.RoleEmployee, sess.Role())
	assert.Same(t, profile, sess.User())
}

func TestSetAuthBadTokenLeavesStateUntouched(t *testing.T) {
	sess := &Session{ID: "s1"}
	good := makeToken(t, map[string]any{"role": "ROLE_MANAGER"})
	require.NoError(t, sess.SetAuth(good, &domain.Profile{Username: "lee"}))

	err := sess.SetAuth("not-a-token", &domain.Profile{Username: "mallory"})
	require.Error(t, err)

	assert.True(t, sess.Authenticated())
	assert.Equal(t, good, sess.Token())
	assert.Equal(t, domain.RoleManager, sess.Role())
	assert.Equal(t, "lee", sess.User().Username)
}

func TestSetAuthRoleWithoutClaimRefused(t *testing.T) {
	sess := &Session{ID: "s1"}
	err := sess.SetAuth(makeToken(t, map[string]any{"sub": "jane"}), &domain.Profile{})
	assert.ErrorIs(t, err, ErrNoRoleClaim)
	assert.False(t, sess.Authenticated())
}

func TestClearIsIdempotent(t *testing.T) {
	sess := &Session{ID: "s1"}
	token := makeToken(t, map[string]any{"role": "ROLE_ADMIN"})
	require.NoError(t, sess.SetAuth(token, &domain.Profile{Username: "root"}))

	sess.Clear()
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Token())
	assert.Nil(t, sess.User())
	assert.True(t, sess.dirty)

	// A second clear in the same tick must not mark the session dirty again.
	sess.dirty = false
	sess.Clear()
	assert.False(t, sess.dirty)
}

func TestRestoredTokenAloneIsNotAuthenticated(t *testing.T) {
	sess := &Session{ID: "s1"}
	sess.restoreToken(makeToken(t, map[string]any{"role": "ROLE_EMPLOYEE"}))

	assert.NotEmpty(t, sess.Token())
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Role())
}

func TestFlashQueueOrder(t *testing.T) {
	sess := &Session{ID: "s1"}
	assert.Nil(t, sess.PopFlash())

	sess.AddFlash("error", "first")
	sess.AddFlash("success", "second")

	flash := sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "error", flash.Kind)
	assert.Equal(t, "first", flash.Message)

	flash = sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "second", flash.Message)

	assert.Nil(t, sess.PopFlash())
}
