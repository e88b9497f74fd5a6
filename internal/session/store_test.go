package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ems-platform/web-client/internal/domain"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewManager(client, "test_session", time.Hour, false), mr
}

func TestLoadEmptyIDYieldsFreshSession(t *testing.T) {
	manager, _ := newTestManager(t)

	sess, err := manager.Load(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.Authenticated())
}

func TestLoadUnknownIDKeepsIdentity(t *testing.T) {
	manager, _ := newTestManager(t)

	sess, err := manager.Load(context.Background(), "gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", sess.ID)
	assert.Empty(t, sess.Token())
}

func TestCommitThenLoadRestoresTokenOnly(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	sess, err := manager.Load(ctx, "")
	require.NoError(t, err)
	token := makeToken(t, map[string]any{"role": "ROLE_EMPLOYEE"})
	require.NoError(t, sess.SetAuth(token, &domain.Profile{Username: "jane"}))
	sess.AddFlash("success", "welcome back")
	require.NoError(t, manager.Commit(ctx, sess))

	restored, err := manager.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, token, restored.Token())
	// The profile and role never persist; rehydration re-derives them.
	assert.False(t, restored.Authenticated())
	assert.Nil(t, restored.User())

	flash := restored.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "welcome back", flash.Message)
}

func TestClearedSessionDropsPersistedSlot(t *testing.T) {
	manager, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := manager.Load(ctx, "")
	require.NoError(t, err)
	token := makeToken(t, map[string]any{"role": "ROLE_ADMIN"})
	require.NoError(t, sess.SetAuth(token, &domain.Profile{Username: "root"}))
	require.NoError(t, manager.Commit(ctx, sess))
	assert.True(t, mr.Exists("ems:session:"+sess.ID))

	sess.Clear()
	require.NoError(t, manager.Commit(ctx, sess))
	assert.False(t, mr.Exists("ems:session:"+sess.ID))
}

func TestCommitSkipsUntouchedSession(t *testing.T) {
	manager, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := manager.Load(ctx, "")
	require.NoError(t, err)
	token := makeToken(t, map[string]any{"role": "ROLE_EMPLOYEE"})
	require.NoError(t, sess.SetAuth(token, &domain.Profile{Username: "jane"}))
	require.NoError(t, manager.Commit(ctx, sess))

	mr.FlushAll()
	// Loading and committing without any mutation must not resurrect the slot.
	reloaded, err := manager.Load(ctx, sess.ID)
	require.NoError(t, err)
	require.NoError(t, manager.Commit(ctx, reloaded))
	assert.False(t, mr.Exists("ems:session:"+sess.ID))
}
