package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIter-Team/Flo/core"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client, "", ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStoreLoadAbsent(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)

	sess, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)
	assert.Equal(t, core.DefaultProfile(), sess.GetProfile())
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)
	ctx := context.Background()

	sess := core.NewSession("s1")
	sess.SetActiveAgent("quant")
	sess.SetProfile(core.Profile{Name: "Ari", Language: "Indonesian", Currency: "IDR", Balance: 150000})
	sess.Set("topic", "budgeting")
	sess.AppendMessage(core.NewUserMessage("hello"))
	sess.AppendMessage(core.NewActionCallMessage("quant", core.ActionCall{
		ID: "c1", Name: "get_balance", Arguments: `{}`,
	}))
	sess.AppendMessage(core.NewActionResultMessage("quant", core.ActionResult{
		ID: "c1", Name: "get_balance", Response: map[string]any{"balance": float64(150000)},
	}))
	sess.AppendMessage(core.NewHandoffMessage(core.HandoffRecord{
		From: "quant", To: "flo", Scope: core.ScopeToCoordinator,
	}))

	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "quant", loaded.GetActiveAgent())
	assert.Equal(t, "Ari", loaded.GetProfile().Name)
	assert.Equal(t, int64(150000), loaded.GetProfile().Balance)
	assert.Equal(t, "budgeting", loaded.Get("topic", nil))

	history := loaded.History()
	require.Len(t, history, 4)
	assert.Equal(t, "hello", history[0].Text())

	calls := history[1].ActionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "get_balance", calls[0].Name)

	results := history[2].ActionResults()
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Error)

	record, ok := history[3].Handoff()
	require.True(t, ok)
	assert.Equal(t, core.ScopeToCoordinator, record.Scope)
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, core.NewSession("s1")))
	assert.Greater(t, mr.TTL("flo:session:s1"), time.Duration(0))

	mr.FastForward(2 * time.Minute)
	sess, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, sess.History(), "expired sessions start fresh")
}

func TestRedisStoreDelete(t *testing.T) {
	store, mr := newTestRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, core.NewSession("s1")))
	require.NoError(t, store.Delete(ctx, "s1"))
	assert.False(t, mr.Exists("flo:session:s1"))
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	store, mr := newTestRedisStore(t, 0)

	require.NoError(t, mr.Set("flo:session:s1", "{not json"))
	_, err := store.Load(context.Background(), "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPersistence)
}
