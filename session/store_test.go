package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goflare.io/display/models/enum"
)

func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"kv": func(t *testing.T) Store {
			return NewKVStore(NewMemoryKV())
		},
		"redis": func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return NewRedisStore(client, time.Hour)
		},
	}
}

func TestStore_ShownIsScopedByModeAndSession(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			require.NoError(t, store.MarkShown(ctx, "S", enum.DisplayModeModal, "P1"))

			shown, err := store.HasBeenShown(ctx, "S", enum.DisplayModeModal, "P1")
			require.NoError(t, err)
			assert.True(t, shown)

			shown, err = store.HasBeenShown(ctx, "S", enum.DisplayModeNotification, "P1")
			require.NoError(t, err)
			assert.False(t, shown, "other modes are independent")

			shown, err = store.HasBeenShown(ctx, "other", enum.DisplayModeModal, "P1")
			require.NoError(t, err)
			assert.False(t, shown, "a new session starts empty")

			dismissed, err := store.HasBeenDismissed(ctx, "S", "P1")
			require.NoError(t, err)
			assert.False(t, dismissed, "dismissed is a separate namespace")
		})
	}
}

func TestStore_MarkDismissedIsIdempotent(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			require.NoError(t, store.MarkDismissed(ctx, "S", "P1"))
			once, err := store.Snapshot(ctx, "S")
			require.NoError(t, err)

			require.NoError(t, store.MarkDismissed(ctx, "S", "P1"))
			twice, err := store.Snapshot(ctx, "S")
			require.NoError(t, err)

			assert.Equal(t, once, twice)
			assert.True(t, twice.HasBeenDismissed("P1"))
			assert.False(t, twice.HasBeenShown(enum.DisplayModeBanner, "P1"))
		})
	}
}

func TestStore_Snapshot(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			require.NoError(t, store.MarkShown(ctx, "S", enum.DisplayModeModal, "M1"))
			require.NoError(t, store.MarkShown(ctx, "S", enum.DisplayModeNotification, "N1"))
			require.NoError(t, store.MarkDismissed(ctx, "S", "B1"))
			require.NoError(t, store.MarkShown(ctx, "T", enum.DisplayModeModal, "M2"))

			snap, err := store.Snapshot(ctx, "S")
			require.NoError(t, err)

			assert.True(t, snap.HasBeenShown(enum.DisplayModeModal, "M1"))
			assert.True(t, snap.HasBeenShown(enum.DisplayModeNotification, "N1"))
			assert.True(t, snap.HasBeenDismissed("B1"))
			assert.False(t, snap.HasBeenShown(enum.DisplayModeModal, "M2"))
			assert.False(t, snap.HasBeenShown(enum.DisplayModeModal, "N1"))
		})
	}
}

func TestStore_RejectsEmptySession(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			assert.ErrorIs(t, store.MarkShown(ctx, "", enum.DisplayModeModal, "P1"), ErrInvalidSession)
			assert.ErrorIs(t, store.MarkDismissed(ctx, "", "P1"), ErrInvalidSession)
			_, err := store.Snapshot(ctx, "")
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestRedisStore_SetsExpire(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, time.Minute)
	require.NoError(t, store.MarkShown(ctx, "S", enum.DisplayModeModal, "P1"))

	assert.Equal(t, time.Minute, mr.TTL(shownKey("S", enum.DisplayModeModal)))

	mr.FastForward(2 * time.Minute)
	shown, err := store.HasBeenShown(ctx, "S", enum.DisplayModeModal, "P1")
	require.NoError(t, err)
	assert.False(t, shown)
}

func TestKVStore_IgnoresCorruptValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, shownKey("S", enum.DisplayModeModal), "not json"))

	store := NewKVStore(kv)
	shown, err := store.HasBeenShown(ctx, "S", enum.DisplayModeModal, "P1")
	require.NoError(t, err)
	assert.False(t, shown)

	require.NoError(t, store.MarkShown(ctx, "S", enum.DisplayModeModal, "P1"))
	raw, ok, err := kv.Get(ctx, shownKey("S", enum.DisplayModeModal))
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["P1"]`, raw)
}

func TestSession_BindsStore(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore(NewMemoryKV())

	_, err := New(store, "")
	assert.ErrorIs(t, err, ErrInvalidSession)

	sess, err := New(store, "S")
	require.NoError(t, err)
	assert.Equal(t, "S", sess.ID())

	require.NoError(t, sess.MarkShown(ctx, enum.DisplayModeModal, "P1"))
	require.NoError(t, sess.MarkShown(ctx, enum.DisplayModeModal, "P1"))
	require.NoError(t, sess.MarkDismissed(ctx, "P2"))

	shown, err := sess.HasBeenShown(ctx, enum.DisplayModeModal, "P1")
	require.NoError(t, err)
	assert.True(t, shown)

	dismissed, err := sess.HasBeenDismissed(ctx, "P2")
	require.NoError(t, err)
	assert.True(t, dismissed)

	raw, _, err := NewMemoryKV().Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestSnapshot_NilIsEmpty(t *testing.T) {
	var snap *Snapshot
	assert.False(t, snap.HasBeenShown(enum.DisplayModeModal, "P1"))
	assert.False(t, snap.HasBeenDismissed("P1"))
}
