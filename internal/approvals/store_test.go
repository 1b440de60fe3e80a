package approvals

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func storesUnderTest(t *testing.T) map[string]Store {
	redisStore, _ := newRedisTestStore(t)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}
}

func TestStore_AddRemoveMembers(t *testing.T) {
	ctx := context.Background()

	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			members, err := store.Members(ctx, "listing-5")
			require.NoError(t, err)
			assert.NotNil(t, members)
			assert.Empty(t, members)

			require.NoError(t, store.Add(ctx, "listing-5", "hostaway:1"))
			require.NoError(t, store.Add(ctx, "listing-5", "hostaway:2"))
			require.NoError(t, store.Add(ctx, "listing-5", "hostaway:1"))
			require.NoError(t, store.Add(ctx, "listing-7", "hostaway:3"))

			members, err = store.Members(ctx, "listing-5")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"hostaway:1", "hostaway:2"}, members)

			require.NoError(t, store.Remove(ctx, "listing-5", "hostaway:2"))
			require.NoError(t, store.Remove(ctx, "listing-5", "hostaway:404"))

			members, err = store.Members(ctx, "listing-5")
			require.NoError(t, err)
			assert.Equal(t, []string{"hostaway:1"}, members)

			members, err = store.Members(ctx, "listing-7")
			require.NoError(t, err)
			assert.Equal(t, []string{"hostaway:3"}, members)
		})
	}
}

func TestStore_ApproveThenUnapproveRestoresSet(t *testing.T) {
	ctx := context.Background()

	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Add(ctx, "listing-9", "hostaway:10"))
			before, err := store.Members(ctx, "listing-9")
			require.NoError(t, err)

			require.NoError(t, store.Add(ctx, "listing-9", "hostaway:11"))
			require.NoError(t, store.Remove(ctx, "listing-9", "hostaway:11"))

			after, err := store.Members(ctx, "listing-9")
			require.NoError(t, err)
			assert.ElementsMatch(t, before, after)
		})
	}
}

func TestRedisStore_UsesApprovedKeyPrefix(t *testing.T) {
	store, mr := newRedisTestStore(t)

	require.NoError(t, store.Add(context.Background(), "listing-5", "hostaway:1"))

	members, err := mr.Members("approved:listing-5")
	require.NoError(t, err)
	assert.Equal(t, []string{"hostaway:1"}, members)
}

func TestRedisStore_ConnectionFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
}

func TestNew_FallsBackToMemory(t *testing.T) {
	store, err := New(context.Background(), RedisOptions{})
	require.NoError(t, err)
	assert.Equal(t, "memory", store.Name())
}

func TestNew_PrefersRedisURL(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := New(context.Background(), RedisOptions{URL: "redis://" + mr.Addr() + "/0"})
	require.NoError(t, err)
	assert.Equal(t, "redis", store.Name())
}

func TestStore_SortedMembers(t *testing.T) {
	ctx := context.Background()

	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"hostaway:3", "hostaway:1", "hostaway:2"} {
				require.NoError(t, store.Add(ctx, "listing-1", id))
			}

			members, err := store.Members(ctx, "listing-1")
			require.NoError(t, err)
			assert.Equal(t, []string{"hostaway:1", "hostaway:2", "hostaway:3"}, members)
		})
	}
}
