package redisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/staticserve/core/metacache"
	"github.com/dmitrymomot/staticserve/integration/metacache/redisstore"
)

type value struct {
	ETag string `json:"etag"`
}

func newClient(t *testing.T) redis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestNewPanicsWithoutClient(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		redisstore.New[value](nil)
	})
}

func TestStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newClient(t)
	prefix := "test:" + uuid.NewString() + ":"
	store := redisstore.New[value](client, redisstore.WithPrefix(prefix), redisstore.WithTTL(time.Minute))

	entry, err := store.Load(ctx, "/missing")
	require.NoError(t, err)
	assert.Nil(t, entry)

	saved := &metacache.Entry[value]{
		Snapshot: metacache.Snapshot{Size: 12, ModTime: time.Unix(1700000000, 123)},
		Value:    value{ETag: "c-1"},
		StoredAt: time.Now(),
	}
	require.NoError(t, store.Save(ctx, "/a.txt", saved))

	loaded, err := store.Load(ctx, "/a.txt")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "c-1", loaded.Value.ETag)
	assert.True(t, loaded.Snapshot.Matches(saved.Snapshot))

	ttl, err := client.TTL(ctx, prefix+"/a.txt").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, "/a.txt"))
	loaded, err = store.Load(ctx, "/a.txt")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStoreCorruptEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newClient(t)
	prefix := "test:" + uuid.NewString() + ":"
	store := redisstore.New[value](client, redisstore.WithPrefix(prefix))

	require.NoError(t, client.Set(ctx, prefix+"/bad", "not json", time.Minute).Err())

	_, err := store.Load(ctx, "/bad")
	assert.ErrorIs(t, err, metacache.ErrCorruptEntry)

	// The cache degrades to computing the value.
	cache := metacache.New[value](store)
	v, err := cache.GetOrCompute(ctx, "/bad", metacache.Snapshot{Size: 1}, func() (value, error) {
		return value{ETag: "1-0"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1-0", v.ETag)
	assert.Equal(t, uint64(1), cache.Stats().Errors)
}
