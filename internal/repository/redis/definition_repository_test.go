package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/repository/redis"
	"github.com/vytor/wordflash/internal/testutil"
)

// These tests need a live server; set TEST_REDIS_ADDR to run them.
func newRepo(t *testing.T) (context.Context, repository.DefinitionCacheRepository, func() (int64, error)) {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := redis.Connect(ctx, redis.Options{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	prefix := "wordflash-test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
	})
	count := func() (int64, error) {
		keys, err := rdb.Keys(ctx, prefix+"*").Result()
		return int64(len(keys)), err
	}
	return ctx, redis.NewDefinitionRepository(rdb, prefix, time.Hour), count
}

func TestDefinitionRepository_RoundTrip(t *testing.T) {
	ctx, repo, count := newRepo(t)

	cachedAt := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	entry := testutil.SampleEntry("serendipity", "dictionaryapi")
	require.NoError(t, repo.Put(ctx, models.CacheEntry{Term: "serendipity", Entry: entry, CachedAt: cachedAt}))

	got, err := repo.Get(ctx, "Serendipity ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry, got.Entry)
	assert.True(t, cachedAt.Equal(got.CachedAt))

	missing, err := repo.Get(ctx, "zzzqx")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Put(ctx, models.CacheEntry{Term: "fresh", Entry: testutil.SampleEntry("fresh", "x"), CachedAt: cachedAt.AddDate(0, 0, 30)}))
	n, err := repo.DeleteOlderThan(ctx, cachedAt.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	remaining, err := count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining)
}
