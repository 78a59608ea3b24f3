package cache

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLock_BuildKey(t *testing.T) {
	assert.Equal(t, "stocksync:run", (&RedisLock{prefix: "stocksync"}).buildKey("run"))
	assert.Equal(t, "run", (&RedisLock{}).buildKey("run"))
}

// Требует запущенный Redis: REDIS_TEST_HOST и REDIS_TEST_PORT
func TestRedisLock_AcquireRelease(t *testing.T) {
	host := os.Getenv("REDIS_TEST_HOST")
	if host == "" {
		t.Skip("REDIS_TEST_HOST not set")
	}
	port, err := strconv.Atoi(os.Getenv("REDIS_TEST_PORT"))
	if err != nil {
		port = 6379
	}

	ctx := context.Background()
	lock, err := NewRedisLock(ctx, host, port, "", 0, "stocksync-test")
	require.NoError(t, err)
	defer lock.Close()

	release, ok, err := lock.Acquire(ctx, "run", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = lock.Acquire(ctx, "run", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, release(ctx))

	release, ok, err = lock.Acquire(ctx, "run", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, release(ctx))
}
