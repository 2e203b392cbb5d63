package adapter

import (
	"context"
	"testing"
	"time"

	"shipdesk/internal/core/cache"
	"shipdesk/internal/features/tracking/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T) (*RedisRunLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return NewRedisRunLock(c, "tracking:poll:lock"), mr
}

func TestRedisRunLock_AcquireRelease(t *testing.T) {
	lock, mr := newTestLock(t)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("tracking:poll:lock"))

	_, err = lock.Acquire(ctx, time.Minute)
	assert.ErrorIs(t, err, ports.ErrLockHeld)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("tracking:poll:lock"))

	again, err := lock.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

// TestRedisRunLock_ExpiredLockNotReleasedByOldHolder verifies a stale release leaves the new holder's lock alone.
func TestRedisRunLock_ExpiredLockNotReleasedByOldHolder(t *testing.T) {
	lock, mr := newTestLock(t)
	ctx := context.Background()

	stale, err := lock.Acquire(ctx, time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	current, err := lock.Acquire(ctx, time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists("tracking:poll:lock"))

	require.NoError(t, current(ctx))
	assert.False(t, mr.Exists("tracking:poll:lock"))
}

func TestRedisRunLock_ReleaseAfterExpiry(t *testing.T) {
	lock, mr := newTestLock(t)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	assert.NoError(t, release(ctx))
}

// TestRedisRunLock_RefreshesWhileHeld verifies a long batch keeps the lock past its original TTL.
func TestRedisRunLock_RefreshesWhileHeld(t *testing.T) {
	lock, mr := newTestLock(t)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, 90*time.Millisecond)
	require.NoError(t, err)

	mr.FastForward(80 * time.Millisecond)
	assert.Eventually(t, func() bool {
		return mr.TTL("tracking:poll:lock") > 10*time.Millisecond
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("tracking:poll:lock"))

	time.Sleep(100 * time.Millisecond)
	assert.False(t, mr.Exists("tracking:poll:lock"), "no refresh after release")
}
