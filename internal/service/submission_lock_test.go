package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pic-backend/internal/persistence"
	"github.com/spec-kit/pic-backend/internal/service"
)

const lockKey = "pic:submission:7:3"

func newRedisLocker(t *testing.T, addr string) service.SubmissionLocker {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	return service.NewSubmissionLocker(&persistence.Redis{Client: client}, 30*time.Second, nil)
}

func TestRedisLockerContention(t *testing.T) {
	mr := miniredis.RunT(t)
	locker := newRedisLocker(t, mr.Addr())
	ctx := context.Background()

	release, err := locker.Acquire(ctx, 7, 3)
	require.NoError(t, err)
	assert.True(t, mr.Exists(lockKey))
	assert.Equal(t, 30*time.Second, mr.TTL(lockKey))

	_, err = locker.Acquire(ctx, 7, 3)
	assert.ErrorIs(t, err, service.ErrSubmissionLocked)

	otherRelease, err := locker.Acquire(ctx, 8, 3)
	require.NoError(t, err)
	otherRelease()

	release()
	assert.False(t, mr.Exists(lockKey))

	release, err = locker.Acquire(ctx, 7, 3)
	require.NoError(t, err)
	release()
}

func TestRedisLockerReleaseKeepsForeignLock(t *testing.T) {
	mr := miniredis.RunT(t)
	locker := newRedisLocker(t, mr.Addr())

	release, err := locker.Acquire(context.Background(), 7, 3)
	require.NoError(t, err)

	// Our lock expired and another request took the key.
	mr.FastForward(31 * time.Second)
	require.False(t, mr.Exists(lockKey))
	require.NoError(t, mr.Set(lockKey, "someone-else"))

	release()
	value, err := mr.Get(lockKey)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", value)
}

func TestRedisLockerDegradesWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	locker := newRedisLocker(t, addr)
	release, err := locker.Acquire(context.Background(), 7, 3)
	require.NoError(t, err)
	require.NotNil(t, release)
	release()
}

func TestNewSubmissionLockerWithoutRedis(t *testing.T) {
	locker := service.NewSubmissionLocker(&persistence.Redis{}, time.Second, nil)
	assert.IsType(t, service.NoopLocker{}, locker)
}
