package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/pic-backend/internal/persistence"
)

// ErrSubmissionLocked means another submission for the same (user, form) is
// being processed.
var ErrSubmissionLocked = errors.New("submission already in progress")

// SubmissionLocker serializes in-flight submissions per (user, form). It only
// short-circuits concurrent requests; the form_responses unique constraint
// remains the authority.
type SubmissionLocker interface {
	Acquire(ctx context.Context, userID, formID int64) (release func(), err error)
}

// NewSubmissionLocker returns a Redis-backed locker, or a no-op one when Redis
// is disabled.
func NewSubmissionLocker(r *persistence.Redis, ttl time.Duration, logger *zap.Logger) SubmissionLocker {
	if !r.Enabled() {
		return NoopLocker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisLocker{client: r.Client, ttl: ttl, logger: logger}
}

// NoopLocker never blocks.
type NoopLocker struct{}

// Acquire always succeeds.
func (NoopLocker) Acquire(context.Context, int64, int64) (func(), error) {
	return func() {}, nil
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0`)

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func submissionLockKey(userID, formID int64) string {
	return fmt.Sprintf("pic:submission:%d:%d", userID, formID)
}

func (l *redisLocker) Acquire(ctx context.Context, userID, formID int64) (func(), error) {
	key := submissionLockKey(userID, formID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		// Redis being down must not block submissions.
		l.logger.Warn("submission lock unavailable", zap.String("key", key), zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, ErrSubmissionLocked
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("submission lock release failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
