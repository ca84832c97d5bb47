package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
)

const (
	lockRetryInterval = 20 * time.Millisecond
	defaultLockTTL    = 5 * time.Second
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type SessionLocker interface {
	// Lock blocks until the session is held exclusively or the wait budget runs out.
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}

type redisLocker struct {
	logger *slog.Logger
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

func NewSessionLocker(logger *slog.Logger, client *redis.Client, ttl, wait time.Duration) SessionLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	return &redisLocker{
		logger: logger.With("component", "sessionLocker"),
		client: client,
		ttl:    ttl,
		wait:   wait,
	}
}

func lockKey(sessionID string) string {
	return "lock:session:" + sessionID
}

func (that *redisLocker) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := lockKey(sessionID)
	token := uuid.NewString()
	deadline := time.Now().Add(that.wait)

	for {
		acquired, err := that.client.SetNX(ctx, key, token, that.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire session lock: %w", err)
		}

		if acquired {
			stop := make(chan struct{})
			done := make(chan struct{})

			go that.renew(key, token, stop, done)

			return func() {
				close(stop)
				<-done
				that.release(key, token)
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: session %s", apperror.ErrLockNotAcquired, sessionID)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for session lock: %w", ctx.Err())
		case <-time.After(lockRetryInterval):
		}
	}
}

// renew extends the lock TTL at a third of its length until stop is closed.
// A lost lock is only logged; the holder cannot be interrupted mid-operation.
func (that *redisLocker) renew(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(that.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), that.ttl)
		renewed, err := renewScript.Run(ctx, that.client, []string{key}, token, that.ttl.Milliseconds()).Int()
		cancel()

		switch {
		case err != nil:
			that.logger.Error("failed to renew session lock", "key", key, "error", err)
		case renewed == 0:
			that.logger.Error("session lock lost before release", "key", key)
			return
		}
	}
}

// release deletes the lock only if it still carries our token.
func (that *redisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), that.ttl)
	defer cancel()

	if err := releaseScript.Run(ctx, that.client, []string{key}, token).Err(); err != nil {
		that.logger.Error("failed to release session lock", "key", key, "error", err)
	}
}
