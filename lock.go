package raffle

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Draw Lock Implementation Strategy:
// - Lock Acquisition: Redis SET NX with a TTL (single network call)
// - Lock Release: Lua script, so only the owner's token can delete the key

// releaseLockScript deletes the lock only while it still holds our token.
// Otherwise an expired holder could delete a lock taken by the next drawer.
const releaseLockScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`

// RedisLocker holds one draw at a time per raffle name across processes.
// It only coordinates draws; nothing about a draw is written to Redis.
type RedisLocker struct {
	client *redis.Client
	logger Logger

	ttl           time.Duration
	retryAttempts int
	retryInterval time.Duration

	breaker  *lockBreaker
	newToken func() string
}

// NewRedisLocker creates a draw lock on client. Nil configs use the defaults.
func NewRedisLocker(client *redis.Client, config *LockConfig, cbConfig *CircuitBreakerConfig, logger Logger) *RedisLocker {
	if config == nil {
		config = DefaultLockConfig()
	}
	if logger == nil {
		logger = NewSilentLogger()
	}

	return &RedisLocker{
		client:        client,
		logger:        logger,
		ttl:           config.TTL,
		retryAttempts: config.RetryAttempts,
		retryInterval: config.RetryInterval,
		breaker:       newLockBreaker(cbConfig, logger),
		newToken:      generateLockValue,
	}
}

// BreakerState reports the circuit breaker state guarding Redis calls
func (l *RedisLocker) BreakerState() string { return l.breaker.state() }

// Acquire takes the lock for key, retrying while it is held elsewhere
func (l *RedisLocker) Acquire(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidInput.New().WithDetails("lock key is required")
	}

	fullKey := LockKeyPrefix + key
	token := l.newToken()
	ttl := l.ttl
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}

	var lastErr error
	for attempt := 0; attempt <= l.retryAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		_, err := l.breaker.execute(func() (any, error) {
			acquired, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
			if err != nil {
				return nil, ErrRedisConnectionFailed.New().WithOperation("acquire").WithCause(err)
			}
			if !acquired {
				return nil, ErrLockHeld.New().WithDetails("%s", key)
			}
			return nil, nil
		})
		if err == nil {
			l.logger.Debug("Acquired draw lock %s", fullKey)
			return token, nil
		}

		lastErr = err
		if !IsRetryableError(err) {
			return "", err
		}
		if attempt < l.retryAttempts {
			if err := sleepContext(ctx, l.retryInterval); err != nil {
				return "", err
			}
		}
	}

	return "", lastErr
}

// Release frees key if it is still held with token. A lock that already
// expired or was taken over is logged and not treated as an error.
func (l *RedisLocker) Release(ctx context.Context, key, token string) error {
	if key == "" || token == "" {
		return ErrInvalidInput.New().WithDetails("lock key and token are required")
	}

	fullKey := LockKeyPrefix + key
	result, err := l.breaker.execute(func() (any, error) {
		res, err := l.client.Eval(ctx, releaseLockScript, []string{fullKey}, token).Int64()
		if err != nil {
			return nil, ErrRedisConnectionFailed.New().WithOperation("release").WithCause(err)
		}
		return res, nil
	})
	if err != nil {
		return ErrLockReleaseFailure.New().WithDetails("%s", key).WithCause(err)
	}

	if released, _ := result.(int64); released != 1 {
		l.logger.Warn("Draw lock %s was no longer held at release", fullKey)
		return nil
	}
	l.logger.Debug("Released draw lock %s", fullKey)
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
