package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jonathan/pitch-perfect/internal/logger"
)

// DefaultKey is the Redis key holding the current call slot
const DefaultKey = "pitch:ai:throttle"

// minPoll bounds how often a waiting worker re-checks the slot
const minPoll = 50 * time.Millisecond

type slotStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
	PTTL(ctx context.Context, key string) *goredis.DurationCmd
}

// Redis enforces a cluster-wide minimum spacing between calls. A caller takes
// the slot with SET NX PX; the key's expiry is the earliest time the next
// caller anywhere in the cluster may proceed.
// If Redis is unreachable it degrades to a local fixed delay.
type Redis struct {
	store    slotStore
	key      string
	delay    time.Duration
	sleep    SleepFunc
	fallback Throttle
	log      *logger.Logger
}

// RedisOption customizes a Redis throttle
type RedisOption func(*Redis)

// WithKey overrides the slot key, e.g. one key per API key
func WithKey(key string) RedisOption {
	return func(r *Redis) { r.key = key }
}

// WithSleep overrides the sleep function, for tests
func WithSleep(sleep SleepFunc) RedisOption {
	return func(r *Redis) { r.sleep = sleep }
}

// NewRedis creates a cluster-wide throttle backed by rdb
func NewRedis(rdb *goredis.Client, delay time.Duration, log *logger.Logger, opts ...RedisOption) *Redis {
	return newRedis(rdb, delay, log, opts...)
}

func newRedis(store slotStore, delay time.Duration, log *logger.Logger, opts ...RedisOption) *Redis {
	if log == nil {
		log = logger.Nop()
	}
	r := &Redis{
		store: store,
		key:   DefaultKey,
		delay: delay,
		sleep: Sleep,
		log:   log.With("service", "RedisThrottle"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.fallback = &Fixed{Delay: delay, Sleep: r.sleep}
	return r
}

// Wait blocks until this caller owns the next slot
func (r *Redis) Wait(ctx context.Context) error {
	token := uuid.NewString()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, err := r.store.SetNX(ctx, r.key, token, r.delay).Result()
		if err != nil {
			r.log.Warn("redis throttle unavailable, using local delay", "error", err)
			return r.fallback.Wait(ctx)
		}
		if ok {
			return nil
		}

		remaining, err := r.store.PTTL(ctx, r.key).Result()
		if err != nil {
			r.log.Warn("redis throttle unavailable, using local delay", "error", err)
			return r.fallback.Wait(ctx)
		}
		if err := r.sleep(ctx, pollInterval(remaining, r.delay)); err != nil {
			return fmt.Errorf("throttle wait: %w", err)
		}
	}
}

// pollInterval turns a PTTL reply into a sleep. PTTL is negative when the key
// vanished or has no expiry.
func pollInterval(remaining, delay time.Duration) time.Duration {
	switch {
	case remaining == -1:
		// key without expiry; wait a full delay rather than spin
		return delay
	case remaining < minPoll:
		return minPoll
	default:
		return remaining
	}
}
