package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultPollTimeout bounds each blocking pop so shutdown is noticed
const DefaultPollTimeout = 5 * time.Second

// listStore is the subset of the Redis client the queue uses
type listStore interface {
	LPush(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *goredis.StringSliceCmd
	LLen(ctx context.Context, key string) *goredis.IntCmd
}

// RedisQueue is a Queue stored in a Redis list: LPUSH to enqueue, BRPOP to
// dequeue, so jobs come out in FIFO order and each goes to one worker.
type RedisQueue struct {
	rdb         listStore
	key         string
	pollTimeout time.Duration
}

// NewRedisQueue creates a queue on the list named key
func NewRedisQueue(rdb *goredis.Client, key string) *RedisQueue {
	return newRedisQueue(rdb, key)
}

func newRedisQueue(rdb listStore, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key, pollTimeout: DefaultPollTimeout}
}

// Enqueue pushes job onto the list as JSON
func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", job, err)
	}
	return nil
}

// Dequeue blocks until a job is available or ctx is done
func (q *RedisQueue) Dequeue(ctx context.Context) (Job, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Job{}, err
		}
		res, err := q.rdb.BRPop(ctx, q.pollTimeout, q.key).Result()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return Job{}, ctx.Err()
			}
			return Job{}, fmt.Errorf("failed to dequeue: %w", err)
		}
		// BRPOP replies with [key, value]
		if len(res) != 2 {
			return Job{}, fmt.Errorf("unexpected BRPOP reply of %d elements", len(res))
		}
		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return Job{}, fmt.Errorf("failed to decode job: %w", err)
		}
		return job, nil
	}
}

// Len reports the number of pending jobs
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
