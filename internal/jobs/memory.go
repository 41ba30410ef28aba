package jobs

import (
	"context"
	"sync"
)

// MemoryQueue is an in-process Queue backed by a buffered channel. It serves
// single-process deployments and tests.
type MemoryQueue struct {
	ch        chan Job
	closeOnce sync.Once
}

// NewMemoryQueue creates a queue holding up to size pending jobs
func NewMemoryQueue(size int) *MemoryQueue {
	if size < 1 {
		size = 1
	}
	return &MemoryQueue{ch: make(chan Job, size)}
}

// Enqueue adds job, blocking while the queue is full
func (q *MemoryQueue) Enqueue(ctx context.Context, job Job) (err error) {
	defer func() {
		// sending on a closed channel
		if recover() != nil {
			err = ErrQueueClosed
		}
	}()
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue returns the next job
func (q *MemoryQueue) Dequeue(ctx context.Context) (Job, error) {
	select {
	case job, ok := <-q.ch:
		if !ok {
			return Job{}, ErrQueueClosed
		}
		return job, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}

// Len reports the number of pending jobs
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}

// Close stops accepting jobs. Pending jobs can still be dequeued.
func (q *MemoryQueue) Close() {
	q.closeOnce.Do(func() { close(q.ch) })
}
