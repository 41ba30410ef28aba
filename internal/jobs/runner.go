package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/pitch-perfect/internal/logger"
)

// dequeueRetryDelay is the pause after a failed dequeue
const dequeueRetryDelay = time.Second

// Runner pulls jobs from a Queue and runs them on a fixed number of workers.
// Handler failures are logged and never stop the runner.
type Runner struct {
	queue       Queue
	concurrency int
	log         *logger.Logger

	mu       sync.RWMutex
	handlers map[Kind]Handler
}

// NewRunner creates a Runner with concurrency workers
func NewRunner(queue Queue, concurrency int, log *logger.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		queue:       queue,
		concurrency: concurrency,
		log:         log.With("component", "JobRunner"),
		handlers:    make(map[Kind]Handler),
	}
}

// Register binds a handler to a job kind
func (r *Runner) Register(kind Kind, h Handler) error {
	if h == nil {
		return fmt.Errorf("nil handler for %s", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[kind]; exists {
		return fmt.Errorf("handler already registered for %s", kind)
	}
	r.handlers[kind] = h
	return nil
}

// Run processes jobs until ctx is cancelled or the queue is closed
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("starting job workers", "concurrency", r.concurrency)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.concurrency; i++ {
		workerID := i + 1
		g.Go(func() error {
			return r.loop(gctx, workerID)
		})
	}
	err := g.Wait()
	if errors.Is(err, ErrQueueClosed) {
		return nil
	}
	return err
}

func (r *Runner) loop(ctx context.Context, workerID int) error {
	for {
		job, err := r.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				r.log.Info("worker stopped", "worker_id", workerID)
				return nil
			}
			if errors.Is(err, ErrQueueClosed) {
				return err
			}
			r.log.Warn("dequeue failed", "worker_id", workerID, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(dequeueRetryDelay):
			}
			continue
		}
		r.dispatch(ctx, workerID, job)
	}
}

// Process runs a single job synchronously with the registered handler
func (r *Runner) Process(ctx context.Context, job Job) error {
	r.mu.RLock()
	h, ok := r.handlers[job.Kind]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no handler registered for %s", job.Kind)
	}
	return runSafely(ctx, h, job)
}

func (r *Runner) dispatch(ctx context.Context, workerID int, job Job) {
	log := r.log.With("worker_id", workerID, "job_id", job.ID, "kind", job.Kind, "target_id", job.TargetID)
	start := time.Now()

	if err := r.Process(ctx, job); err != nil {
		log.Error("job failed", "error", err, "elapsed", time.Since(start).String())
		return
	}
	log.Info("job completed", "elapsed", time.Since(start).String())
}

func runSafely(ctx context.Context, h Handler, job Job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return h(ctx, job)
}
