// Package jobs queues workflow runs and executes them on a worker pool.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind names the workflow a job runs
type Kind string

// Job kinds
const (
	KindAnalyzeDeck       Kind = "analyze_deck"
	KindAnalyzeSession    Kind = "analyze_session"
	KindGenerateQuestions Kind = "generate_questions"
)

// ErrQueueClosed is returned by Dequeue once a queue is closed and drained
var ErrQueueClosed = errors.New("job queue closed")

// Job is one queued workflow run
type Job struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	TargetID   uuid.UUID `json:"target_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewJob creates a job for the record targetID
func NewJob(kind Kind, targetID uuid.UUID) Job {
	return Job{ID: uuid.New(), Kind: kind, TargetID: targetID, EnqueuedAt: time.Now().UTC()}
}

func (j Job) String() string {
	return fmt.Sprintf("%s(%s)", j.Kind, j.TargetID)
}

// Enqueuer accepts jobs. The HTTP server only needs this half of a Queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, job Job) error
}

// Queue is a FIFO of jobs shared between the API and the workers
type Queue interface {
	Enqueuer
	// Dequeue blocks until a job is available or ctx is done
	Dequeue(ctx context.Context) (Job, error)
}

// Handler runs one job
type Handler func(ctx context.Context, job Job) error
