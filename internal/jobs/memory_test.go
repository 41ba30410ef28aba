package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_FIFO(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx := context.Background()

	first := NewJob(KindAnalyzeDeck, uuid.New())
	second := NewJob(KindAnalyzeSession, uuid.New())
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))
	assert.Equal(t, 2, q.Len())

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestMemoryQueue_DequeueHonoursContext(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryQueue_EnqueueBlocksWhenFull(t *testing.T) {
	q := NewMemoryQueue(1)
	require.NoError(t, q.Enqueue(context.Background(), NewJob(KindAnalyzeDeck, uuid.New())))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, NewJob(KindAnalyzeDeck, uuid.New()))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryQueue_Close(t *testing.T) {
	q := NewMemoryQueue(2)
	ctx := context.Background()
	job := NewJob(KindGenerateQuestions, uuid.New())
	require.NoError(t, q.Enqueue(ctx, job))

	q.Close()
	q.Close()

	assert.ErrorIs(t, q.Enqueue(ctx, job), ErrQueueClosed)

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestNewJob(t *testing.T) {
	target := uuid.New()
	job := NewJob(KindAnalyzeSession, target)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, target, job.TargetID)
	assert.False(t, job.EnqueuedAt.IsZero())
	assert.Equal(t, "analyze_session("+target.String()+")", job.String())
}
