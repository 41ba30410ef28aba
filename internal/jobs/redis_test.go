package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeList emulates a Redis list; popErrs are returned before any value
type fakeList struct {
	items   []string
	popErrs []error
	pushErr error
	pops    int
}

func (f *fakeList) LPush(_ context.Context, _ string, values ...interface{}) *goredis.IntCmd {
	if f.pushErr != nil {
		return goredis.NewIntResult(0, f.pushErr)
	}
	for _, v := range values {
		var s string
		switch raw := v.(type) {
		case []byte:
			s = string(raw)
		case string:
			s = raw
		}
		f.items = append([]string{s}, f.items...)
	}
	return goredis.NewIntResult(int64(len(f.items)), nil)
}

func (f *fakeList) BRPop(_ context.Context, _ time.Duration, keys ...string) *goredis.StringSliceCmd {
	f.pops++
	if len(f.popErrs) > 0 {
		err := f.popErrs[0]
		f.popErrs = f.popErrs[1:]
		return goredis.NewStringSliceResult(nil, err)
	}
	if len(f.items) == 0 {
		return goredis.NewStringSliceResult(nil, goredis.Nil)
	}
	last := f.items[len(f.items)-1]
	f.items = f.items[:len(f.items)-1]
	return goredis.NewStringSliceResult([]string{keys[0], last}, nil)
}

func (f *fakeList) LLen(_ context.Context, _ string) *goredis.IntCmd {
	return goredis.NewIntResult(int64(len(f.items)), nil)
}

func TestRedisQueue_RoundTripFIFO(t *testing.T) {
	store := &fakeList{}
	q := newRedisQueue(store, "jobs")
	ctx := context.Background()

	first := NewJob(KindAnalyzeDeck, uuid.New())
	second := NewJob(KindGenerateQuestions, uuid.New())
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, KindAnalyzeDeck, got.Kind)
	assert.Equal(t, first.TargetID, got.TargetID)
}

func TestRedisQueue_PayloadIsJSON(t *testing.T) {
	store := &fakeList{}
	q := newRedisQueue(store, "jobs")
	job := NewJob(KindAnalyzeSession, uuid.New())
	require.NoError(t, q.Enqueue(context.Background(), job))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(store.items[0]), &decoded))
	assert.Equal(t, "analyze_session", decoded["kind"])
	assert.Equal(t, job.TargetID.String(), decoded["target_id"])
}

func TestRedisQueue_KeepsPollingOnTimeout(t *testing.T) {
	store := &fakeList{popErrs: []error{goredis.Nil, goredis.Nil}}
	q := newRedisQueue(store, "jobs")
	job := NewJob(KindAnalyzeDeck, uuid.New())
	require.NoError(t, q.Enqueue(context.Background(), job))

	got, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, 3, store.pops)
}

func TestRedisQueue_Errors(t *testing.T) {
	q := newRedisQueue(&fakeList{pushErr: errors.New("READONLY")}, "jobs")
	assert.Error(t, q.Enqueue(context.Background(), NewJob(KindAnalyzeDeck, uuid.New())))

	q = newRedisQueue(&fakeList{popErrs: []error{errors.New("connection reset")}}, "jobs")
	_, err := q.Dequeue(context.Background())
	assert.ErrorContains(t, err, "failed to dequeue")

	store := &fakeList{items: []string{"not json"}}
	q = newRedisQueue(store, "jobs")
	_, err = q.Dequeue(context.Background())
	assert.ErrorContains(t, err, "failed to decode job")
}

func TestRedisQueue_CancelledContext(t *testing.T) {
	q := newRedisQueue(&fakeList{}, "jobs")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
