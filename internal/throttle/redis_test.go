package throttle

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlots struct {
	setResults []bool
	setErr     error
	ttl        time.Duration
	ttlErr     error

	setCalls int
	lastKey  string
	lastTTL  time.Duration
}

func (f *fakeSlots) SetNX(_ context.Context, key string, _ interface{}, expiration time.Duration) *goredis.BoolCmd {
	f.lastKey = key
	f.lastTTL = expiration
	if f.setErr != nil {
		return goredis.NewBoolResult(false, f.setErr)
	}
	ok := true
	if f.setCalls < len(f.setResults) {
		ok = f.setResults[f.setCalls]
	}
	f.setCalls++
	return goredis.NewBoolResult(ok, nil)
}

func (f *fakeSlots) PTTL(_ context.Context, _ string) *goredis.DurationCmd {
	return goredis.NewDurationResult(f.ttl, f.ttlErr)
}

func TestRedis_FreeSlotDoesNotWait(t *testing.T) {
	store := &fakeSlots{setResults: []bool{true}}
	rec := &sleepRecorder{}
	r := newRedis(store, 5*time.Second, nil, WithSleep(rec.sleep))

	require.NoError(t, r.Wait(context.Background()))
	assert.Empty(t, rec.calls)
	assert.Equal(t, DefaultKey, store.lastKey)
	assert.Equal(t, 5*time.Second, store.lastTTL)
}

func TestRedis_WaitsForRemainingTTL(t *testing.T) {
	store := &fakeSlots{setResults: []bool{false, false, true}, ttl: 1200 * time.Millisecond}
	rec := &sleepRecorder{}
	r := newRedis(store, 5*time.Second, nil, WithSleep(rec.sleep), WithKey("custom"))

	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, []time.Duration{1200 * time.Millisecond, 1200 * time.Millisecond}, rec.calls)
	assert.Equal(t, 3, store.setCalls)
	assert.Equal(t, "custom", store.lastKey)
}

func TestRedis_FallsBackOnError(t *testing.T) {
	store := &fakeSlots{setErr: errors.New("connection refused")}
	rec := &sleepRecorder{}
	r := newRedis(store, 5*time.Second, nil, WithSleep(rec.sleep))

	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, []time.Duration{5 * time.Second}, rec.calls)
}

func TestRedis_FallsBackOnTTLError(t *testing.T) {
	store := &fakeSlots{setResults: []bool{false}, ttlErr: errors.New("timeout")}
	rec := &sleepRecorder{}
	r := newRedis(store, 2*time.Second, nil, WithSleep(rec.sleep))

	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, []time.Duration{2 * time.Second}, rec.calls)
}

func TestRedis_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRedis(&fakeSlots{}, time.Second, nil)
	assert.ErrorIs(t, r.Wait(ctx), context.Canceled)
}

func TestRedis_SleepErrorStopsWaiting(t *testing.T) {
	store := &fakeSlots{setResults: []bool{false}, ttl: time.Second}
	rec := &sleepRecorder{err: context.Canceled}
	r := newRedis(store, time.Second, nil, WithSleep(rec.sleep))

	err := r.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPollInterval(t *testing.T) {
	assert.Equal(t, 5*time.Second, pollInterval(-1, 5*time.Second))
	assert.Equal(t, minPoll, pollInterval(-2, 5*time.Second))
	assert.Equal(t, minPoll, pollInterval(10*time.Millisecond, 5*time.Second))
	assert.Equal(t, 3*time.Second, pollInterval(3*time.Second, 5*time.Second))
}
