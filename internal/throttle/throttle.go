// Package throttle spaces out calls to the generative model API.
package throttle

import (
	"context"
	"time"
)

// DefaultDelay is the minimum spacing between two model calls
const DefaultDelay = 5 * time.Second

// Throttle blocks until the caller may issue the next model call
type Throttle interface {
	Wait(ctx context.Context) error
}

// SleepFunc sleeps for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the context-aware SleepFunc used outside tests
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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

// Fixed sleeps the full delay before every call. It is enough for a single
// worker process; several processes sharing one API key should use Redis.
type Fixed struct {
	Delay time.Duration
	Sleep SleepFunc
}

// NewFixed creates a Fixed throttle with the given delay
func NewFixed(delay time.Duration) *Fixed {
	return &Fixed{Delay: delay, Sleep: Sleep}
}

func (f *Fixed) Wait(ctx context.Context) error {
	sleep := f.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	return sleep(ctx, f.Delay)
}

// None never waits
type None struct{}

func (None) Wait(ctx context.Context) error { return ctx.Err() }
