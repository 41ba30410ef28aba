package orchestrator

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jonathan/pitch-perfect/internal/llm"
)

// RetryPolicy controls attempts and waits for rate-limited calls
type RetryPolicy struct {
	MaxAttempts int
	// CallDelay is the spacing enforced before every attempt
	CallDelay time.Duration
	// BaseWait and StepWait give the wait after a rate-limited attempt:
	// BaseWait + StepWait*attempt, attempt counted from 0.
	BaseWait time.Duration
	StepWait time.Duration
}

// DefaultRetryPolicy waits 60s, 90s, 120s and 150s between five attempts
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		CallDelay:   5 * time.Second,
		BaseWait:    60 * time.Second,
		StepWait:    30 * time.Second,
	}
}

// Backoff returns the wait after the given 0-based failed attempt
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return p.BaseWait + time.Duration(attempt)*p.StepWait
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// scheduleBackOff adapts a RetryPolicy to backoff.BackOff
type scheduleBackOff struct {
	policy  RetryPolicy
	retries int
}

func (b *scheduleBackOff) NextBackOff() time.Duration {
	if b.retries+1 >= b.policy.attempts() {
		return backoff.Stop
	}
	wait := b.policy.Backoff(b.retries)
	b.retries++
	return wait
}

func (b *scheduleBackOff) Reset() {
	b.retries = 0
}

var rateLimitPattern = regexp.MustCompile(`(?i)quota|\brate\b|\brate[\s_-]?limit|\b429\b`)

// IsRateLimit reports whether err signals a rate limit or exhausted quota:
// HTTP 429, or any message in the wrap chain mentioning quota or rate as a
// whole word. Words that merely contain "rate", such as "generate", do not count.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if llm.StatusCode(err) == http.StatusTooManyRequests {
		return true
	}
	for ; err != nil; err = errors.Unwrap(err) {
		if rateLimitPattern.MatchString(err.Error()) {
			return true
		}
	}
	return false
}
