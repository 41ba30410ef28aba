// Package orchestrator issues structured requests to the model API and always
// hands back a usable record: rate limits are retried with a fixed schedule,
// malformed answers are repaired from default tables and anything else falls
// back to a default record.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jonathan/pitch-perfect/internal/llm"
	"github.com/jonathan/pitch-perfect/internal/logger"
	"github.com/jonathan/pitch-perfect/internal/throttle"
)

// maxLoggedRaw bounds how much of an unparseable response is logged
const maxLoggedRaw = 2000

// Config wires an Orchestrator. Nothing is read from the environment.
type Config struct {
	Client llm.Client
	Tier   llm.ModelTier
	Policy RetryPolicy
	// Throttle runs before every attempt; defaults to a fixed Policy.CallDelay sleep
	Throttle throttle.Throttle
	// Timer drives backoff waits; nil uses real time
	Timer  backoff.Timer
	Logger *logger.Logger
}

// Orchestrator runs model calls for the coaching call sites
type Orchestrator struct {
	client   llm.Client
	tier     llm.ModelTier
	policy   RetryPolicy
	throttle throttle.Throttle
	timer    backoff.Timer
	log      *logger.Logger
}

// New creates an Orchestrator from cfg
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("orchestrator requires an LLM client")
	}
	if cfg.Policy.MaxAttempts == 0 {
		cfg.Policy = DefaultRetryPolicy()
	}
	if cfg.Tier == "" {
		cfg.Tier = llm.TierStandard
	}
	if cfg.Throttle == nil {
		cfg.Throttle = throttle.NewFixed(cfg.Policy.CallDelay)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	return &Orchestrator{
		client:   cfg.Client,
		tier:     cfg.Tier,
		policy:   cfg.Policy,
		throttle: cfg.Throttle,
		timer:    cfg.Timer,
		log:      cfg.Logger.With("service", "AIOrchestrator"),
	}, nil
}

// Call sends prompt and returns a record shaped by schema. It never fails:
// errors are folded into a degraded Result carrying the schema's defaults.
func (o *Orchestrator) Call(ctx context.Context, prompt string, schema *Schema) Result {
	log := o.log.With("schema", schema.Name)

	raw, attempts, err := o.invoke(ctx, prompt)
	if err != nil {
		reason := ReasonCallError
		var apiErr *APICallError
		if errors.As(err, &apiErr) && apiErr.RateLimited {
			reason = ReasonRateLimited
		}
		log.Warn("model call failed, using default record", "reason", reason, "attempts", attempts, "error", err)
		return o.degraded(schema, reason, attempts, err)
	}

	result, err := schema.parse(raw)
	if err != nil {
		log.Warn("unusable model response, using default record", "error", err, "raw", truncate(raw, maxLoggedRaw))
		return o.degraded(schema, ReasonParseError, attempts, err)
	}

	result.Attempts = attempts
	if result.Reason == ReasonBackfilled || result.Dropped > 0 {
		log.Info("model response repaired", "repaired", result.Repaired, "dropped", result.Dropped)
	}
	return result
}

// invoke calls the model, retrying only rate-limited attempts
func (o *Orchestrator) invoke(ctx context.Context, prompt string) (string, int, error) {
	var (
		raw      string
		attempts int
	)

	operation := func() error {
		if err := o.throttle.Wait(ctx); err != nil {
			return backoff.Permanent(&APICallError{Message: "throttle wait interrupted", Cause: err})
		}
		attempts++

		text, err := o.client.GenerateJSON(ctx, prompt, o.tier)
		if err == nil {
			raw = text
			return nil
		}
		if IsRateLimit(err) {
			return &APICallError{Message: "rate limited", RateLimited: true, Cause: err}
		}
		return backoff.Permanent(&APICallError{Message: "model call failed", Cause: err})
	}

	notify := func(err error, wait time.Duration) {
		o.log.Warn("rate limited, backing off", "attempt", attempts, "wait", wait.String(), "error", err)
	}

	schedule := backoff.WithContext(&scheduleBackOff{policy: o.policy}, ctx)
	err := backoff.RetryNotifyWithTimer(operation, schedule, notify, o.timer)
	return raw, attempts, err
}

func (o *Orchestrator) degraded(schema *Schema, reason Reason, attempts int, err error) Result {
	result := Result{
		Degraded: true,
		Reason:   reason,
		Attempts: attempts,
		Err:      err,
	}
	if schema.Kind == KindArray {
		result.Items = schema.defaultItems()
	} else {
		result.Record = schema.defaultRecord()
	}
	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
