package orchestrator

import (
	"encoding/json"
	"fmt"
)

// Reason explains how a result was produced
type Reason string

// Result reasons
const (
	ReasonNone        Reason = "none"
	ReasonCallError   Reason = "call_error"
	ReasonRateLimited Reason = "rate_limited"
	ReasonParseError  Reason = "parse_error"
	ReasonBackfilled  Reason = "backfilled"
)

// Result is the outcome of a model call. Record is set for object schemas,
// Items for array schemas. Degraded means the whole default was used;
// a backfilled result is still a real model answer.
type Result struct {
	Record   map[string]interface{}
	Items    []map[string]interface{}
	Degraded bool
	Reason   Reason
	// Repaired lists fields that were backfilled or replaced by defaults
	Repaired []string
	// Dropped counts array entries discarded for missing required fields
	Dropped  int
	Attempts int
	// Err is the failure behind a degraded result
	Err error
}

// Decode converts the record or the items into v, a pointer to a struct or slice
func (r Result) Decode(v interface{}) error {
	var src interface{} = r.Record
	if r.Items != nil {
		src = r.Items
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}
