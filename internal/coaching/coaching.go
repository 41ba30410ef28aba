// Package coaching implements the three AI call sites of the coaching flow:
// slide analysis, practice feedback and investor question generation.
package coaching

import (
	"context"
	"unicode/utf8"

	"github.com/jonathan/pitch-perfect/internal/orchestrator"
)

// Caller runs a structured model call. *orchestrator.Orchestrator implements it.
type Caller interface {
	Call(ctx context.Context, prompt string, schema *orchestrator.Schema) orchestrator.Result
}

// Outcome tells the caller how a call site result was produced
type Outcome struct {
	Degraded bool                `json:"degraded"`
	Reason   orchestrator.Reason `json:"reason"`
	Repaired []string            `json:"repaired,omitempty"`
	Dropped  int                 `json:"dropped,omitempty"`
}

func outcomeOf(r orchestrator.Result) Outcome {
	return Outcome{
		Degraded: r.Degraded,
		Reason:   r.Reason,
		Repaired: r.Repaired,
		Dropped:  r.Dropped,
	}
}

func degradedOutcome() Outcome {
	return Outcome{Degraded: true, Reason: orchestrator.ReasonParseError}
}

// truncateRunes cuts s to at most n characters without splitting a rune
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
