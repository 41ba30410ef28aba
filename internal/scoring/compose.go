// Package scoring combines deterministic transcript scores with AI scores
// and maintains running statistics.
package scoring

import (
	"math"

	"github.com/jonathan/pitch-perfect/internal/types"
)

// Compose builds the feedback result for a practice session. Pace and clarity
// come from the transcript metrics; the overall score is the mean of the five
// scores rounded to two decimals.
func Compose(metrics types.TranscriptMetrics, ai types.AIScores) types.FeedbackResult {
	overall := (metrics.PaceScore + metrics.ClarityScore +
		ai.ConfidenceScore + ai.ContentScore + ai.StructureScore) / 5

	return types.FeedbackResult{
		AIScores:     ai,
		PaceScore:    metrics.PaceScore,
		ClarityScore: metrics.ClarityScore,
		OverallScore: Round2(overall),
	}
}

// Round2 rounds half away from zero to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp bounds a score to the 0-100 range
func Clamp(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}
