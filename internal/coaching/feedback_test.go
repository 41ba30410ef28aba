package coaching

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/pitch-perfect/internal/orchestrator"
	"github.com/jonathan/pitch-perfect/internal/types"
)

func sampleMetrics() types.TranscriptMetrics {
	return types.TranscriptMetrics{
		WordCount:           300,
		SpeakingPaceWPM:     150,
		FillerWordCount:     9,
		FillerWordBreakdown: map[string]int{"so": 1, "um": 4, "like": 2, "yeah": 1, "okay": 1},
		PaceScore:           100,
		ClarityScore:        70,
	}
}

func TestBuildFeedbackPrompt(t *testing.T) {
	prompt := BuildFeedbackPrompt(FeedbackInput{
		PitchType:             types.PitchTypeDemoDay,
		Transcript:            strings.Repeat("a", 600),
		DurationSeconds:       125,
		TargetDurationSeconds: 120,
		Metrics:               sampleMetrics(),
		Deck:                  &DeckContext{Title: "Acme Seed", TotalSlides: 12},
	})

	assert.Contains(t, prompt, "- Pitch Type: Demo Day Pitch")
	assert.Contains(t, prompt, "- Duration: 125 seconds (2 minutes)")
	assert.Contains(t, prompt, "- Target Duration: 120 seconds")
	assert.Contains(t, prompt, "**Pitch Title:** Acme Seed")
	assert.Contains(t, prompt, "**Total Slides:** 12")
	assert.Contains(t, prompt, "- Speaking Pace: 150.0 words per minute")
	assert.Contains(t, prompt, "- Filler Words: 9 (um: 4, like: 2, so: 1, okay: 1, yeah: 1)")
	assert.Contains(t, prompt, "- Pace Score: 100/100")
	assert.Contains(t, prompt, strings.Repeat("a", 500)+"...")
	assert.NotContains(t, prompt, strings.Repeat("a", 501))
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildFeedbackPrompt_NoDeck(t *testing.T) {
	prompt := BuildFeedbackPrompt(FeedbackInput{PitchType: types.PitchTypeElevator, Metrics: sampleMetrics()})

	assert.NotContains(t, prompt, "Pitch Title")
	assert.Contains(t, prompt, "Elevator Pitch")
}

func TestFillerSummary_LimitsAndOrders(t *testing.T) {
	breakdown := map[string]int{"you see": 1, "i mean": 2, "um": 1, "uh": 1, "like": 1, "so": 3}
	assert.Equal(t, "um: 1, uh: 1, like: 1, so: 3, i mean: 2", FillerSummary(breakdown, 5))
	assert.Equal(t, "", FillerSummary(map[string]int{}, 5))
}

func TestFeedbackGenerator_ComposesOverallLocally(t *testing.T) {
	caller := &fakeCaller{result: orchestrator.Result{
		Reason: orchestrator.ReasonNone,
		Record: map[string]interface{}{
			"confidence_score": 80.0,
			"content_score":    70.0,
			"structure_score":  60.0,
			"feedback":         "Nice energy.",
			"strengths":        []interface{}{"Energy"},
			"improvements":     []interface{}{"Structure"},
		},
	}}
	metrics := types.TranscriptMetrics{PaceScore: 100, ClarityScore: 90}

	result, outcome := NewFeedbackGenerator(caller, nil).Generate(context.Background(), FeedbackInput{Metrics: metrics})

	assert.False(t, outcome.Degraded)
	assert.Equal(t, 80.0, result.OverallScore)
	assert.Equal(t, 100.0, result.PaceScore)
	assert.Equal(t, 90.0, result.ClarityScore)
	assert.Equal(t, "Nice energy.", result.Feedback)
	assert.Same(t, FeedbackSchema, caller.schemas[0])
}

func TestFeedbackGenerator_ClampsScores(t *testing.T) {
	caller := &fakeCaller{result: orchestrator.Result{Record: map[string]interface{}{
		"confidence_score": 150.0, "content_score": -5.0, "structure_score": 50.0,
		"feedback": "", "strengths": []interface{}{}, "improvements": []interface{}{},
	}}}

	result, _ := NewFeedbackGenerator(caller, nil).Generate(context.Background(), FeedbackInput{})

	assert.Equal(t, 100.0, result.ConfidenceScore)
	assert.Equal(t, 0.0, result.ContentScore)
	assert.Equal(t, 30.0, result.OverallScore)
}

func TestFeedbackGenerator_DegradedUsesDefaultsAndMetrics(t *testing.T) {
	o := newRealOrchestrator(t, "", errors.New("service unavailable"))
	metrics := types.TranscriptMetrics{PaceScore: 90, ClarityScore: 80}

	result, outcome := NewFeedbackGenerator(o, nil).Generate(context.Background(), FeedbackInput{Metrics: metrics})

	assert.True(t, outcome.Degraded)
	assert.Equal(t, 70.0, result.ConfidenceScore)
	assert.Equal(t, 70.0, result.ContentScore)
	assert.Equal(t, 70.0, result.StructureScore)
	assert.Equal(t, 76.0, result.OverallScore)
	assert.Equal(t, "Thank you for practicing your pitch. Keep working on your delivery and timing.", result.Feedback)
	assert.Len(t, result.Improvements, 3)
}

func TestFeedbackGenerator_BackfillsMissingScores(t *testing.T) {
	o := newRealOrchestrator(t, `{"confidence_score": 85, "feedback": "Confident delivery."}`, nil)
	metrics := types.TranscriptMetrics{PaceScore: 100, ClarityScore: 100}

	result, outcome := NewFeedbackGenerator(o, nil).Generate(context.Background(), FeedbackInput{Metrics: metrics})

	assert.False(t, outcome.Degraded)
	assert.Equal(t, orchestrator.ReasonBackfilled, outcome.Reason)
	assert.Equal(t, 85.0, result.ConfidenceScore)
	assert.Equal(t, 75.0, result.ContentScore)
	assert.Equal(t, 75.0, result.StructureScore)
	assert.Equal(t, []string{"Clear delivery"}, result.Strengths)
	assert.Equal(t, []string{"Keep practicing"}, result.Improvements)
	assert.Equal(t, 87.0, result.OverallScore)
}
