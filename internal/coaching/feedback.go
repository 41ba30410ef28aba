package coaching

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/pitch-perfect/internal/logger"
	"github.com/jonathan/pitch-perfect/internal/orchestrator"
	"github.com/jonathan/pitch-perfect/internal/prompts"
	"github.com/jonathan/pitch-perfect/internal/scoring"
	"github.com/jonathan/pitch-perfect/internal/textmetrics"
	"github.com/jonathan/pitch-perfect/internal/types"
	schemadocs "github.com/jonathan/pitch-perfect/schemas"
)

const (
	// MaxExcerptChars bounds the transcript excerpt sent to the model
	MaxExcerptChars = 500
	maxFillersShown = 5
)

// FeedbackSchema is the response contract for practice feedback
var FeedbackSchema = orchestrator.MustSchema(orchestrator.Schema{
	Name:     "practice_feedback",
	Kind:     orchestrator.KindObject,
	Required: []string{"confidence_score", "content_score", "structure_score", "feedback", "strengths", "improvements"},
	Defaults: map[string]interface{}{
		"confidence_score": 75,
		"content_score":    75,
		"structure_score":  75,
		"feedback":         "Good effort on your practice session.",
		"strengths":        []string{"Clear delivery"},
		"improvements":     []string{"Keep practicing"},
	},
	DefaultRecord: map[string]interface{}{
		"confidence_score": 70,
		"content_score":    70,
		"structure_score":  70,
		"feedback":         "Thank you for practicing your pitch. Keep working on your delivery and timing.",
		"strengths":        []string{"Completed the practice session", "Demonstrated commitment to improvement"},
		"improvements": []string{
			"Focus on reducing filler words",
			"Work on maintaining consistent pacing",
			"Practice more frequently for better results",
		},
	},
	JSONSchema: schemadocs.MustRead(schemadocs.Feedback),
})

// DeckContext is the optional pitch deck a session was practiced against
type DeckContext struct {
	Title       string
	TotalSlides int
}

// FeedbackInput is everything the feedback prompt is built from
type FeedbackInput struct {
	PitchType             types.PitchType
	Transcript            string
	DurationSeconds       int
	TargetDurationSeconds int
	Metrics               types.TranscriptMetrics
	Deck                  *DeckContext
}

// FeedbackGenerator produces coaching feedback for practice sessions
type FeedbackGenerator struct {
	caller Caller
	log    *logger.Logger
}

// NewFeedbackGenerator creates a FeedbackGenerator
func NewFeedbackGenerator(caller Caller, log *logger.Logger) *FeedbackGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &FeedbackGenerator{caller: caller, log: log.With("service", "FeedbackGenerator")}
}

// Generate asks the model for sub-scores and narrative, then composes the
// overall score locally from those and the transcript metrics.
func (g *FeedbackGenerator) Generate(ctx context.Context, in FeedbackInput) (types.FeedbackResult, Outcome) {
	result := g.caller.Call(ctx, BuildFeedbackPrompt(in), FeedbackSchema)

	var ai types.AIScores
	outcome := outcomeOf(result)
	if err := result.Decode(&ai); err != nil {
		g.log.Error("failed to decode feedback", "error", err)
		ai = DefaultAIScores()
		outcome = degradedOutcome()
	}
	ai.ConfidenceScore = scoring.Clamp(ai.ConfidenceScore)
	ai.ContentScore = scoring.Clamp(ai.ContentScore)
	ai.StructureScore = scoring.Clamp(ai.StructureScore)

	return scoring.Compose(in.Metrics, ai), outcome
}

// DefaultAIScores are the scores used when the model gives nothing usable
func DefaultAIScores() types.AIScores {
	var ai types.AIScores
	_ = orchestrator.Result{Record: FeedbackSchema.DefaultRecord}.Decode(&ai)
	return ai
}

// BuildFeedbackPrompt renders the practice feedback prompt
func BuildFeedbackPrompt(in FeedbackInput) string {
	deckContext := ""
	if in.Deck != nil {
		deckContext = prompts.Format(prompts.MustGet(prompts.FeedbackFile, prompts.KeyDeckContext), map[string]string{
			"Title":       in.Deck.Title,
			"TotalSlides": strconv.Itoa(in.Deck.TotalSlides),
		})
	}

	m := in.Metrics
	template := prompts.MustGet(prompts.FeedbackFile, prompts.KeyPracticeFeedback)
	return prompts.Format(template, map[string]string{
		"PitchType":       in.PitchType.Label(),
		"DurationSeconds": strconv.Itoa(in.DurationSeconds),
		"DurationMinutes": strconv.Itoa(in.DurationSeconds / 60),
		"TargetSeconds":   strconv.Itoa(in.TargetDurationSeconds),
		"DeckContext":     deckContext,
		"WordCount":       strconv.Itoa(m.WordCount),
		"PaceWPM":         fmt.Sprintf("%.1f", m.SpeakingPaceWPM),
		"FillerCount":     strconv.Itoa(m.FillerWordCount),
		"FillerDetail":    FillerSummary(m.FillerWordBreakdown, maxFillersShown),
		"PaceScore":       formatScore(m.PaceScore),
		"ClarityScore":    formatScore(m.ClarityScore),
		"Excerpt":         truncateRunes(in.Transcript, MaxExcerptChars),
	})
}

// FillerSummary lists up to limit fillers as "word: count" in dictionary order
func FillerSummary(breakdown map[string]int, limit int) string {
	parts := make([]string, 0, limit)
	for _, word := range textmetrics.FillerWords {
		if len(parts) == limit {
			break
		}
		if n := breakdown[word]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", word, n))
		}
	}
	return strings.Join(parts, ", ")
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
