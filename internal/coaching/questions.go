package coaching

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonathan/pitch-perfect/internal/logger"
	"github.com/jonathan/pitch-perfect/internal/orchestrator"
	"github.com/jonathan/pitch-perfect/internal/prompts"
	"github.com/jonathan/pitch-perfect/internal/types"
	schemadocs "github.com/jonathan/pitch-perfect/schemas"
)

// MaxSlideSummaryChars bounds each slide's text in the question prompt
const MaxSlideSummaryChars = 200

// QuestionSchema is the response contract for investor question generation
var QuestionSchema = orchestrator.MustSchema(orchestrator.Schema{
	Name:                "investor_questions",
	Kind:                orchestrator.KindArray,
	RequiredEntryFields: []string{"question_text", "category"},
	Defaults: map[string]interface{}{
		"difficulty":           string(types.DifficultyMedium),
		"related_slide_number": nil,
		"key_points_to_cover":  []string{},
	},
	DefaultItems: []map[string]interface{}{
		{
			"question_text":        "What is the total addressable market for your solution?",
			"category":             "market",
			"difficulty":           "easy",
			"related_slide_number": nil,
			"key_points_to_cover":  []string{"TAM size", "Market segments", "Growth rate"},
		},
		{
			"question_text":        "How do you differentiate from your main competitors?",
			"category":             "competition",
			"difficulty":           "medium",
			"related_slide_number": nil,
			"key_points_to_cover":  []string{"Unique features", "Competitive advantages", "Market positioning"},
		},
		{
			"question_text":        "What are your customer acquisition costs?",
			"category":             "business_model",
			"difficulty":           "hard",
			"related_slide_number": nil,
			"key_points_to_cover":  []string{"CAC metric", "LTV ratio", "Unit economics"},
		},
		{
			"question_text":        "What experience does your team have in this industry?",
			"category":             "team",
			"difficulty":           "easy",
			"related_slide_number": nil,
			"key_points_to_cover":  []string{"Founder backgrounds", "Domain expertise", "Track record"},
		},
		{
			"question_text":        "What are your key metrics and how are they trending?",
			"category":             "traction",
			"difficulty":           "medium",
			"related_slide_number": nil,
			"key_points_to_cover":  []string{"Revenue", "Users", "Growth rate", "Retention"},
		},
	},
	JSONSchema: schemadocs.MustRead(schemadocs.Question),
})

// SlideSummary is the per-slide context given to question generation
type SlideSummary struct {
	Number int
	Type   types.SlideType
	Text   string
}

// QuestionInput describes the deck questions are generated for
type QuestionInput struct {
	Title       string
	TotalSlides int
	Slides      []SlideSummary
}

// QuestionGenerator produces likely investor questions for a deck
type QuestionGenerator struct {
	caller Caller
	log    *logger.Logger
}

// NewQuestionGenerator creates a QuestionGenerator
func NewQuestionGenerator(caller Caller, log *logger.Logger) *QuestionGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &QuestionGenerator{caller: caller, log: log.With("service", "QuestionGenerator")}
}

// Generate returns normalized questions. Entries without text or category are
// dropped, which may leave none. The canned questions are returned only when
// the call or its response fails.
func (g *QuestionGenerator) Generate(ctx context.Context, in QuestionInput) ([]types.GeneratedQuestion, Outcome) {
	g.log.Info("generating questions", "deck_title", in.Title, "slides", len(in.Slides))

	result := g.caller.Call(ctx, BuildQuestionPrompt(in), QuestionSchema)

	var questions []types.GeneratedQuestion
	if err := result.Decode(&questions); err != nil {
		g.log.Error("failed to decode questions", "error", err)
		return DefaultQuestions(), degradedOutcome()
	}
	questions = normalizeQuestions(questions, in.TotalSlides)
	if len(questions) == 0 {
		g.log.Warn("no usable questions in response", "dropped", result.Dropped)
	}
	g.log.Info("generated questions", "count", len(questions), "degraded", result.Degraded)
	return questions, outcomeOf(result)
}

// BuildQuestionPrompt renders the investor question prompt
func BuildQuestionPrompt(in QuestionInput) string {
	lineTemplate := prompts.MustGet(prompts.QuestionsFile, prompts.KeySlideLine)
	lines := make([]string, 0, len(in.Slides))
	for _, s := range in.Slides {
		lines = append(lines, prompts.Format(lineTemplate, map[string]string{
			"Number": strconv.Itoa(s.Number),
			"Type":   string(s.Type),
			"Text":   truncateRunes(strings.TrimSpace(s.Text), MaxSlideSummaryChars),
		}))
	}

	template := prompts.MustGet(prompts.QuestionsFile, prompts.KeyInvestorQuestions)
	return prompts.Format(template, map[string]string{
		"Title":        in.Title,
		"TotalSlides":  strconv.Itoa(in.TotalSlides),
		"SlideSummary": strings.Join(lines, "\n"),
	})
}

// DefaultQuestions are the canned questions used when generation fails
func DefaultQuestions() []types.GeneratedQuestion {
	var questions []types.GeneratedQuestion
	_ = orchestrator.Result{Items: QuestionSchema.DefaultItems}.Decode(&questions)
	return questions
}

func normalizeQuestions(in []types.GeneratedQuestion, totalSlides int) []types.GeneratedQuestion {
	out := make([]types.GeneratedQuestion, 0, len(in))
	for _, q := range in {
		q.QuestionText = strings.TrimSpace(q.QuestionText)
		if q.QuestionText == "" {
			continue
		}
		q.Category = types.ParseQuestionCategory(string(q.Category))
		q.Difficulty = types.ParseDifficulty(string(q.Difficulty))
		if q.RelatedSlideNumber != nil && (*q.RelatedSlideNumber < 1 || (totalSlides > 0 && *q.RelatedSlideNumber > totalSlides)) {
			q.RelatedSlideNumber = nil
		}
		if q.KeyPointsToCover == nil {
			q.KeyPointsToCover = []string{}
		}
		out = append(out, q)
	}
	return out
}
