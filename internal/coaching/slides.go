package coaching

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonathan/pitch-perfect/internal/logger"
	"github.com/jonathan/pitch-perfect/internal/orchestrator"
	"github.com/jonathan/pitch-perfect/internal/prompts"
	"github.com/jonathan/pitch-perfect/internal/scoring"
	"github.com/jonathan/pitch-perfect/internal/types"
	schemadocs "github.com/jonathan/pitch-perfect/schemas"
)

const (
	// MaxSlideContentChars bounds the slide text sent to the model
	MaxSlideContentChars = 500
	noTextContent        = "[No text content]"
	defaultSpeakingTime  = 30
)

// SlideSchema is the response contract for slide analysis
var SlideSchema = orchestrator.MustSchema(orchestrator.Schema{
	Name: "slide_analysis",
	Kind: orchestrator.KindObject,
	Required: []string{
		"slide_type", "quality_score", "strengths", "weaknesses",
		"suggestions", "coaching_script", "key_points", "estimated_speaking_time",
	},
	Defaults: map[string]interface{}{
		"slide_type":              string(types.SlideTypeOther),
		"quality_score":           70,
		"strengths":               []string{"Content is present"},
		"weaknesses":              []string{"Needs improvement"},
		"suggestions":             "Review and refine this slide for clarity and impact.",
		"coaching_script":         "Present this slide with confidence and clarity.",
		"key_points":              []string{"Main point 1", "Main point 2"},
		"estimated_speaking_time": defaultSpeakingTime,
	},
	DefaultRecord: map[string]interface{}{
		"slide_type":              string(types.SlideTypeOther),
		"quality_score":           70,
		"strengths":               []string{"Slide content is present"},
		"weaknesses":              []string{"Automated analysis unavailable"},
		"suggestions":             "Please review this slide manually for improvements.",
		"coaching_script":         "Present the key points from this slide clearly and confidently.",
		"key_points":              []string{"Review slide content", "Identify main message", "Practice delivery"},
		"estimated_speaking_time": defaultSpeakingTime,
	},
	JSONSchema: schemadocs.MustRead(schemadocs.SlideAnalysis),
})

// SlideAnalyzer asks the model to assess one slide at a time
type SlideAnalyzer struct {
	caller Caller
	log    *logger.Logger
}

// NewSlideAnalyzer creates a SlideAnalyzer
func NewSlideAnalyzer(caller Caller, log *logger.Logger) *SlideAnalyzer {
	if log == nil {
		log = logger.Nop()
	}
	return &SlideAnalyzer{caller: caller, log: log.With("service", "SlideAnalyzer")}
}

// Analyze returns the analysis of slide. It always returns a usable analysis;
// Outcome reports whether defaults were involved.
func (a *SlideAnalyzer) Analyze(ctx context.Context, slide types.SlideContent) (types.SlideAnalysis, Outcome) {
	a.log.Info("analyzing slide", "slide_number", slide.Number)

	result := a.caller.Call(ctx, BuildSlidePrompt(slide), SlideSchema)

	var analysis types.SlideAnalysis
	if err := result.Decode(&analysis); err != nil {
		a.log.Error("failed to decode slide analysis", "slide_number", slide.Number, "error", err)
		return DefaultSlideAnalysis(), degradedOutcome()
	}
	normalizeSlideAnalysis(&analysis)
	return analysis, outcomeOf(result)
}

// BuildSlidePrompt renders the slide analysis prompt
func BuildSlidePrompt(slide types.SlideContent) string {
	content := strings.TrimSpace(slide.Text)
	if content == "" {
		content = noTextContent
	} else {
		content = truncateRunes(content, MaxSlideContentChars)
	}

	template := prompts.MustGet(prompts.SlidesFile, prompts.KeyAnalyzeSlide)
	return prompts.Format(template, map[string]string{
		"SlideNumber": strconv.Itoa(slide.Number),
		"Content":     content,
		"HasImages":   yesNo(slide.HasImages),
		"HasCharts":   yesNo(slide.HasCharts),
	})
}

// DefaultSlideAnalysis is the analysis used when the model gives nothing usable
func DefaultSlideAnalysis() types.SlideAnalysis {
	var analysis types.SlideAnalysis
	_ = orchestrator.Result{Record: SlideSchema.DefaultRecord}.Decode(&analysis)
	return analysis
}

func normalizeSlideAnalysis(a *types.SlideAnalysis) {
	a.SlideType = types.ParseSlideType(string(a.SlideType))
	a.QualityScore = scoring.Clamp(a.QualityScore)
	if a.EstimatedSpeakingTime <= 0 {
		a.EstimatedSpeakingTime = defaultSpeakingTime
	}
	if a.Strengths == nil {
		a.Strengths = []string{}
	}
	if a.Weaknesses == nil {
		a.Weaknesses = []string{}
	}
	if a.KeyPoints == nil {
		a.KeyPoints = []string{}
	}
}
