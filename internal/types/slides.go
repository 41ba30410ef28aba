// Package types provides type definitions for structured data used throughout the pitch coaching system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SlideType categorizes what a pitch deck slide is about
type SlideType string

// Slide categories recognized by the slide analyzer
const (
	SlideTypeTitle         SlideType = "title"
	SlideTypeProblem       SlideType = "problem"
	SlideTypeSolution      SlideType = "solution"
	SlideTypeProduct       SlideType = "product"
	SlideTypeMarket        SlideType = "market"
	SlideTypeBusinessModel SlideType = "business_model"
	SlideTypeTraction      SlideType = "traction"
	SlideTypeCompetition   SlideType = "competition"
	SlideTypeTeam          SlideType = "team"
	SlideTypeFinancials    SlideType = "financials"
	SlideTypeAsk           SlideType = "ask"
	SlideTypeOther         SlideType = "other"
)

// SlideTypes lists every slide category in prompt order
var SlideTypes = []SlideType{
	SlideTypeTitle, SlideTypeProblem, SlideTypeSolution, SlideTypeProduct,
	SlideTypeMarket, SlideTypeBusinessModel, SlideTypeTraction, SlideTypeCompetition,
	SlideTypeTeam, SlideTypeFinancials, SlideTypeAsk, SlideTypeOther,
}

// Valid reports whether t is one of the known slide categories
func (t SlideType) Valid() bool {
	for _, known := range SlideTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseSlideType normalizes free-form text to a SlideType, falling back to "other"
func ParseSlideType(s string) SlideType {
	t := SlideType(normalizeEnum(s))
	if t.Valid() {
		return t
	}
	return SlideTypeOther
}

// SlideContent is the output contract of deck extraction: one entry per slide or page.
type SlideContent struct {
	Number    int    `json:"number"`
	Text      string `json:"text"`
	Notes     string `json:"notes,omitempty"`
	HasImages bool   `json:"has_images"`
	HasCharts bool   `json:"has_charts"`
	WordCount int    `json:"word_count"`
}

// SlideAnalysis is the validated AI assessment of a single slide
type SlideAnalysis struct {
	SlideType             SlideType `json:"slide_type"`
	QualityScore          float64   `json:"quality_score"`
	Strengths             []string  `json:"strengths"`
	Weaknesses            []string  `json:"weaknesses"`
	Suggestions           string    `json:"suggestions"`
	CoachingScript        string    `json:"coaching_script"`
	KeyPoints             []string  `json:"key_points"`
	EstimatedSpeakingTime int       `json:"estimated_speaking_time"`
}
