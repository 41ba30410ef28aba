package types

import "strings"

// QuestionCategory groups investor questions by topic
type QuestionCategory string

// Question categories
const (
	CategoryMarket        QuestionCategory = "market"
	CategoryCompetition   QuestionCategory = "competition"
	CategoryBusinessModel QuestionCategory = "business_model"
	CategoryTeam          QuestionCategory = "team"
	CategoryTraction      QuestionCategory = "traction"
	CategoryFinancials    QuestionCategory = "financials"
	CategoryProduct       QuestionCategory = "product"
	CategoryRisks         QuestionCategory = "risks"
)

// QuestionCategories lists the eight known categories
var QuestionCategories = []QuestionCategory{
	CategoryMarket, CategoryCompetition, CategoryBusinessModel, CategoryTeam,
	CategoryTraction, CategoryFinancials, CategoryProduct, CategoryRisks,
}

// ParseQuestionCategory normalizes a category, mapping unknown values to risks
func ParseQuestionCategory(s string) QuestionCategory {
	c := QuestionCategory(normalizeEnum(s))
	for _, known := range QuestionCategories {
		if c == known {
			return c
		}
	}
	return CategoryRisks
}

// Difficulty of a generated question
type Difficulty string

// Difficulty levels
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes a difficulty, defaulting to medium
func ParseDifficulty(s string) Difficulty {
	switch d := Difficulty(normalizeEnum(s)); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d
	default:
		return DifficultyMedium
	}
}

// GeneratedQuestion is one investor question produced for a pitch deck
type GeneratedQuestion struct {
	QuestionText       string           `json:"question_text"`
	Category           QuestionCategory `json:"category"`
	Difficulty         Difficulty       `json:"difficulty"`
	RelatedSlideNumber *int             `json:"related_slide_number"`
	KeyPointsToCover   []string         `json:"key_points_to_cover"`
}

// AnswerScores is the heuristic evaluation of an answer to an investor question
type AnswerScores struct {
	WordCount         int     `json:"word_count"`
	QualityScore      float64 `json:"quality_score"`
	CompletenessScore float64 `json:"completeness_score"`
	ClarityScore      float64 `json:"clarity_score"`
	PaceScore         float64 `json:"pace_score"`
	RelevanceScore    float64 `json:"relevance_score"`
	Feedback          string  `json:"feedback"`
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "-", "_")
}
