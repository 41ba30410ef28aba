package types

// TranscriptMetrics holds the deterministic speech metrics of a practice transcript.
// FillerWordCount always equals the sum of FillerWordBreakdown values.
type TranscriptMetrics struct {
	WordCount           int            `json:"word_count"`
	SentenceCount       int            `json:"sentence_count"`
	UniqueWordCount     int            `json:"unique_words_count"`
	VocabularyRatio     float64        `json:"vocabulary_ratio"`
	SpeakingPaceWPM     float64        `json:"speaking_pace_wpm"`
	FillerWordCount     int            `json:"filler_words_count"`
	FillerWordBreakdown map[string]int `json:"filler_words_detail"`
	PaceScore           float64        `json:"pace_score"`
	ClarityScore        float64        `json:"clarity_score"`
}

// AIScores are the sub-scores and narrative the AI provides for a practice session
type AIScores struct {
	ConfidenceScore float64  `json:"confidence_score"`
	ContentScore    float64  `json:"content_score"`
	StructureScore  float64  `json:"structure_score"`
	Feedback        string   `json:"feedback"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
}

// FeedbackResult combines AI sub-scores with the deterministic transcript scores
type FeedbackResult struct {
	AIScores
	PaceScore    float64 `json:"pace_score"`
	ClarityScore float64 `json:"clarity_score"`
	OverallScore float64 `json:"overall_score"`
}

// PitchType is the kind of pitch being practiced
type PitchType string

// Supported pitch types
const (
	PitchTypeElevator PitchType = "elevator"
	PitchTypeDemoDay  PitchType = "demo_day"
	PitchTypeInvestor PitchType = "investor"
	PitchTypeCustomer PitchType = "customer"
	PitchTypeOther    PitchType = "other"
)

var pitchTypeLabels = map[PitchType]string{
	PitchTypeElevator: "Elevator Pitch",
	PitchTypeDemoDay:  "Demo Day Pitch",
	PitchTypeInvestor: "Investor Meeting",
	PitchTypeCustomer: "Customer Pitch",
	PitchTypeOther:    "Other",
}

// Label returns the human readable name used in prompts
func (p PitchType) Label() string {
	if label, ok := pitchTypeLabels[p]; ok {
		return label
	}
	return string(p)
}
