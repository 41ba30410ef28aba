package workflows

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/pitch-perfect/internal/types"
)

var marketQuestion = types.GeneratedQuestion{
	QuestionText:     "How big is your market?",
	KeyPointsToCover: []string{"Market size", "Growth rate"},
}

func TestScoreAnswer(t *testing.T) {
	tests := []struct {
		name     string
		question types.GeneratedQuestion
		answer   string
		duration int
		want     types.AnswerScores
	}{
		{
			name:     "partial coverage without duration",
			question: marketQuestion,
			answer:   "Our market is worth ten billion dollars",
			want: types.AnswerScores{
				WordCount: 7, CompletenessScore: 50, ClarityScore: 100, RelevanceScore: 50, QualityScore: 66.67,
			},
		},
		{
			name:     "duration adds pace",
			question: marketQuestion,
			answer:   "Our market is worth ten billion dollars",
			duration: 3,
			want: types.AnswerScores{
				WordCount: 7, CompletenessScore: 50, ClarityScore: 100, RelevanceScore: 50, PaceScore: 100, QualityScore: 75,
			},
		},
		{
			name:     "no key points uses length",
			question: types.GeneratedQuestion{QuestionText: "Why is this the best moment?"},
			answer:   strings.TrimSpace(strings.Repeat("the best moment ", 10)),
			want: types.AnswerScores{
				WordCount: 30, CompletenessScore: 50, ClarityScore: 100, RelevanceScore: 100, QualityScore: 83.33,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAnswer(tt.question, tt.answer, tt.duration)
			assert.NotEmpty(t, got.Feedback)
			got.Feedback = ""
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreAnswer_EmptyAnswer(t *testing.T) {
	got := ScoreAnswer(marketQuestion, "   ", 10)
	assert.Equal(t, types.AnswerScores{Feedback: "No answer provided."}, got)
}

func TestScoreAnswer_FeedbackMentionsWeakAreas(t *testing.T) {
	got := ScoreAnswer(marketQuestion, "We sell shoes", 0)
	assert.Equal(t, 0.0, got.CompletenessScore)
	assert.Contains(t, got.Feedback, "key points were missing")
	assert.Contains(t, got.Feedback, "Stay closer")
}

func TestSignificantTerms(t *testing.T) {
	assert.Equal(t, []string{"big", "market"}, significantTerms("How big is your market? Market!"))
	assert.Empty(t, significantTerms("is it so?"))
}
