package memstore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pitch-perfect/internal/db"
	"github.com/jonathan/pitch-perfect/internal/types"
)

func TestStore_DeckLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateDeck(ctx, uuid.New(), "Seed", "/tmp/a.pdf", "pdf")
	require.NoError(t, err)

	require.NoError(t, s.SetDeckStatus(ctx, id, types.StatusProcessing))
	require.NoError(t, s.SaveSlide(ctx, id, types.SlideContent{Number: 2}, types.SlideAnalysis{QualityScore: 50}, false))
	require.NoError(t, s.SaveSlide(ctx, id, types.SlideContent{Number: 1}, types.SlideAnalysis{QualityScore: 60}, false))
	require.NoError(t, s.SaveSlide(ctx, id, types.SlideContent{Number: 2}, types.SlideAnalysis{QualityScore: 70}, true))
	require.NoError(t, s.CompleteDeck(ctx, id, 2))

	deck, err := s.GetDeck(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, deck.Status)
	assert.Equal(t, 2, deck.TotalSlides)
	assert.NotNil(t, deck.AnalyzedAt)

	slides, err := s.ListSlides(ctx, id)
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, 1, slides[0].Number)
	assert.Equal(t, 70.0, slides[1].QualityScore)
	assert.True(t, slides[1].AIDegraded)
}

func TestStore_MissingRecords(t *testing.T) {
	s := New()
	ctx := context.Background()

	deck, err := s.GetDeck(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, deck)

	assert.Error(t, s.SetDeckStatus(ctx, uuid.New(), types.StatusFailed))
	assert.Error(t, s.SetSessionStatus(ctx, uuid.New(), types.StatusFailed))
	assert.Error(t, s.RecordQuestionAnswer(ctx, uuid.New(), 50))
}

func TestStore_QuestionsKeepExistingText(t *testing.T) {
	s := New()
	ctx := context.Background()
	deckID, _ := s.CreateDeck(ctx, uuid.New(), "Seed", "/tmp/a.pdf", "pdf")

	first, err := s.SaveQuestions(ctx, deckID, []types.GeneratedQuestion{{QuestionText: "Why now?"}, {QuestionText: "Who buys?"}})
	require.NoError(t, err)
	again, err := s.SaveQuestions(ctx, deckID, []types.GeneratedQuestion{{QuestionText: "Why now?"}})
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, again[0].ID)

	listed, err := s.ListQuestions(ctx, deckID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Why now?", listed[0].QuestionText)
}

func TestStore_QuestionRunningAverage(t *testing.T) {
	s := New()
	ctx := context.Background()
	deckID, _ := s.CreateDeck(ctx, uuid.New(), "Seed", "/tmp/a.pdf", "pdf")
	saved, _ := s.SaveQuestions(ctx, deckID, []types.GeneratedQuestion{{QuestionText: "Why now?"}})
	qID := saved[0].ID

	for _, score := range []float64{90, 60, 75} {
		require.NoError(t, s.RecordQuestionAnswer(ctx, qID, score))
	}

	q, err := s.GetQuestion(ctx, qID)
	require.NoError(t, err)
	assert.Equal(t, 3, q.TimesAsked)
	assert.InDelta(t, 75.0, q.AverageAnswerScore, 1e-9)

	answer, err := s.CreateAnswer(ctx, db.NewAnswer{QuestionID: qID, AnswerText: "Because", Status: types.StatusCompleted})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, answer.ID)
}

func TestStore_SessionAndProfile(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := uuid.New()

	id, err := s.CreateSession(ctx, db.NewSession{UserID: userID, PitchType: types.PitchTypeElevator, Transcript: "Hi"})
	require.NoError(t, err)
	require.NoError(t, s.CompleteSession(ctx, id, types.TranscriptMetrics{WordCount: 1}, types.FeedbackResult{OverallScore: 66}, true))

	session, err := s.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, session.Status)
	assert.Equal(t, 66.0, session.Feedback.OverallScore)
	assert.True(t, session.AIDegraded)

	require.NoError(t, s.RecordPracticeResult(ctx, userID, 60, 30))
	require.NoError(t, s.RecordPracticeResult(ctx, userID, 80, 45))

	p, err := s.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalPracticeSessions)
	assert.Equal(t, 70.0, p.AverageScore)
	assert.Equal(t, 80.0, p.BestScore)
	assert.Equal(t, 75, p.TotalPracticeSeconds)
}
