package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/pitch-perfect/internal/db"
	"github.com/jonathan/pitch-perfect/internal/scoring"
	"github.com/jonathan/pitch-perfect/internal/textmetrics"
	"github.com/jonathan/pitch-perfect/internal/types"
)

// answers longer than this many words count as complete when a question has no key points
const fullAnswerWords = 60

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "you": {}, "your": {},
	"our": {}, "how": {}, "what": {}, "why": {}, "who": {}, "when": {}, "where": {},
	"which": {}, "with": {}, "that": {}, "this": {}, "from": {}, "have": {}, "has": {},
	"does": {}, "did": {}, "will": {}, "can": {}, "would": {}, "could": {}, "should": {},
	"into": {}, "about": {}, "than": {}, "then": {}, "them": {}, "they": {}, "their": {},
	"its": {}, "not": {}, "but": {}, "all": {}, "any": {},
}

// SubmitAnswer scores an answer, stores it and folds the score into the
// question's statistics.
func (s *Service) SubmitAnswer(ctx context.Context, questionID uuid.UUID, req types.SubmitAnswerRequest) (*types.Answer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	question, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, &NotFoundError{Kind: "question", ID: questionID}
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	var sessionID *uuid.UUID
	if req.PracticeSessionID != "" {
		id, err := uuid.Parse(req.PracticeSessionID)
		if err != nil {
			return nil, fmt.Errorf("invalid practice_session_id: %w", err)
		}
		sessionID = &id
	}

	scores := ScoreAnswer(question.GeneratedQuestion, req.AnswerText, req.AnswerDurationSeconds)
	answer, err := s.store.CreateAnswer(ctx, db.NewAnswer{
		QuestionID:            questionID,
		UserID:                userID,
		PracticeSessionID:     sessionID,
		AnswerText:            req.AnswerText,
		AnswerDurationSeconds: req.AnswerDurationSeconds,
		Scores:                scores,
		Status:                types.StatusCompleted,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.RecordQuestionAnswer(ctx, questionID, scores.QualityScore); err != nil {
		return nil, err
	}

	s.log.Info("answer scored", "question_id", questionID, "quality_score", scores.QualityScore)
	return answer, nil
}

// ScoreAnswer evaluates an answer without calling the model. Pace is only
// scored when a duration is given; quality is the mean of the scored components.
func ScoreAnswer(q types.GeneratedQuestion, answer string, durationSeconds int) types.AnswerScores {
	words := textmetrics.Tokens(answer)
	if len(words) == 0 {
		return types.AnswerScores{Feedback: "No answer provided."}
	}
	present := make(map[string]struct{}, len(words))
	for _, w := range words {
		present[w] = struct{}{}
	}

	fillers, _ := textmetrics.CountFillers(strings.ToLower(answer))
	scores := types.AnswerScores{
		WordCount:         len(words),
		ClarityScore:      textmetrics.ClarityScore(fillers, len(words)),
		CompletenessScore: completeness(q.KeyPointsToCover, present, len(words)),
		RelevanceScore:    coverage(significantTerms(q.QuestionText), present),
	}

	components := []float64{scores.CompletenessScore, scores.ClarityScore, scores.RelevanceScore}
	if durationSeconds > 0 {
		wpm := float64(len(words)) / (float64(durationSeconds) / 60)
		scores.PaceScore = textmetrics.PaceScore(wpm)
		components = append(components, scores.PaceScore)
	}

	var sum float64
	for _, c := range components {
		sum += c
	}
	scores.QualityScore = scoring.Round2(sum / float64(len(components)))
	scores.Feedback = answerFeedback(scores, durationSeconds > 0)
	return scores
}

// completeness is the share of key points with at least one term in the answer
func completeness(keyPoints []string, present map[string]struct{}, wordCount int) float64 {
	covered, total := 0, 0
	for _, point := range keyPoints {
		terms := significantTerms(point)
		if len(terms) == 0 {
			continue
		}
		total++
		for _, t := range terms {
			if _, ok := present[t]; ok {
				covered++
				break
			}
		}
	}
	if total == 0 {
		return scoring.Round2(min(100, float64(wordCount)/fullAnswerWords*100))
	}
	return scoring.Round2(float64(covered) / float64(total) * 100)
}

// coverage is the share of terms present in the answer; no terms means full coverage
func coverage(terms []string, present map[string]struct{}) float64 {
	if len(terms) == 0 {
		return 100
	}
	hit := 0
	for _, t := range terms {
		if _, ok := present[t]; ok {
			hit++
		}
	}
	return scoring.Round2(float64(hit) / float64(len(terms)) * 100)
}

func significantTerms(text string) []string {
	var terms []string
	seen := map[string]struct{}{}
	for _, w := range textmetrics.Tokens(text) {
		if len(w) < 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}
	return terms
}

func answerFeedback(s types.AnswerScores, paced bool) string {
	var notes []string
	switch {
	case s.CompletenessScore >= 80:
		notes = append(notes, "You covered the key points well.")
	case s.CompletenessScore >= 50:
		notes = append(notes, "You covered some key points; address the rest explicitly.")
	default:
		notes = append(notes, "Most key points were missing from your answer.")
	}
	if s.RelevanceScore < 50 {
		notes = append(notes, "Stay closer to what the investor actually asked.")
	}
	if s.ClarityScore < 70 {
		notes = append(notes, "Cut filler words to sound more confident.")
	}
	if paced && s.PaceScore < 75 {
		notes = append(notes, "Adjust your pace toward 140-160 words per minute.")
	}
	return strings.Join(notes, " ")
}
