package workflows

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/pitch-perfect/internal/coaching"
	"github.com/jonathan/pitch-perfect/internal/textmetrics"
	"github.com/jonathan/pitch-perfect/internal/types"
)

// AnalyzeSession computes transcript metrics, asks for coaching feedback and
// updates the user's practice statistics.
func (s *Service) AnalyzeSession(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return &NotFoundError{Kind: "session", ID: sessionID}
	}
	log := s.log.With("workflow", "analyze_session", "session_id", sessionID)

	set := func(ctx context.Context, status types.Status) error {
		return s.store.SetSessionStatus(ctx, sessionID, status)
	}
	return s.run(ctx, log, set, func() error {
		metrics := textmetrics.Analyze(session.Transcript, session.DurationSeconds)

		input := coaching.FeedbackInput{
			PitchType:             session.PitchType,
			Transcript:            session.Transcript,
			DurationSeconds:       session.DurationSeconds,
			TargetDurationSeconds: session.TargetDurationSeconds,
			Metrics:               metrics,
		}
		if session.PitchDeckID != nil {
			deck, err := s.store.GetDeck(ctx, *session.PitchDeckID)
			if err != nil {
				return err
			}
			if deck != nil {
				input.Deck = &coaching.DeckContext{Title: deck.Title, TotalSlides: deck.TotalSlides}
			}
		}

		feedback, outcome := s.feedback.Generate(ctx, input)
		if err := s.store.CompleteSession(ctx, sessionID, metrics, feedback, outcome.Degraded); err != nil {
			return err
		}

		// the session itself is complete; a stats failure only loses the aggregate
		if err := s.store.RecordPracticeResult(ctx, session.UserID, feedback.OverallScore, session.DurationSeconds); err != nil {
			log.Warn("failed to update practice stats", "user_id", session.UserID, "error", err)
		}
		log.Info("session analysis completed", "overall_score", feedback.OverallScore, "degraded", outcome.Degraded)
		return nil
	})
}
