package workflows

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/pitch-perfect/internal/coaching"
	"github.com/jonathan/pitch-perfect/internal/types"
)

// GenerateQuestions produces investor questions from the deck's analyzed slides
func (s *Service) GenerateQuestions(ctx context.Context, deckID uuid.UUID) error {
	deck, err := s.store.GetDeck(ctx, deckID)
	if err != nil {
		return err
	}
	if deck == nil {
		return &NotFoundError{Kind: "deck", ID: deckID}
	}
	log := s.log.With("workflow", "generate_questions", "deck_id", deckID)

	set := func(ctx context.Context, status types.Status) error {
		return s.store.SetQuestionsStatus(ctx, deckID, status)
	}
	return s.run(ctx, log, set, func() error {
		slides, err := s.store.ListSlides(ctx, deckID)
		if err != nil {
			return err
		}

		input := coaching.QuestionInput{Title: deck.Title, TotalSlides: deck.TotalSlides, Slides: make([]coaching.SlideSummary, 0, len(slides))}
		if input.TotalSlides == 0 {
			input.TotalSlides = len(slides)
		}
		for _, slide := range slides {
			input.Slides = append(input.Slides, coaching.SlideSummary{Number: slide.Number, Type: slide.SlideType, Text: slide.Text})
		}

		generated, outcome := s.questions.Generate(ctx, input)
		saved, err := s.store.SaveQuestions(ctx, deckID, generated)
		if err != nil {
			return err
		}
		if err := s.store.SetQuestionsStatus(ctx, deckID, types.StatusCompleted); err != nil {
			return err
		}
		log.Info("question generation completed", "questions", len(saved), "degraded", outcome.Degraded)
		return nil
	})
}
