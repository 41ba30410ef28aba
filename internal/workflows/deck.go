package workflows

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/pitch-perfect/internal/types"
)

// AnalyzeDeck extracts the deck's slides and analyzes them one at a time
func (s *Service) AnalyzeDeck(ctx context.Context, deckID uuid.UUID) error {
	deck, err := s.store.GetDeck(ctx, deckID)
	if err != nil {
		return err
	}
	if deck == nil {
		return &NotFoundError{Kind: "deck", ID: deckID}
	}
	log := s.log.With("workflow", "analyze_deck", "deck_id", deckID)

	set := func(ctx context.Context, status types.Status) error {
		return s.store.SetDeckStatus(ctx, deckID, status)
	}
	return s.run(ctx, log, set, func() error {
		slides, err := s.extract(deck.FilePath)
		if err != nil {
			return fmt.Errorf("failed to extract slides: %w", err)
		}
		log.Info("extracted slides", "count", len(slides))

		degraded := 0
		for _, slide := range slides {
			analysis, outcome := s.slides.Analyze(ctx, slide)
			if outcome.Degraded {
				degraded++
			}
			if err := s.store.SaveSlide(ctx, deckID, slide, analysis, outcome.Degraded); err != nil {
				return err
			}
		}

		if err := s.store.CompleteDeck(ctx, deckID, len(slides)); err != nil {
			return err
		}
		log.Info("deck analysis completed", "slides", len(slides), "degraded", degraded)
		return nil
	})
}
