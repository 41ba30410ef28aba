package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/pitch-perfect/internal/types"
)

// CreateDeck records an uploaded deck in pending state and returns its ID
func (db *DB) CreateDeck(ctx context.Context, userID uuid.UUID, title, filePath, fileType string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO pitch_decks (user_id, title, file_path, file_type, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		userID, title, filePath, fileType, types.StatusPending,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create deck: %w", err)
	}
	return id, nil
}

// GetDeck retrieves a deck by ID. Returns nil when it does not exist.
func (db *DB) GetDeck(ctx context.Context, id uuid.UUID) (*types.PitchDeck, error) {
	var deck types.PitchDeck
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, file_path, file_type, status, total_slides, created_at, analyzed_at,
		        COALESCE(questions_status, '')
		 FROM pitch_decks WHERE id = $1`,
		id,
	).Scan(&deck.ID, &deck.UserID, &deck.Title, &deck.FilePath, &deck.FileType,
		&deck.Status, &deck.TotalSlides, &deck.CreatedAt, &deck.AnalyzedAt, &deck.QuestionsStatus)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}
	return &deck, nil
}

// SetDeckStatus moves a deck to status
func (db *DB) SetDeckStatus(ctx context.Context, id uuid.UUID, status types.Status) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE pitch_decks SET status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set deck status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deck %s not found", id)
	}
	return nil
}

// SetQuestionsStatus moves a deck's question generation to status
func (db *DB) SetQuestionsStatus(ctx context.Context, deckID uuid.UUID, status types.Status) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE pitch_decks SET questions_status = $1 WHERE id = $2`,
		status, deckID,
	)
	if err != nil {
		return fmt.Errorf("failed to set questions status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deck %s not found", deckID)
	}
	return nil
}

// CompleteDeck marks a deck completed with its slide count and analysis time
func (db *DB) CompleteDeck(ctx context.Context, id uuid.UUID, totalSlides int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE pitch_decks SET status = $1, total_slides = $2, analyzed_at = NOW() WHERE id = $3`,
		types.StatusCompleted, totalSlides, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete deck: %w", err)
	}
	return nil
}

// SaveSlide stores a slide and its analysis, replacing an earlier run's row
func (db *DB) SaveSlide(ctx context.Context, deckID uuid.UUID, content types.SlideContent, analysis types.SlideAnalysis, degraded bool) error {
	strengths, err := jsonList(analysis.Strengths)
	if err != nil {
		return fmt.Errorf("failed to marshal strengths: %w", err)
	}
	weaknesses, err := jsonList(analysis.Weaknesses)
	if err != nil {
		return fmt.Errorf("failed to marshal weaknesses: %w", err)
	}
	keyPoints, err := jsonList(analysis.KeyPoints)
	if err != nil {
		return fmt.Errorf("failed to marshal key points: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO slides (pitch_deck_id, slide_number, text_content, notes, has_images, has_charts, word_count,
		     slide_type, quality_score, strengths, weaknesses, suggestions, coaching_script, key_points,
		     estimated_speaking_time, ai_degraded)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 ON CONFLICT (pitch_deck_id, slide_number) DO UPDATE SET
		     text_content = EXCLUDED.text_content, notes = EXCLUDED.notes,
		     has_images = EXCLUDED.has_images, has_charts = EXCLUDED.has_charts,
		     word_count = EXCLUDED.word_count, slide_type = EXCLUDED.slide_type,
		     quality_score = EXCLUDED.quality_score, strengths = EXCLUDED.strengths,
		     weaknesses = EXCLUDED.weaknesses, suggestions = EXCLUDED.suggestions,
		     coaching_script = EXCLUDED.coaching_script, key_points = EXCLUDED.key_points,
		     estimated_speaking_time = EXCLUDED.estimated_speaking_time, ai_degraded = EXCLUDED.ai_degraded`,
		deckID, content.Number, content.Text, content.Notes, content.HasImages, content.HasCharts, content.WordCount,
		analysis.SlideType, analysis.QualityScore, strengths, weaknesses, analysis.Suggestions,
		analysis.CoachingScript, keyPoints, analysis.EstimatedSpeakingTime, degraded,
	)
	if err != nil {
		return fmt.Errorf("failed to save slide %d: %w", content.Number, err)
	}
	return nil
}

// ListSlides returns a deck's slides ordered by number
func (db *DB) ListSlides(ctx context.Context, deckID uuid.UUID) ([]types.Slide, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, pitch_deck_id, slide_number, text_content, notes, has_images, has_charts, word_count,
		        slide_type, quality_score, strengths, weaknesses, suggestions, coaching_script, key_points,
		        estimated_speaking_time, ai_degraded
		 FROM slides WHERE pitch_deck_id = $1 ORDER BY slide_number`,
		deckID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list slides: %w", err)
	}
	defer rows.Close()

	slides := []types.Slide{}
	for rows.Next() {
		var (
			s                                types.Slide
			strengths, weaknesses, keyPoints []byte
		)
		if err := rows.Scan(&s.ID, &s.PitchDeckID, &s.Number, &s.Text, &s.Notes, &s.HasImages, &s.HasCharts,
			&s.WordCount, &s.SlideType, &s.QualityScore, &strengths, &weaknesses, &s.Suggestions,
			&s.CoachingScript, &keyPoints, &s.EstimatedSpeakingTime, &s.AIDegraded); err != nil {
			return nil, fmt.Errorf("failed to scan slide: %w", err)
		}
		if s.Strengths, err = scanList(strengths); err != nil {
			return nil, fmt.Errorf("failed to decode strengths: %w", err)
		}
		if s.Weaknesses, err = scanList(weaknesses); err != nil {
			return nil, fmt.Errorf("failed to decode weaknesses: %w", err)
		}
		if s.KeyPoints, err = scanList(keyPoints); err != nil {
			return nil, fmt.Errorf("failed to decode key points: %w", err)
		}
		slides = append(slides, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate slides: %w", err)
	}
	return slides, nil
}
