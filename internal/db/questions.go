package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/pitch-perfect/internal/types"
)

const questionColumns = `id, pitch_deck_id, question_text, category, difficulty, related_slide_number,
	key_points_to_cover, times_asked, average_answer_score, created_at`

// SaveQuestions stores generated questions for a deck. A question whose text
// already exists for the deck is kept as is, with its statistics.
func (db *DB) SaveQuestions(ctx context.Context, deckID uuid.UUID, questions []types.GeneratedQuestion) ([]types.Question, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	saved := make([]types.Question, 0, len(questions))
	for _, q := range questions {
		keyPoints, err := jsonList(q.KeyPointsToCover)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal key points: %w", err)
		}
		row := tx.QueryRow(ctx,
			`INSERT INTO questions (pitch_deck_id, question_text, category, difficulty, related_slide_number, key_points_to_cover)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (pitch_deck_id, question_text) DO UPDATE SET question_text = questions.question_text
			 RETURNING `+questionColumns,
			deckID, q.QuestionText, q.Category, q.Difficulty, q.RelatedSlideNumber, keyPoints,
		)
		question, err := scanQuestion(row)
		if err != nil {
			return nil, fmt.Errorf("failed to save question: %w", err)
		}
		saved = append(saved, *question)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit questions: %w", err)
	}
	return saved, nil
}

// ListQuestions returns a deck's questions in creation order
func (db *DB) ListQuestions(ctx context.Context, deckID uuid.UUID) ([]types.Question, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE pitch_deck_id = $1 ORDER BY created_at, id`,
		deckID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := []types.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}
	return questions, nil
}

// GetQuestion retrieves a question by ID. Returns nil when it does not exist.
func (db *DB) GetQuestion(ctx context.Context, id uuid.UUID) (*types.Question, error) {
	q, err := scanQuestion(db.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// RecordQuestionAnswer folds score into the question's running average
func (db *DB) RecordQuestionAnswer(ctx context.Context, questionID uuid.UUID, score float64) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE questions
		 SET average_answer_score = (average_answer_score * times_asked + $1) / (times_asked + 1),
		     times_asked = times_asked + 1
		 WHERE id = $2`,
		score, questionID,
	)
	if err != nil {
		return fmt.Errorf("failed to record answer stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %s not found", questionID)
	}
	return nil
}

// NewAnswer holds an evaluated answer to store
type NewAnswer struct {
	QuestionID            uuid.UUID
	UserID                uuid.UUID
	PracticeSessionID     *uuid.UUID
	AnswerText            string
	AnswerDurationSeconds int
	Scores                types.AnswerScores
	Status                types.Status
}

// CreateAnswer stores an answer with its scores and returns the saved row
func (db *DB) CreateAnswer(ctx context.Context, a NewAnswer) (*types.Answer, error) {
	answer := types.Answer{
		QuestionID:            a.QuestionID,
		UserID:                a.UserID,
		PracticeSessionID:     a.PracticeSessionID,
		AnswerText:            a.AnswerText,
		AnswerDurationSeconds: a.AnswerDurationSeconds,
		AnswerScores:          a.Scores,
		Status:                a.Status,
	}
	sc := a.Scores
	err := db.pool.QueryRow(ctx,
		`INSERT INTO answers (question_id, user_id, practice_session_id, answer_text, answer_duration_seconds,
		     word_count, quality_score, completeness_score, clarity_score, pace_score, relevance_score, feedback, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at`,
		a.QuestionID, a.UserID, a.PracticeSessionID, a.AnswerText, a.AnswerDurationSeconds,
		sc.WordCount, sc.QualityScore, sc.CompletenessScore, sc.ClarityScore, sc.PaceScore, sc.RelevanceScore,
		sc.Feedback, a.Status,
	).Scan(&answer.ID, &answer.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}
	return &answer, nil
}

func scanQuestion(row pgx.Row) (*types.Question, error) {
	var (
		q         types.Question
		keyPoints []byte
	)
	if err := row.Scan(&q.ID, &q.PitchDeckID, &q.QuestionText, &q.Category, &q.Difficulty,
		&q.RelatedSlideNumber, &keyPoints, &q.TimesAsked, &q.AverageAnswerScore, &q.CreatedAt); err != nil {
		return nil, err
	}
	points, err := scanList(keyPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key points: %w", err)
	}
	q.KeyPointsToCover = points
	return &q, nil
}
