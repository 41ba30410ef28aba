package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/pitch-perfect/internal/types"
)

// NewSession holds the fields of a practice session at creation
type NewSession struct {
	UserID                uuid.UUID
	PitchDeckID           *uuid.UUID
	PitchType             types.PitchType
	Transcript            string
	DurationSeconds       int
	TargetDurationSeconds int
}

// CreateSession records a practice session in pending state and returns its ID
func (db *DB) CreateSession(ctx context.Context, s NewSession) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO practice_sessions (user_id, pitch_deck_id, pitch_type, transcript,
		     duration_seconds, target_duration_seconds, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		s.UserID, s.PitchDeckID, s.PitchType, s.Transcript, s.DurationSeconds, s.TargetDurationSeconds,
		types.StatusPending,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// GetSession retrieves a practice session by ID. Returns nil when it does not exist.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*types.PracticeSession, error) {
	var (
		s                 types.PracticeSession
		metrics, feedback []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, pitch_deck_id, pitch_type, transcript, duration_seconds, target_duration_seconds,
		        status, metrics, feedback, ai_degraded, created_at, completed_at
		 FROM practice_sessions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.UserID, &s.PitchDeckID, &s.PitchType, &s.Transcript, &s.DurationSeconds,
		&s.TargetDurationSeconds, &s.Status, &metrics, &feedback, &s.AIDegraded, &s.CreatedAt, &s.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if len(metrics) > 0 {
		s.Metrics = &types.TranscriptMetrics{}
		if err := json.Unmarshal(metrics, s.Metrics); err != nil {
			return nil, fmt.Errorf("failed to decode session metrics: %w", err)
		}
	}
	if len(feedback) > 0 {
		s.Feedback = &types.FeedbackResult{}
		if err := json.Unmarshal(feedback, s.Feedback); err != nil {
			return nil, fmt.Errorf("failed to decode session feedback: %w", err)
		}
	}
	return &s, nil
}

// SetSessionStatus moves a session to status
func (db *DB) SetSessionStatus(ctx context.Context, id uuid.UUID, status types.Status) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE practice_sessions SET status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// CompleteSession stores metrics and feedback and marks the session completed
func (db *DB) CompleteSession(ctx context.Context, id uuid.UUID, metrics types.TranscriptMetrics, feedback types.FeedbackResult, degraded bool) error {
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	feedbackJSON, err := json.Marshal(feedback)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE practice_sessions
		 SET status = $1, metrics = $2, feedback = $3, ai_degraded = $4, completed_at = NOW()
		 WHERE id = $5`,
		types.StatusCompleted, metricsJSON, feedbackJSON, degraded, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}
	return nil
}
