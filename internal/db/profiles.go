package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/pitch-perfect/internal/types"
)

// RecordPracticeResult adds a completed session to the user's statistics:
// session count, running average, best score and total practice time.
func (db *DB) RecordPracticeResult(ctx context.Context, userID uuid.UUID, score float64, durationSeconds int) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, total_practice_sessions, average_score, best_score, total_practice_seconds)
		 VALUES ($1, 1, $2, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET
		     average_score = (user_profiles.average_score * user_profiles.total_practice_sessions + EXCLUDED.average_score)
		                     / (user_profiles.total_practice_sessions + 1),
		     total_practice_sessions = user_profiles.total_practice_sessions + 1,
		     best_score = GREATEST(user_profiles.best_score, EXCLUDED.best_score),
		     total_practice_seconds = user_profiles.total_practice_seconds + EXCLUDED.total_practice_seconds,
		     updated_at = NOW()`,
		userID, score, durationSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to record practice result: %w", err)
	}
	return nil
}

// GetProfile retrieves a user's practice statistics. Returns nil when the
// user has not completed a session yet.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	var p types.UserProfile
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, total_practice_sessions, average_score, best_score, total_practice_seconds, updated_at
		 FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.TotalPracticeSessions, &p.AverageScore, &p.BestScore, &p.TotalPracticeSeconds, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}
