package types

import (
	"time"

	"github.com/google/uuid"
)

// PitchDeck is an uploaded deck and the state of its analysis
type PitchDeck struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	FilePath    string     `json:"-"`
	FileType    string     `json:"file_type"`
	Status      Status     `json:"status"`
	TotalSlides int        `json:"total_slides"`
	CreatedAt   time.Time  `json:"created_at"`
	AnalyzedAt  *time.Time `json:"analyzed_at,omitempty"`

	// QuestionsStatus tracks question generation; empty until requested
	QuestionsStatus Status `json:"questions_status,omitempty"`
}

// Slide is a persisted slide with its analysis
type Slide struct {
	ID          uuid.UUID `json:"id"`
	PitchDeckID uuid.UUID `json:"pitch_deck_id"`
	SlideContent
	SlideAnalysis
	AIDegraded bool `json:"ai_degraded"`
}

// PracticeSession is a recorded practice attempt and its scores
type PracticeSession struct {
	ID                    uuid.UUID          `json:"id"`
	UserID                uuid.UUID          `json:"user_id"`
	PitchDeckID           *uuid.UUID         `json:"pitch_deck_id,omitempty"`
	PitchType             PitchType          `json:"pitch_type"`
	Transcript            string             `json:"transcript"`
	DurationSeconds       int                `json:"duration_seconds"`
	TargetDurationSeconds int                `json:"target_duration_seconds"`
	Status                Status             `json:"status"`
	Metrics               *TranscriptMetrics `json:"metrics,omitempty"`
	Feedback              *FeedbackResult    `json:"feedback,omitempty"`
	AIDegraded            bool               `json:"ai_degraded"`
	CreatedAt             time.Time          `json:"created_at"`
	CompletedAt           *time.Time         `json:"completed_at,omitempty"`
}

// Question is a persisted investor question with usage statistics
type Question struct {
	ID          uuid.UUID `json:"id"`
	PitchDeckID uuid.UUID `json:"pitch_deck_id"`
	GeneratedQuestion
	TimesAsked         int       `json:"times_asked"`
	AverageAnswerScore float64   `json:"average_answer_score"`
	CreatedAt          time.Time `json:"created_at"`
}

// Answer is a user's answer to a question with its evaluation
type Answer struct {
	ID                    uuid.UUID  `json:"id"`
	QuestionID            uuid.UUID  `json:"question_id"`
	UserID                uuid.UUID  `json:"user_id"`
	PracticeSessionID     *uuid.UUID `json:"practice_session_id,omitempty"`
	AnswerText            string     `json:"answer_text"`
	AnswerDurationSeconds int        `json:"answer_duration_seconds"`
	AnswerScores
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// UserProfile holds a user's practice statistics
type UserProfile struct {
	UserID                uuid.UUID `json:"user_id"`
	TotalPracticeSessions int       `json:"total_practice_sessions"`
	AverageScore          float64   `json:"average_score"`
	BestScore             float64   `json:"best_score"`
	TotalPracticeSeconds  int       `json:"total_practice_seconds"`
	UpdatedAt             time.Time `json:"updated_at"`
}
