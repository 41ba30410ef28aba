package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// UploadDeckRequest holds the form fields of a pitch deck upload.
type UploadDeckRequest struct {
	UserID   string `validate:"required,uuid"`
	Title    string `validate:"required,min=1,max=255"`
	FileName string `validate:"required"`
}

// CreateSessionRequest represents the request to analyze a practice session.
type CreateSessionRequest struct {
	UserID                string    `json:"user_id" validate:"required,uuid"`
	PitchDeckID           string    `json:"pitch_deck_id,omitempty" validate:"omitempty,uuid"`
	PitchType             PitchType `json:"pitch_type" validate:"required,oneof=elevator demo_day investor customer other"`
	Transcript            string    `json:"transcript" validate:"required"`
	DurationSeconds       int       `json:"duration_seconds" validate:"gte=0"`
	TargetDurationSeconds int       `json:"target_duration_seconds" validate:"gte=0"`
}

// SubmitAnswerRequest represents an answer to an investor question.
type SubmitAnswerRequest struct {
	UserID                string `json:"user_id" validate:"required,uuid"`
	PracticeSessionID     string `json:"practice_session_id,omitempty" validate:"omitempty,uuid"`
	AnswerText            string `json:"answer_text" validate:"required"`
	AnswerDurationSeconds int    `json:"answer_duration_seconds" validate:"gte=0"`
}

// Validate validates the UploadDeckRequest using the validator.
func (r *UploadDeckRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the CreateSessionRequest using the validator.
func (r *CreateSessionRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SubmitAnswerRequest using the validator.
func (r *SubmitAnswerRequest) Validate() error {
	return validate.Struct(r)
}
