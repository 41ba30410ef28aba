// Package workflows runs the deck analysis, session analysis and question
// generation workflows, and scores answers to investor questions.
//
// Every workflow follows the same state machine: the record moves to
// processing right before work starts, to completed once every item is done
// (even items that fell back to defaults) and to failed only when an error
// escapes the whole batch.
package workflows

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/pitch-perfect/internal/coaching"
	"github.com/jonathan/pitch-perfect/internal/db"
	"github.com/jonathan/pitch-perfect/internal/extraction"
	"github.com/jonathan/pitch-perfect/internal/jobs"
	"github.com/jonathan/pitch-perfect/internal/logger"
	"github.com/jonathan/pitch-perfect/internal/types"
)

// Store is the persistence the workflows need. *db.DB and *memstore.Store implement it.
type Store interface {
	GetDeck(ctx context.Context, id uuid.UUID) (*types.PitchDeck, error)
	SetDeckStatus(ctx context.Context, id uuid.UUID, status types.Status) error
	SetQuestionsStatus(ctx context.Context, id uuid.UUID, status types.Status) error
	SaveSlide(ctx context.Context, deckID uuid.UUID, content types.SlideContent, analysis types.SlideAnalysis, degraded bool) error
	ListSlides(ctx context.Context, deckID uuid.UUID) ([]types.Slide, error)
	CompleteDeck(ctx context.Context, id uuid.UUID, totalSlides int) error

	GetSession(ctx context.Context, id uuid.UUID) (*types.PracticeSession, error)
	SetSessionStatus(ctx context.Context, id uuid.UUID, status types.Status) error
	CompleteSession(ctx context.Context, id uuid.UUID, metrics types.TranscriptMetrics, feedback types.FeedbackResult, degraded bool) error
	RecordPracticeResult(ctx context.Context, userID uuid.UUID, score float64, durationSeconds int) error

	SaveQuestions(ctx context.Context, deckID uuid.UUID, questions []types.GeneratedQuestion) ([]types.Question, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*types.Question, error)
	CreateAnswer(ctx context.Context, a db.NewAnswer) (*types.Answer, error)
	RecordQuestionAnswer(ctx context.Context, questionID uuid.UUID, score float64) error
}

// ExtractFunc reads the slides of a deck file
type ExtractFunc func(path string) ([]types.SlideContent, error)

// NotFoundError reports a workflow target that does not exist
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// Service runs workflows against a Store
type Service struct {
	store     Store
	slides    *coaching.SlideAnalyzer
	feedback  *coaching.FeedbackGenerator
	questions *coaching.QuestionGenerator
	extract   ExtractFunc
	log       *logger.Logger
}

// Option customizes a Service
type Option func(*Service)

// WithExtractor replaces deck extraction
func WithExtractor(fn ExtractFunc) Option {
	return func(s *Service) { s.extract = fn }
}

// New creates a Service whose AI call sites all go through caller
func New(store Store, caller coaching.Caller, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		store:     store,
		slides:    coaching.NewSlideAnalyzer(caller, log),
		feedback:  coaching.NewFeedbackGenerator(caller, log),
		questions: coaching.NewQuestionGenerator(caller, log),
		extract:   extraction.ExtractSlides,
		log:       log.With("service", "Workflows"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register binds the three workflows to their job kinds
func (s *Service) Register(r *jobs.Runner) error {
	handlers := map[jobs.Kind]jobs.Handler{
		jobs.KindAnalyzeDeck:       func(ctx context.Context, j jobs.Job) error { return s.AnalyzeDeck(ctx, j.TargetID) },
		jobs.KindAnalyzeSession:    func(ctx context.Context, j jobs.Job) error { return s.AnalyzeSession(ctx, j.TargetID) },
		jobs.KindGenerateQuestions: func(ctx context.Context, j jobs.Job) error { return s.GenerateQuestions(ctx, j.TargetID) },
	}
	for kind, h := range handlers {
		if err := r.Register(kind, h); err != nil {
			return err
		}
	}
	return nil
}

// run applies the state machine around work using set to persist status
func (s *Service) run(ctx context.Context, log *logger.Logger, set func(context.Context, types.Status) error, work func() error) error {
	if err := set(ctx, types.StatusProcessing); err != nil {
		return fmt.Errorf("failed to mark processing: %w", err)
	}
	if err := runWork(work); err != nil {
		log.Error("workflow failed", "error", err)
		if setErr := set(ctx, types.StatusFailed); setErr != nil {
			log.Error("failed to mark workflow failed", "error", setErr)
		}
		return err
	}
	return nil
}

// runWork turns a panic in work into an error so the record can be marked failed
func runWork(work func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("workflow panic: %v", rec)
		}
	}()
	return work()
}
