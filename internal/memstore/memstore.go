// Package memstore is an in-process implementation of the persistence
// operations in package db. It backs single-process runs without PostgreSQL
// and the workflow and server tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/pitch-perfect/internal/db"
	"github.com/jonathan/pitch-perfect/internal/scoring"
	"github.com/jonathan/pitch-perfect/internal/types"
)

// Store holds every record in maps guarded by one mutex. Values returned are copies.
type Store struct {
	mu        sync.RWMutex
	now       func() time.Time
	decks     map[uuid.UUID]types.PitchDeck
	slides    map[uuid.UUID]map[int]types.Slide
	sessions  map[uuid.UUID]types.PracticeSession
	questions map[uuid.UUID]types.Question
	order     []uuid.UUID
	answers   map[uuid.UUID]types.Answer
	profiles  map[uuid.UUID]types.UserProfile
}

// New creates an empty Store
func New() *Store {
	return &Store{
		now:       func() time.Time { return time.Now().UTC() },
		decks:     make(map[uuid.UUID]types.PitchDeck),
		slides:    make(map[uuid.UUID]map[int]types.Slide),
		sessions:  make(map[uuid.UUID]types.PracticeSession),
		questions: make(map[uuid.UUID]types.Question),
		answers:   make(map[uuid.UUID]types.Answer),
		profiles:  make(map[uuid.UUID]types.UserProfile),
	}
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

// CreateDeck records an uploaded deck in pending state
func (s *Store) CreateDeck(_ context.Context, userID uuid.UUID, title, filePath, fileType string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.decks[id] = types.PitchDeck{
		ID: id, UserID: userID, Title: title, FilePath: filePath, FileType: fileType,
		Status: types.StatusPending, CreatedAt: s.now(),
	}
	return id, nil
}

// GetDeck returns nil when the deck does not exist
func (s *Store) GetDeck(_ context.Context, id uuid.UUID) (*types.PitchDeck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deck, ok := s.decks[id]
	if !ok {
		return nil, nil
	}
	return &deck, nil
}

// SetDeckStatus moves a deck to status
func (s *Store) SetDeckStatus(_ context.Context, id uuid.UUID, status types.Status) error {
	return s.updateDeck(id, func(d *types.PitchDeck) { d.Status = status })
}

// SetQuestionsStatus moves a deck's question generation to status
func (s *Store) SetQuestionsStatus(_ context.Context, id uuid.UUID, status types.Status) error {
	return s.updateDeck(id, func(d *types.PitchDeck) { d.QuestionsStatus = status })
}

// CompleteDeck marks a deck completed with its slide count
func (s *Store) CompleteDeck(_ context.Context, id uuid.UUID, totalSlides int) error {
	now := s.now()
	return s.updateDeck(id, func(d *types.PitchDeck) {
		d.Status = types.StatusCompleted
		d.TotalSlides = totalSlides
		d.AnalyzedAt = &now
	})
}

func (s *Store) updateDeck(id uuid.UUID, fn func(*types.PitchDeck)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deck, ok := s.decks[id]
	if !ok {
		return fmt.Errorf("deck %s not found", id)
	}
	fn(&deck)
	s.decks[id] = deck
	return nil
}

// SaveSlide stores a slide, replacing one with the same number
func (s *Store) SaveSlide(_ context.Context, deckID uuid.UUID, content types.SlideContent, analysis types.SlideAnalysis, degraded bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[deckID]; !ok {
		return fmt.Errorf("deck %s not found", deckID)
	}
	bySlide := s.slides[deckID]
	if bySlide == nil {
		bySlide = make(map[int]types.Slide)
		s.slides[deckID] = bySlide
	}
	id := uuid.New()
	if existing, ok := bySlide[content.Number]; ok {
		id = existing.ID
	}
	bySlide[content.Number] = types.Slide{
		ID: id, PitchDeckID: deckID, SlideContent: content, SlideAnalysis: analysis, AIDegraded: degraded,
	}
	return nil
}

// ListSlides returns a deck's slides ordered by number
func (s *Store) ListSlides(_ context.Context, deckID uuid.UUID) ([]types.Slide, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slides := make([]types.Slide, 0, len(s.slides[deckID]))
	for _, slide := range s.slides[deckID] {
		slides = append(slides, slide)
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].Number < slides[j].Number })
	return slides, nil
}

// CreateSession records a practice session in pending state
func (s *Store) CreateSession(_ context.Context, in db.NewSession) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.sessions[id] = types.PracticeSession{
		ID: id, UserID: in.UserID, PitchDeckID: in.PitchDeckID, PitchType: in.PitchType,
		Transcript: in.Transcript, DurationSeconds: in.DurationSeconds,
		TargetDurationSeconds: in.TargetDurationSeconds, Status: types.StatusPending, CreatedAt: s.now(),
	}
	return id, nil
}

// GetSession returns nil when the session does not exist
func (s *Store) GetSession(_ context.Context, id uuid.UUID) (*types.PracticeSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

// SetSessionStatus moves a session to status
func (s *Store) SetSessionStatus(_ context.Context, id uuid.UUID, status types.Status) error {
	return s.updateSession(id, func(p *types.PracticeSession) { p.Status = status })
}

// CompleteSession stores metrics and feedback and marks the session completed
func (s *Store) CompleteSession(_ context.Context, id uuid.UUID, metrics types.TranscriptMetrics, feedback types.FeedbackResult, degraded bool) error {
	now := s.now()
	return s.updateSession(id, func(p *types.PracticeSession) {
		p.Status = types.StatusCompleted
		p.Metrics = &metrics
		p.Feedback = &feedback
		p.AIDegraded = degraded
		p.CompletedAt = &now
	})
}

func (s *Store) updateSession(id uuid.UUID, fn func(*types.PracticeSession)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("session %s not found", id)
	}
	fn(&session)
	s.sessions[id] = session
	return nil
}

// SaveQuestions stores questions, keeping any existing question with the same text
func (s *Store) SaveQuestions(_ context.Context, deckID uuid.UUID, questions []types.GeneratedQuestion) ([]types.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[deckID]; !ok {
		return nil, fmt.Errorf("deck %s not found", deckID)
	}

	saved := make([]types.Question, 0, len(questions))
	for _, q := range questions {
		if existing, ok := s.findQuestion(deckID, q.QuestionText); ok {
			saved = append(saved, existing)
			continue
		}
		stored := types.Question{ID: uuid.New(), PitchDeckID: deckID, GeneratedQuestion: q, CreatedAt: s.now()}
		s.questions[stored.ID] = stored
		s.order = append(s.order, stored.ID)
		saved = append(saved, stored)
	}
	return saved, nil
}

func (s *Store) findQuestion(deckID uuid.UUID, text string) (types.Question, bool) {
	for _, q := range s.questions {
		if q.PitchDeckID == deckID && q.QuestionText == text {
			return q, true
		}
	}
	return types.Question{}, false
}

// ListQuestions returns a deck's questions in creation order
func (s *Store) ListQuestions(_ context.Context, deckID uuid.UUID) ([]types.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []types.Question{}
	for _, id := range s.order {
		if q := s.questions[id]; q.PitchDeckID == deckID {
			out = append(out, q)
		}
	}
	return out, nil
}

// GetQuestion returns nil when the question does not exist
func (s *Store) GetQuestion(_ context.Context, id uuid.UUID) (*types.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

// RecordQuestionAnswer folds score into the question's running average
func (s *Store) RecordQuestionAnswer(_ context.Context, questionID uuid.UUID, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[questionID]
	if !ok {
		return fmt.Errorf("question %s not found", questionID)
	}
	q.AverageAnswerScore = scoring.RunningAverage(q.AverageAnswerScore, q.TimesAsked, score)
	q.TimesAsked++
	s.questions[questionID] = q
	return nil
}

// CreateAnswer stores an evaluated answer
func (s *Store) CreateAnswer(_ context.Context, a db.NewAnswer) (*types.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[a.QuestionID]; !ok {
		return nil, fmt.Errorf("question %s not found", a.QuestionID)
	}
	answer := types.Answer{
		ID: uuid.New(), QuestionID: a.QuestionID, UserID: a.UserID, PracticeSessionID: a.PracticeSessionID,
		AnswerText: a.AnswerText, AnswerDurationSeconds: a.AnswerDurationSeconds,
		AnswerScores: a.Scores, Status: a.Status, CreatedAt: s.now(),
	}
	s.answers[answer.ID] = answer
	return &answer, nil
}

// RecordPracticeResult adds a completed session to the user's statistics
func (s *Store) RecordPracticeResult(_ context.Context, userID uuid.UUID, score float64, durationSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profiles[userID]
	stats := scoring.Stats{Count: p.TotalPracticeSessions, Average: p.AverageScore, Best: p.BestScore}.Add(score)
	s.profiles[userID] = types.UserProfile{
		UserID:                userID,
		TotalPracticeSessions: stats.Count,
		AverageScore:          stats.Average,
		BestScore:             stats.Best,
		TotalPracticeSeconds:  p.TotalPracticeSeconds + durationSeconds,
		UpdatedAt:             s.now(),
	}
	return nil
}

// GetProfile returns nil when the user has no completed sessions
func (s *Store) GetProfile(_ context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
