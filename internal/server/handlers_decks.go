package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/pitch-perfect/internal/extraction"
	"github.com/jonathan/pitch-perfect/internal/jobs"
	"github.com/jonathan/pitch-perfect/internal/types"
)

// AcceptedResponse is returned when work has been queued
type AcceptedResponse struct {
	ID     uuid.UUID    `json:"id"`
	Status types.Status `json:"status"`
}

// DeckResponse is a deck with its analyzed slides
type DeckResponse struct {
	*types.PitchDeck
	Slides []types.Slide `json:"slides"`
}

// QuestionsResponse lists a deck's investor questions
type QuestionsResponse struct {
	PitchDeckID     uuid.UUID        `json:"pitch_deck_id"`
	QuestionsStatus types.Status     `json:"questions_status,omitempty"`
	Questions       []types.Question `json:"questions"`
}

// handleUploadDeck stores an uploaded deck and queues its analysis
func (s *Server) handleUploadDeck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || r.ContentLength > s.maxUploadBytes {
			s.writeError(w, r, &http.MaxBytesError{Limit: s.maxUploadBytes})
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "file", Message: "a deck file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	req := types.UploadDeckRequest{
		UserID:   r.FormValue("user_id"),
		Title:    strings.TrimSpace(r.FormValue("title")),
		FileName: header.Filename,
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	fileType, err := extraction.FileType(header.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	userID := uuid.MustParse(req.UserID)

	path, err := s.saveUpload(file, fileType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	deckID, err := s.store.CreateDeck(r.Context(), userID, req.Title, path, fileType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.jobs.Enqueue(r.Context(), jobs.NewJob(jobs.KindAnalyzeDeck, deckID)); err != nil {
		s.failQueued(w, r, err, func() error { return s.store.SetDeckStatus(r.Context(), deckID, types.StatusFailed) })
		return
	}

	s.log.Info("deck uploaded", "deck_id", deckID, "file_type", fileType, "bytes", header.Size)
	s.jsonResponse(w, http.StatusAccepted, AcceptedResponse{ID: deckID, Status: types.StatusPending})
}

// saveUpload writes the file under the upload directory with a generated name
func (s *Server) saveUpload(src io.Reader, fileType string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	path := filepath.Join(s.uploadDir, uuid.NewString()+"."+fileType)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path, nil
}

// failQueued reports a queue failure after marking the record failed
func (s *Server) failQueued(w http.ResponseWriter, r *http.Request, err error, markFailed func() error) {
	s.log.Error("failed to enqueue job", "path", r.URL.Path, "error", err)
	if markErr := markFailed(); markErr != nil {
		s.log.Error("failed to mark record failed", "error", markErr)
	}
	s.errorResponse(w, http.StatusServiceUnavailable, "job queue unavailable")
}

// handleGetDeck returns a deck and its slides
func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deck, ok := s.loadDeck(w, r)
	if !ok {
		return
	}
	slides, err := s.store.ListSlides(r.Context(), deck.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if slides == nil {
		slides = []types.Slide{}
	}
	s.jsonResponse(w, http.StatusOK, DeckResponse{PitchDeck: deck, Slides: slides})
}

// handleGenerateQuestions queues question generation for an analyzed deck
func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	deck, ok := s.loadDeck(w, r)
	if !ok {
		return
	}
	if deck.Status != types.StatusCompleted {
		s.writeError(w, r, &ErrConflict{Message: fmt.Sprintf("deck analysis is %s, questions need a completed analysis", deck.Status)})
		return
	}
	if deck.QuestionsStatus == types.StatusPending || deck.QuestionsStatus == types.StatusProcessing {
		s.jsonResponse(w, http.StatusAccepted, AcceptedResponse{ID: deck.ID, Status: deck.QuestionsStatus})
		return
	}

	if err := s.store.SetQuestionsStatus(r.Context(), deck.ID, types.StatusPending); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.jobs.Enqueue(r.Context(), jobs.NewJob(jobs.KindGenerateQuestions, deck.ID)); err != nil {
		s.failQueued(w, r, err, func() error { return s.store.SetQuestionsStatus(r.Context(), deck.ID, types.StatusFailed) })
		return
	}
	s.jsonResponse(w, http.StatusAccepted, AcceptedResponse{ID: deck.ID, Status: types.StatusPending})
}

// handleListQuestions returns the generated questions of a deck
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	deck, ok := s.loadDeck(w, r)
	if !ok {
		return
	}
	questions, err := s.store.ListQuestions(r.Context(), deck.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if questions == nil {
		questions = []types.Question{}
	}
	s.jsonResponse(w, http.StatusOK, QuestionsResponse{
		PitchDeckID:     deck.ID,
		QuestionsStatus: deck.QuestionsStatus,
		Questions:       questions,
	})
}

// loadDeck resolves the {id} path value to a deck, writing the error response if it cannot
func (s *Server) loadDeck(w http.ResponseWriter, r *http.Request) (*types.PitchDeck, bool) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	deck, err := s.store.GetDeck(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if deck == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "deck", ID: id.String()})
		return nil, false
	}
	return deck, true
}
