package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/pitch-perfect/internal/db"
	"github.com/jonathan/pitch-perfect/internal/jobs"
	"github.com/jonathan/pitch-perfect/internal/types"
)

// handleCreateSession records a practice session and queues its analysis
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req types.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	in := db.NewSession{
		UserID:                uuid.MustParse(req.UserID),
		PitchType:             req.PitchType,
		Transcript:            req.Transcript,
		DurationSeconds:       req.DurationSeconds,
		TargetDurationSeconds: req.TargetDurationSeconds,
	}
	if req.PitchDeckID != "" {
		deckID := uuid.MustParse(req.PitchDeckID)
		deck, err := s.store.GetDeck(r.Context(), deckID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if deck == nil {
			s.writeError(w, r, &ErrNotFound{Resource: "deck", ID: deckID.String()})
			return
		}
		in.PitchDeckID = &deckID
	}

	sessionID, err := s.store.CreateSession(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.jobs.Enqueue(r.Context(), jobs.NewJob(jobs.KindAnalyzeSession, sessionID)); err != nil {
		s.failQueued(w, r, err, func() error { return s.store.SetSessionStatus(r.Context(), sessionID, types.StatusFailed) })
		return
	}
	s.jsonResponse(w, http.StatusAccepted, AcceptedResponse{ID: sessionID, Status: types.StatusPending})
}

// handleGetSession returns a practice session with its metrics and feedback
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*types.PracticeSession, bool) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	session, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if session == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "session", ID: id.String()})
		return nil, false
	}
	return session, true
}

// handleSubmitAnswer scores an answer to an investor question
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req types.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	answer, err := s.answers.SubmitAnswer(r.Context(), questionID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, answer)
}

// handleGetProfile returns a user's practice statistics; users without
// completed sessions get an empty profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if profile == nil {
		profile = &types.UserProfile{UserID: userID}
	}
	s.jsonResponse(w, http.StatusOK, profile)
}
