package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jonathan/pitch-perfect/internal/types"
)

// StatusEvent is streamed whenever a workflow record changes state
type StatusEvent struct {
	ID     string       `json:"id"`
	Status types.Status `json:"status"`
}

// handleDeckEvents streams deck analysis status until it is terminal
func (s *Server) handleDeckEvents(w http.ResponseWriter, r *http.Request) {
	deck, ok := s.loadDeck(w, r)
	if !ok {
		return
	}
	s.streamStatus(w, r, deck.ID.String(), func(ctx context.Context) (types.Status, error) {
		d, err := s.store.GetDeck(ctx, deck.ID)
		if err != nil {
			return "", err
		}
		if d == nil {
			return "", &ErrNotFound{Resource: "deck", ID: deck.ID.String()}
		}
		return d.Status, nil
	})
}

// handleSessionEvents streams session analysis status until it is terminal
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	session, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	s.streamStatus(w, r, session.ID.String(), func(ctx context.Context) (types.Status, error) {
		sess, err := s.store.GetSession(ctx, session.ID)
		if err != nil {
			return "", err
		}
		if sess == nil {
			return "", &ErrNotFound{Resource: "session", ID: session.ID.String()}
		}
		return sess.Status, nil
	})
}

// streamStatus polls current and sends a status event on every change. The
// stream ends with a complete event once the status is terminal.
func (s *Server) streamStatus(w http.ResponseWriter, r *http.Request, id string, current func(context.Context) (types.Status, error)) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var last types.Status
	for {
		status, err := current(r.Context())
		if err != nil {
			s.log.Error("failed to read status", "id", id, "error", err)
			sse.WriteError("failed to read status")
			return
		}
		if status != last {
			last = status
			if err := sse.WriteEvent("status", StatusEvent{ID: id, Status: status}); err != nil {
				return
			}
		}
		if status.Terminal() {
			_ = sse.WriteEvent("complete", StatusEvent{ID: id, Status: status})
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
