// Package server provides the HTTP REST API for pitch coaching.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/pitch-perfect/internal/db"
	"github.com/jonathan/pitch-perfect/internal/jobs"
	"github.com/jonathan/pitch-perfect/internal/logger"
	"github.com/jonathan/pitch-perfect/internal/server/ratelimit"
	"github.com/jonathan/pitch-perfect/internal/types"
)

// DefaultMaxUploadBytes bounds deck uploads
const DefaultMaxUploadBytes = 50 << 20

// Store is the persistence the API reads and writes. *db.DB and *memstore.Store implement it.
type Store interface {
	Ping(ctx context.Context) error

	CreateDeck(ctx context.Context, userID uuid.UUID, title, filePath, fileType string) (uuid.UUID, error)
	GetDeck(ctx context.Context, id uuid.UUID) (*types.PitchDeck, error)
	SetDeckStatus(ctx context.Context, id uuid.UUID, status types.Status) error
	SetQuestionsStatus(ctx context.Context, id uuid.UUID, status types.Status) error
	ListSlides(ctx context.Context, deckID uuid.UUID) ([]types.Slide, error)

	CreateSession(ctx context.Context, s db.NewSession) (uuid.UUID, error)
	GetSession(ctx context.Context, id uuid.UUID) (*types.PracticeSession, error)
	SetSessionStatus(ctx context.Context, id uuid.UUID, status types.Status) error

	ListQuestions(ctx context.Context, deckID uuid.UUID) ([]types.Question, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
}

// AnswerService scores answers synchronously. *workflows.Service implements it.
type AnswerService interface {
	SubmitAnswer(ctx context.Context, questionID uuid.UUID, req types.SubmitAnswerRequest) (*types.Answer, error)
}

// Config holds server configuration
type Config struct {
	Port           int
	UploadDir      string
	MaxUploadBytes int64
	// StatusPollInterval is how often event streams re-read a record
	StatusPollInterval time.Duration

	Store     Store
	Jobs      jobs.Enqueuer
	Answers   AnswerService
	RateLimit *ratelimit.Config
	Log       *logger.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	jobs        jobs.Enqueuer
	answers     AnswerService
	rateLimiter *ratelimit.Limiter
	log         *logger.Logger

	uploadDir      string
	maxUploadBytes int64
	pollInterval   time.Duration
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil || cfg.Jobs == nil || cfg.Answers == nil {
		return nil, errors.New("server requires a store, a job queue and an answer service")
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.StatusPollInterval <= 0 {
		cfg.StatusPollInterval = time.Second
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}

	s := &Server{
		store:          cfg.Store,
		jobs:           cfg.Jobs,
		answers:        cfg.Answers,
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		log:            cfg.Log.With("component", "server"),
		uploadDir:      cfg.UploadDir,
		maxUploadBytes: cfg.MaxUploadBytes,
		pollInterval:   cfg.StatusPollInterval,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 0, // event streams stay open until the workflow finishes
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler wrapped in middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /decks", s.handleUploadDeck)
	mux.HandleFunc("GET /decks/{id}", s.handleGetDeck)
	mux.HandleFunc("GET /decks/{id}/events", s.handleDeckEvents)
	mux.HandleFunc("POST /decks/{id}/questions", s.handleGenerateQuestions)
	mux.HandleFunc("GET /decks/{id}/questions", s.handleListQuestions)

	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("GET /sessions/{id}/events", s.handleSessionEvents)

	mux.HandleFunc("POST /questions/{id}/answers", s.handleSubmitAnswer)

	mux.HandleFunc("GET /users/{id}/profile", s.handleGetProfile)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer s.rateLimiter.Stop()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their endpoint budget with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps event streams working through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging logs every request with its status and latency
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", clientID(r),
			"elapsed", time.Since(start).String(),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.Error("health check failed", "error", err)
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and hides internal failures from clients
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// pathID parses the {id} path value
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// clientID identifies the caller by IP address
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}
	s.log.Warn("rate limit exceeded", "client", clientID(r), "path", r.URL.Path, "limit", info.Limit)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
