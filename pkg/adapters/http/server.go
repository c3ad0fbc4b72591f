package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/tms"
	"github.com/aretw0/tms/internal/logging"
	"github.com/aretw0/tms/pkg/domain"
	"github.com/aretw0/tms/pkg/observability"
	"github.com/aretw0/tms/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxConfigBytes bounds the configuration accepted by POST /sessions.
const maxConfigBytes = 1 << 20

// Outcome describes how an operation left the machine.
type Outcome string

const (
	OutcomeRunning Outcome = "running"
	OutcomeHalted  Outcome = "halted"
	OutcomeStuck   Outcome = "stuck"
	OutcomeLimit   Outcome = "step_limit"
	OutcomeFailed  Outcome = "failed"
)

// Result is the body returned by every session operation.
type Result struct {
	SessionID string           `json:"session_id"`
	Snapshot  *domain.Snapshot `json:"snapshot"`
	Applied   int              `json:"applied"`
	Outcome   Outcome          `json:"outcome"`
	Error     string           `json:"error,omitempty"`
}

// Server exposes a session.Manager over REST.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics serves m on GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	server := &Server{
		Sessions: sessions,
		Streams:  NewStreamManager(),
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams.logger = server.Logger

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics.Handler())
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", server.ListSessions)
		r.Post("/", server.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.GetSession)
			r.Delete("/", server.DeleteSession)
			r.Post("/step", server.Step)
			r.Post("/run", server.Run)
			r.Post("/reset", server.Reset)
			r.Get("/events", server.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateSession handles POST /sessions. The body is the configuration text;
// the optional query parameters id and name pick the session ID and source name.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxConfigBytes+1))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("CreateSession: Invalid request body", "err", err)
		return
	}
	if len(body) > maxConfigBytes {
		http.Error(w, "Configuration too large", http.StatusRequestEntityTooLarge)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		id = uuid.NewString()
	}
	if err := session.ValidateID(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = id
	}

	snap, err := s.Sessions.Create(r.Context(), id, name, string(body))
	if err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusBadRequest)
			s.Logger.Warn("CreateSession: Configuration rejected", "session_id", id, "err", err)
			return
		}
		http.Error(w, fmt.Sprintf("Create error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("CreateSession failed", "session_id", id, "err", err)
		return
	}

	s.Streams.Broadcast(id, domain.Diff(nil, snap))
	w.Header().Set("Location", "/sessions/"+id)
	writeJSON(w, http.StatusCreated, s.result(id, snap, 0, nil), s.Logger)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("ListSessions failed", "err", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids}, s.Logger)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.storeError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, s.result(id, snap, 0, nil), s.Logger)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.storeError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Step handles POST /sessions/{id}/step.
func (s *Server) Step(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(ctx context.Context, sim *tms.Simulator) (int, error) {
		if err := sim.Step(); err != nil {
			return 0, err
		}
		return 1, nil
	})
}

// Run handles POST /sessions/{id}/run?max=N. N defaults to tms.DefaultMaxSteps.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	maxSteps := tms.DefaultMaxSteps
	if raw := r.URL.Query().Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "max must be a positive integer", http.StatusBadRequest)
			return
		}
		maxSteps = n
	}
	s.apply(w, r, func(ctx context.Context, sim *tms.Simulator) (int, error) {
		return sim.Run(ctx, maxSteps)
	})
}

// Reset handles POST /sessions/{id}/reset.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(ctx context.Context, sim *tms.Simulator) (int, error) {
		return 0, sim.Reset()
	})
}

// apply runs op against the stored machine and reports the outcome.
// Only fatal step errors are reported with an error status: a machine without
// an applicable rule or one that hit the step limit is still a valid answer.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, op func(context.Context, *tms.Simulator) (int, error)) {
	id := chi.URLParam(r, "id")

	var (
		applied int
		before  *domain.Snapshot
	)
	snap, err := s.Sessions.Do(r.Context(), id, func(ctx context.Context, sim *tms.Simulator) error {
		before = sim.Snapshot()
		var opErr error
		applied, opErr = op(ctx, sim)
		return opErr
	})
	if snap == nil {
		s.storeError(w, id, err)
		return
	}

	if diff := domain.Diff(before, snap); diff != nil {
		s.Streams.Broadcast(id, diff)
	}

	status := http.StatusOK
	if domain.IsFatal(err) {
		status = http.StatusUnprocessableEntity
	} else if err != nil && !isOutcome(err) {
		status = http.StatusInternalServerError
		s.Logger.Error("Session operation failed", "session_id", id, "err", err)
	}
	writeJSON(w, status, s.result(id, snap, applied, err), s.Logger)
}

func isOutcome(err error) bool {
	return errors.Is(err, domain.ErrNoMatchingInstruction) || errors.Is(err, domain.ErrStepLimit)
}

func (s *Server) result(id string, snap *domain.Snapshot, applied int, err error) Result {
	res := Result{SessionID: id, Snapshot: snap, Applied: applied, Outcome: OutcomeRunning}
	switch {
	case errors.Is(err, domain.ErrNoMatchingInstruction):
		res.Outcome = OutcomeStuck
	case errors.Is(err, domain.ErrStepLimit):
		res.Outcome = OutcomeLimit
	case err != nil:
		res.Outcome = OutcomeFailed
	case snap.Halted:
		res.Outcome = OutcomeHalted
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func (s *Server) storeError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, fmt.Sprintf("Session %q not found", id), http.StatusNotFound)
		return
	}
	http.Error(w, fmt.Sprintf("Session error: %v", err), http.StatusInternalServerError)
	s.Logger.Error("Session store failed", "session_id", id, "err", err)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.Logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"app":     "tms-http",
		"version": strings.TrimSpace(tms.Version),
	}
	writeJSON(w, http.StatusOK, resp, s.Logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
