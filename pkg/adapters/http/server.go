package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/observability"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
)

// Server implements ServerInterface on top of a calculator and a session manager.
type Server struct {
	Calculator ports.Calculator
	Sessions   *session.Manager
	Streams    *StreamManager
	Metrics    *observability.Metrics
	Logger     *slog.Logger
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the handler.
type Option func(*Server)

// WithMetrics records request durations and serves /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the logger of the handlers and of the default StreamManager.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithStreams shares a StreamManager, e.g. with another host in the process.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// NewHandler creates the HTTP handler of the API.
func NewHandler(calc ports.Calculator, sessions *session.Manager, opts ...Option) http.Handler {
	server := &Server{
		Calculator: calc,
		Sessions:   sessions,
		Streams:    NewStreamManager(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Logger == nil {
		server.Logger = logging.NewNop()
	}
	if server.Streams.Logger == nil {
		server.Streams.Logger = server.Logger
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if server.Metrics != nil {
		r.Use(server.Metrics.Middleware)
		r.Handle("/metrics", server.Metrics.Handler())
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			server.Logger.Error("Failed to load OpenAPI spec", "err", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	handler := HandlerFromMux(server, r)
	return enableCORS(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
		w.Header().Set("Access-Control-Expose-Headers", "ETag, Location")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>abacus API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "abacus-http",
		"version":     strings.TrimSpace(abacus.Version),
		"api_version": apiVersion,
		"keymap":      string(s.Calculator.Keymap().Profile()),
	})
}

// ListKeys handles the GET /keys request.
func (s *Server) ListKeys(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Calculator.Keymap().Bindings())
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles the POST /sessions request.
// Without a session_id in the body a random one is assigned.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.Logger.Warn("CreateSession: Invalid request body", "err", err)
			return
		}
	}

	var mode domain.AngleMode
	if body.AngleMode != nil {
		var err error
		if mode, err = domain.ParseAngleMode(*body.AngleMode); err != nil {
			http.Error(w, fmt.Sprintf("Invalid angle_mode %q", *body.AngleMode), http.StatusBadRequest)
			return
		}
	}

	id := uuid.NewString()
	if body.SessionID != nil {
		clean, err := runner.SanitizeInput(strings.TrimSpace(*body.SessionID))
		if err != nil || clean == "" {
			http.Error(w, "Invalid session_id", http.StatusBadRequest)
			return
		}
		id = clean
	}

	state, err := s.Sessions.Create(r.Context(), id)
	if err != nil {
		s.writeError(w, "CreateSession", err)
		return
	}
	if mode != "" && mode != state.AngleMode {
		_, state, err = s.Sessions.Apply(r.Context(), id, func(st *domain.State) (*domain.State, error) {
			return s.Calculator.SetAngleMode(r.Context(), st, mode)
		})
		if err != nil {
			s.writeError(w, "CreateSession", err)
			return
		}
	}

	s.Logger.Info("Session created", "session_id", id)
	w.Header().Set("Location", "/sessions/"+id)
	writeState(w, http.StatusCreated, state)
}

// GetSession handles the GET /sessions/{sessionID} request.
// It honors If-None-Match with an ETag derived from the state.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	state, err := s.Sessions.Load(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}
	tag := etag(data)
	w.Header().Set("ETag", tag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(append(data, '\n'))
}

// DeleteSession handles the DELETE /sessions/{sessionID} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.Sessions.Delete(r.Context(), sessionID); err != nil {
		s.writeError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles the POST /sessions/{sessionID}/events request.
// Tokens are reduced in order under the session lock; an unknown token
// rejects the whole request and leaves the session unchanged.
func (s *Server) PressKeys(w http.ResponseWriter, r *http.Request, sessionID string) {
	var body PressRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("PressKeys: Invalid request body", "err", err)
		return
	}
	for i, tok := range body.Tokens {
		clean, err := runner.SanitizeInput(tok)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
			s.Logger.Warn("PressKeys: Input rejected", "err", err, "size", len(tok))
			return
		}
		body.Tokens[i] = clean
	}

	s.update(w, r, "PressKeys", sessionID, func(st *domain.State) (*domain.State, error) {
		return s.Calculator.PressAll(r.Context(), st, body.Tokens)
	})
}

// SetAngleMode handles the PUT /sessions/{sessionID}/angle-mode request.
func (s *Server) SetAngleMode(w http.ResponseWriter, r *http.Request, sessionID string) {
	var body AngleModeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("SetAngleMode: Invalid request body", "err", err)
		return
	}
	mode, err := domain.ParseAngleMode(body.AngleMode)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid angle_mode %q", body.AngleMode), http.StatusBadRequest)
		return
	}

	s.update(w, r, "SetAngleMode", sessionID, func(st *domain.State) (*domain.State, error) {
		return s.Calculator.SetAngleMode(r.Context(), st, mode)
	})
}

// ClearMemory handles the DELETE /sessions/{sessionID}/memory request.
func (s *Server) ClearMemory(w http.ResponseWriter, r *http.Request, sessionID string) {
	s.update(w, r, "ClearMemory", sessionID, func(st *domain.State) (*domain.State, error) {
		return abacus.ClearMemory(st), nil
	})
}

// ClearError handles the DELETE /sessions/{sessionID}/error request.
func (s *Server) ClearError(w http.ResponseWriter, r *http.Request, sessionID string) {
	s.update(w, r, "ClearError", sessionID, func(st *domain.State) (*domain.State, error) {
		return abacus.ClearError(st), nil
	})
}

// update applies fn under the session lock, broadcasts the diff and writes the new state.
func (s *Server) update(w http.ResponseWriter, r *http.Request, op, sessionID string, fn func(*domain.State) (*domain.State, error)) {
	prev, next, err := s.Sessions.Apply(r.Context(), sessionID, fn)
	if err != nil {
		s.writeError(w, op, err)
		return
	}

	if diff := domain.Diff(prev, next); diff != nil {
		s.Logger.Debug(op+": Diff calculated", "session_id", sessionID)
		s.Streams.Broadcast(diff)
	}
	writeState(w, http.StatusOK, next)
}

// StreamSession handles the GET /sessions/{sessionID}/stream request (SSE).
// The first data event carries the full current state as a diff.
func (s *Server) StreamSession(w http.ResponseWriter, r *http.Request, sessionID string, params StreamSessionParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("StreamSession: Streaming not supported")
		return
	}

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	// Subscribe before loading so no update falls between the snapshot and the stream.
	state, err := s.Sessions.Load(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, "StreamSession", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.Logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	if data, err := json.Marshal(domain.Diff(nil, state)); err == nil {
		fmt.Fprintf(w, "data: %s\n\n", data)
	}
	flusher.Flush()

	watch := parseWatch(params.Watch)
	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if !matches(ev.diff, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", ev.data)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func etag(data []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(data))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func writeState(w http.ResponseWriter, status int, state *domain.State) {
	data, err := json.Marshal(state)
	if err != nil {
		http.Error(w, "State encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("ETag", etag(data))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrSessionExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrUnknownKey),
		errors.Is(err, domain.ErrKeyNotInLayout),
		errors.Is(err, domain.ErrInvalidAngleMode):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.Logger.Error(op+" failed", "err", err)
	}
}
