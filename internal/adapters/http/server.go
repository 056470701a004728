package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/aretw0/agentcore/internal/logging"
	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/aretw0/agentcore/pkg/protocol"
)

const (
	maxBodyBytes    = 1 << 20
	requestIDHeader = "X-Request-Id"
)

// Executor runs one decoded workflow request.
type Executor interface {
	ExecuteRaw(ctx context.Context, raw map[string]any) domain.WorkflowResult
}

// Server is the front door: it accepts workflow/execute requests over HTTP.
type Server struct {
	Executor Executor
	Logger   *slog.Logger
	Metrics  http.Handler
}

// Option configures the front door.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics mounts a metrics handler on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// NewHandler creates the front door handler:
//
//	POST /, /rpc  workflow/execute
//	GET  /health  plain "OK"
//	GET  /metrics Prometheus exposition, when configured
func NewHandler(exec Executor, opts ...Option) http.Handler {
	server := &Server{
		Executor: exec,
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(server.requestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Post("/", server.Execute)
	r.Post("/rpc", server.Execute)
	r.Get("/health", server.GetHealth)
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestID tags the request with a correlation id, reusing the caller's when present.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		logger := s.Logger.With("request_id", id)
		next.ServeHTTP(w, r.WithContext(logging.WithContext(r.Context(), logger)))
	})
}

// Execute handles POST / and POST /rpc.
//
// A decoded request always gets a 200 with the workflow result, including routing and tool
// errors. A request without a task gets 400; a body that cannot be decoded gets 500.
func (s *Server) Execute(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), s.Logger)

	var req protocol.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.Warn("Execute: invalid request body", "err", err)
		writeJSON(w, http.StatusInternalServerError, protocol.ErrorBody{Error: err.Error()}, logger)
		return
	}

	if req.Method != protocol.MethodWorkflowExecute {
		logger.Info("Execute: unknown method", "method", req.Method)
		writeJSON(w, http.StatusOK, protocol.ErrorBody{Error: protocol.UnknownMethodMessage}, logger)
		return
	}

	params := map[string]any{}
	if err := req.DecodeParams(&params); err != nil {
		logger.Warn("Execute: invalid params", "err", err)
		writeJSON(w, http.StatusInternalServerError, protocol.ErrorBody{Error: err.Error()}, logger)
		return
	}
	if params == nil {
		params = map[string]any{}
	}
	if _, ok := params["task"]; !ok {
		writeJSON(w, http.StatusBadRequest, protocol.ErrorBody{Error: domain.ErrTaskRequired.Error()}, logger)
		return
	}

	result := s.Executor.ExecuteRaw(r.Context(), params)
	writeJSON(w, http.StatusOK, result, logger)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, code int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
