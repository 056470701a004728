package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/agentcore"
	"github.com/aretw0/agentcore/pkg/protocol"
	"github.com/aretw0/agentcore/pkg/provider"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds a protocol request body.
const maxBodyBytes = 1 << 20

// Dispatcher answers protocol requests for one provider.
type Dispatcher interface {
	Name() string
	Status() provider.Status
	Handle(ctx context.Context, req protocol.Request) any
}

// Server exposes a provider over HTTP.
type Server struct {
	Provider Dispatcher
	Logger   *slog.Logger
}

// NewHandler creates the HTTP handler for a provider:
//
//	POST /        tools/list and tools/call
//	GET  /health  plain "OK" liveness
//	GET  /status  session status
//	GET  /info    build information
func NewHandler(p Dispatcher, logger *slog.Logger) http.Handler {
	server := &Server{
		Provider: p,
		Logger:   logger,
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Post("/", server.Dispatch)
	r.Get("/health", server.GetHealth)
	r.Get("/status", server.GetStatus)
	r.Get("/info", server.GetInfo)
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

// Dispatch handles POST /. Tool failures are part of a 200 response body;
// only an undecodable request is answered with 500.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req protocol.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.Logger.Warn("Dispatch: invalid request body", "provider", s.Provider.Name(), "err", err)
		writeJSON(w, http.StatusInternalServerError, protocol.ErrorBody{Error: fmt.Sprintf("invalid request: %v", err)}, s.Logger)
		return
	}

	s.Logger.Debug("Dispatch", "provider", s.Provider.Name(), "method", req.Method)
	writeJSON(w, http.StatusOK, s.Provider.Handle(r.Context(), req), s.Logger)
}

// GetHealth handles GET /health. The process is alive even when the session is not.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// GetStatus handles GET /status: the provider's session state.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := s.Provider.Status()
	resp := map[string]string{
		"status":   "ok",
		"provider": s.Provider.Name(),
		"session":  status.String(),
	}
	if !status.IsReady() {
		resp["reason"] = status.Reason()
	}
	writeJSON(w, http.StatusOK, resp, s.Logger)
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"app":      "agentcore-provider",
		"provider": s.Provider.Name(),
		"version":  strings.TrimSpace(agentcore.Version),
	}
	writeJSON(w, http.StatusOK, resp, s.Logger)
}

func writeJSON(w http.ResponseWriter, code int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
