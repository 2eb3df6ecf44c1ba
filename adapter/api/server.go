// Package api provides the HTTP API for the todo service.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/todo/pkg/observability"
)

// Server is the HTTP API server for tasks.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	handler *TaskHandler
	cfg     ServerConfig
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// BasePath mounts every route a second time under this prefix, e.g. "/api".
	BasePath string
	// AllowedOrigin is echoed in Access-Control-Allow-Origin.
	AllowedOrigin string
	// Metrics enables request metrics and GET /metrics when set.
	Metrics *observability.InMemoryMetrics
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:          "0.0.0.0:8080",
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		AllowedOrigin: "*",
	}
}

// NewServer creates a new task API server.
func NewServer(cfg ServerConfig, handler *TaskHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")

	mux := http.NewServeMux()

	s := &Server{
		mux:     mux,
		logger:  logger,
		handler: handler,
		cfg:     cfg,
	}

	s.registerRoutes("")
	if cfg.BasePath != "" {
		s.registerRoutes(cfg.BasePath)
	}

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes under prefix.
func (s *Server) registerRoutes(prefix string) {
	// Health check
	s.mux.HandleFunc("GET "+prefix+"/health", s.handleHealth)
	if s.cfg.Metrics != nil {
		s.mux.HandleFunc("GET "+prefix+"/metrics", s.handleMetrics)
	}

	// Tasks
	s.mux.HandleFunc("GET "+prefix+"/{$}", s.handler.ListTasks)
	if prefix != "" {
		s.mux.HandleFunc("GET "+prefix, s.handler.ListTasks)
	}
	s.mux.HandleFunc("GET "+prefix+"/tasks", s.handler.ListTasks)
	s.mux.HandleFunc("GET "+prefix+"/tasks/{id}", s.handler.GetTask)
	s.mux.HandleFunc("POST "+prefix+"/add", s.handler.AddTask)
	s.mux.HandleFunc("PUT "+prefix+"/update/{id}", s.handler.UpdateTask)
	s.mux.HandleFunc("DELETE "+prefix+"/delete/{id}", s.handler.DeleteTask)
}

// Handler returns the routed mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mws := []middleware{
		requestContext,
		cors(s.cfg.AllowedOrigin),
		logRequests(s.logger),
		recoverPanics(s.logger),
	}
	if s.cfg.Metrics != nil {
		mws = append(mws, recordMetrics(s.cfg.Metrics))
	}
	return chain(s.mux, mws...)
}

// handleHealth reports liveness only; it never touches the store.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMetrics dumps the in-process metrics snapshot.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Metrics.Snapshot())
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting todo API server",
		"addr", s.server.Addr,
		"base_path", s.cfg.BasePath,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down todo API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Log error but can't do much at this point
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
