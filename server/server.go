// Package server exposes the agent over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	deepresearch "github.com/furixturi/deep-research-scratch"
	"github.com/furixturi/deep-research-scratch/logging"
)

// Runner executes one agent run. *deepresearch.DeepResearch satisfies it.
// Errors wrapping deepresearch.ErrInvalidConfig are reported as bad requests.
type Runner interface {
	Run(ctx context.Context, prompt string, cfg map[string]any) (string, error)
}

// Options configures the Server.
type Options struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// RunTimeout bounds a single /run_agent request. Zero means no bound
	// beyond the client's own cancellation.
	RunTimeout time.Duration

	// ReadHeaderTimeout is applied to the underlying http.Server.
	ReadHeaderTimeout time.Duration
}

// RunRequest is the body of POST /run_agent.
type RunRequest struct {
	Prompt string         `json:"prompt"`
	Config map[string]any `json:"config,omitempty"`
}

// RunResponse is the body returned by POST /run_agent.
type RunResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Server serves the run and health endpoints.
type Server struct {
	runner Runner
	opts   Options
	router *mux.Router
	srv    *http.Server
}

// New creates a new Server.
func New(runner Runner, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:            logging.NoOpLogger{},
		ReadHeaderTimeout: 10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	s := &Server{runner: runner, opts: opts}

	r := mux.NewRouter()
	r.HandleFunc("/run_agent", s.handleRunAgent).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Use(s.logRequests)
	s.router = r

	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on addr and blocks until the server stops. It returns nil
// after a graceful Shutdown.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
	}

	s.opts.Logger.Info("server.start", "addr", addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleRunAgent(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		s.errorResponse(w, http.StatusBadRequest, errors.New("prompt is required"))
		return
	}

	ctx := r.Context()
	if s.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RunTimeout)
		defer cancel()
	}

	answer, err := s.runner.Run(ctx, req.Prompt, req.Config)
	switch {
	case errors.Is(err, deepresearch.ErrInvalidConfig):
		s.errorResponse(w, http.StatusBadRequest, err)
		return
	case err != nil:
		s.errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, RunResponse{Response: answer})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.opts.Logger.Debug("server.request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.opts.Logger.Warn("server.encode.error", "error", err.Error())
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, err error) {
	s.opts.Logger.Error("server.request.error", "status", status, "error", err.Error())
	s.jsonResponse(w, status, RunResponse{Error: err.Error()})
}
