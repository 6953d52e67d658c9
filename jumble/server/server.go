// Package server exposes the resolver over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ZanzyTHEbar/jumble-solver/jumble/common"
	"github.com/ZanzyTHEbar/jumble-solver/jumble/resolver"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 30 * time.Second

// Options configures a Server.
type Options struct {
	Address      string
	SolveTimeout time.Duration // zero disables the per-request deadline
}

// Server serves solve requests against one resolver.
type Server struct {
	resolver *resolver.Resolver
	opts     Options
	registry *prometheus.Registry
	metrics  *Metrics
	router   chi.Router
}

// SolveResponse is the body of a successful /solve request.
type SolveResponse struct {
	Word  string   `json:"word"`
	Count int      `json:"count"`
	Words []string `json:"words"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds the router and registers metrics on a private registry.
func New(r *resolver.Resolver, opts Options) *Server {
	registry := prometheus.NewRegistry()
	s := &Server{
		resolver: r,
		opts:     opts,
		registry: registry,
		metrics:  NewMetrics(registry),
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/solve", s.handleSolve)
	router.Get("/healthz", s.handleHealth)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	s.router = router

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Registry returns the registry holding the service metrics.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

// Run serves until ctx is cancelled, then shuts down gracefully. It returns
// only after the shutdown goroutine has exited, including when the listener
// fails to start.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})
	defer func() {
		cancel()
		<-stopped
	}()

	go func() {
		defer close(stopped)
		<-ctx.Done()
		slog.Info("Shutting down solver service", "address", s.opts.Address)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Solver service shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting solver service",
		"address", s.opts.Address,
		"signatures", s.resolver.Index().Size())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("solver service: %w", err)
	}
	return nil
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")

	ctx := r.Context()
	if s.opts.SolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.SolveTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.resolver.SolveContext(ctx, word)
	s.metrics.duration.Observe(time.Since(start).Seconds())

	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case common.IsInvalidInput(err):
			status = http.StatusBadRequest
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			status = http.StatusServiceUnavailable
		}
		slog.Debug("Solve request failed", "word", word, "status", status, "error", err)
		s.metrics.requests.WithLabelValues(strconv.Itoa(status)).Inc()
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	words := res.Words()
	s.metrics.results.Observe(float64(len(words)))
	s.metrics.requests.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	writeJSON(w, http.StatusOK, SolveResponse{Word: word, Count: len(words), Words: words})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	idx := s.resolver.Index()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"signatures": idx.Size(),
		"build_id":   idx.BuildID().String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
