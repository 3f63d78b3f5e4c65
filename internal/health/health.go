// Package health provides the HTTP health check endpoints.
//
// Docker and Kubernetes use these endpoints to monitor the daemon. /healthz
// reports liveness once the daemon is up; /readyz additionally reports
// whether a command is being processed and what state the news circuit
// breaker is in.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Status is the body returned by the health endpoints.
type Status struct {
	Status  string `json:"status"`
	Busy    bool   `json:"busy"`
	Breaker string `json:"breaker,omitempty"`
}

// Readiness reports runtime details for /readyz.
type Readiness struct {
	Busy    func() bool
	Breaker func() string
}

// Server is a lightweight HTTP server that exposes /healthz and /readyz.
type Server struct {
	port      int
	readiness Readiness
	ready     atomic.Bool
	server    *http.Server
}

// New creates a new health check server.
func New(port int, readiness Readiness) *Server {
	return &Server{port: port, readiness: readiness}
}

// SetReady marks the daemon as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Ready reports whether the daemon is ready.
func (s *Server) Ready() bool { return s.ready.Load() }

// Handler returns the health endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		s.write(w, Status{Status: "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		st := Status{Status: "ok"}
		if s.readiness.Busy != nil {
			st.Busy = s.readiness.Busy()
		}
		if s.readiness.Breaker != nil {
			st.Breaker = s.readiness.Breaker()
		}
		s.write(w, st)
	})
	return mux
}

func (s *Server) write(w http.ResponseWriter, st Status) {
	w.Header().Set("Content-Type", "application/json")
	if !s.ready.Load() {
		st.Status = "not_ready"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(st)
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
