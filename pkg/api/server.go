// Package api implements the HTTP observability server of the flexsdr
// primary: health, readiness and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flexsdr/flexsdr/pkg/logging"
	"github.com/flexsdr/flexsdr/pkg/transport"
)

// Config configures the API server.
type Config struct {
	Addr     string
	Primary  *transport.Primary
	EventBuf *logging.EventBuffer
	Version  string
}

// Server is the HTTP observability server.
type Server struct {
	httpServer *http.Server
	primary    *transport.Primary
	eventBuf   *logging.EventBuffer
	version    string
	startTime  time.Time
	ready      func() bool
}

// NewServer creates the observability server. ready reports whether the
// primary's resources are up; nil means always ready.
func NewServer(cfg Config, ready func() bool) *Server {
	s := &Server{
		primary:   cfg.Primary,
		eventBuf:  cfg.EventBuf,
		version:   cfg.Version,
		startTime: time.Now(),
		ready:     ready,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(newCollector(s))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/readyz", s.handleReadyz)
	mux.HandleFunc("/events", s.handleEvents)

	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}
	return s
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.startTime).String(),
	})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if s.ready != nil && !s.ready() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready\n"))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.eventBuf == nil {
		http.Error(w, "no event buffer", http.StatusNotFound)
		return
	}
	n := 100
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.eventBuf.Recent(n))
}
