// Package httpserver is the HTTP front door: GET /config returns a
// packaged configuration archive, /healthz/{readiness,liveness} serve
// process health checks, and /metrics exposes Prometheus metrics.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/simpleg-eu/cp-config/internal/appstate"
	"github.com/simpleg-eu/cp-config/internal/logfields"
)

// Server owns the single listener this service exposes.
type Server struct {
	addr           string
	state          *appstate.State
	metricsHandler http.Handler
	srv            *http.Server
}

// New constructs a Server bound to addr:port, serving state's collaborators
// and metricsHandler (nil disables /metrics).
func New(address string, port int, state *appstate.State, metricsHandler http.Handler) *Server {
	s := &Server{
		addr:           fmt.Sprintf("%s:%d", address, port),
		state:          state,
		metricsHandler: metricsHandler,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/config", s.handleGetConfig)
	mux.HandleFunc("/healthz/readiness", s.handleReadiness)
	mux.HandleFunc("/healthz/liveness", s.handleLiveness)
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	s.srv = &http.Server{Handler: mux}
	return s
}

// Start binds the listener and begins serving in the background. It
// returns once the listener is bound, failing fast on a bind error
// instead of surfacing it later from a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.addr, err)
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", logfields.Error(err))
		}
	}()

	slog.Info("http server started", logfields.URL(s.addr))
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	slog.Info("http server stopped")
	return nil
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	environment := r.URL.Query().Get("environment")
	component := r.URL.Query().Get("component")
	stage := r.URL.Query().Get("stage")
	if stage == "" {
		stage = s.state.HealthProbe.Stage
	}

	timeout := time.Duration(s.state.Timeouts.ControllersConfigGetConfig) * time.Second
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	data, err := s.state.SupplyChain.GetConfig(ctx, stage, environment, component)

	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		http.Error(w, ctx.Err().Error(), http.StatusRequestTimeout)
		return
	}

	// Authorization is checked after the config lookup completes (but not
	// after a timeout) rather than before, so a client never learns whether
	// it is authorized before the result is actually known.
	if authErr := s.state.Authorization.Authorize(r.Context(), r); authErr != nil {
		http.Error(w, authErr.Error(), http.StatusUnauthorized)
		return
	}

	if err != nil {
		writeSupplyError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	probe := s.state.HealthProbe
	timeout := time.Duration(s.state.Timeouts.ControllersConfigGetConfig) * time.Second
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	_, err := s.state.SupplyChain.GetConfig(ctx, probe.Stage, probe.Environment, probe.Component)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
