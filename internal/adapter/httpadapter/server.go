package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/water-restriction-etl/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// refreshTimeout bounds a manual refresh; it covers the VigiEau call and the
// Kafka publish.
const refreshTimeout = 45 * time.Second

// StateProvider exposes the current snapshot and its entity states.
type StateProvider interface {
	Snapshot() (domain.Snapshot, bool)
	States() []domain.EntityState
}

// Refresher runs a refresh cycle on demand.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Server exposes health, readiness, metrics, state and manual refresh endpoints.
type Server struct {
	httpServer *http.Server
	states     StateProvider
	refresher  Refresher
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, GET
// /state and POST /refresh routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, states StateProvider, refresher Refresher, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: refreshTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		states:    states,
		refresher: refresher,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("POST /refresh", s.handleRefresh)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type stateResponse struct {
	Snapshot domain.Snapshot      `json:"snapshot"`
	Entities []domain.EntityState `json:"entities"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.states.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "no snapshot available yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{Snapshot: snap, Entities: s.states.States()})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()

	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn("manual refresh failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"status": "failed",
			"error":  err.Error(),
		})
		return
	}

	resp := map[string]string{"status": "refreshed"}
	if snap, ok := s.states.Snapshot(); ok {
		resp["alert_level"] = snap.Global.Label
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("encode response failed", "error", err)
	}
}
