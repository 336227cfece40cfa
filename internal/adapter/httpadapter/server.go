package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/storm-track-geojson/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CollectionStore serves the latest accepted collections.
type CollectionStore interface {
	Snapshot() (domain.Snapshot, bool)
	Collection(storm string) (domain.FeatureCollection, bool)
}

// Server exposes health, readiness, metrics, and GeoJSON HTTP endpoints.
type Server struct {
	httpServer *http.Server
	store      CollectionStore
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /geojson, and /geojson/{storm} routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, store CollectionStore, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:  store,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /geojson", s.handleGlobal)
	mux.HandleFunc("GET /geojson/{storm}", s.handleStorm)

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

func (s *Server) handleGlobal(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.store.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no collection available yet"})
		return
	}
	s.writeCollection(w, snap.GeneratedAt, snap.Features)
}

func (s *Server) handleStorm(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.store.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no collection available yet"})
		return
	}

	storm := r.PathValue("storm")
	fc, ok := s.store.Collection(storm)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown storm " + storm})
		return
	}
	s.writeCollection(w, snap.GeneratedAt, fc)
}

func (s *Server) writeCollection(w http.ResponseWriter, generatedAt time.Time, fc domain.FeatureCollection) {
	data, err := fc.MarshalJSON()
	if err != nil {
		s.logger.Error("encode collection failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "encode collection"})
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Last-Modified", generatedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck // client went away
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort error response
}
