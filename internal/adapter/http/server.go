package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/lead-capture-service/internal/config"
	"github.com/couchcryptid/lead-capture-service/internal/domain"
	"github.com/couchcryptid/lead-capture-service/internal/observability"
)

// StationLister returns the parsed station list.
type StationLister interface {
	Stations(ctx context.Context) ([]domain.StationRecord, error)
}

// LeadManager covers the lead operations exposed over HTTP.
type LeadManager interface {
	Submit(ctx context.Context, sub domain.LeadSubmission) (domain.Lead, error)
	List(ctx context.Context) ([]domain.Lead, error)
	SetContacted(ctx context.Context, id string, contacted bool) error
}

// Server exposes the public API, the admin API, and the health, readiness
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	stations   StationLister
	leads      LeadManager
	cacheCtl   string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer builds the router for cfg.
func NewServer(cfg *config.Config, stations StationLister, leads LeadManager, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		stations: stations,
		leads:    leads,
		cacheCtl: "public, max-age=" + strconv.Itoa(cfg.StationsMaxAge),
		logger:   logger,
		metrics:  metrics,
	}

	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/api/stations", s.handleStations)
	r.Post("/api/leads", s.handleSubmitLead)

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(bearerAuth(cfg.AdminToken))
		r.Get("/leads", s.handleListLeads)
		r.Post("/toggle-contacted", s.handleToggleContacted)
	})

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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
