// Package api exposes the planning engine over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/campaign-planner/internal/cache"
	"github.com/ignite/campaign-planner/internal/calendar"
	"github.com/ignite/campaign-planner/internal/config"
	"github.com/ignite/campaign-planner/internal/pkg/logger"
	"github.com/ignite/campaign-planner/internal/planner"
	"github.com/ignite/campaign-planner/internal/segments"
)

// Server wires the planner, calendar board, and segment catalog behind the
// HTTP API.
type Server struct {
	cfg      config.ServerConfig
	planner  config.PlannerConfig
	rec      *planner.Recommender
	board    *calendar.Board
	catalog  segments.Repository
	recCache *cache.RecommendationCache
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates the API server. recCache may be a no-op cache when Redis
// is not configured.
func NewServer(
	cfg config.ServerConfig,
	plannerCfg config.PlannerConfig,
	rec *planner.Recommender,
	board *calendar.Board,
	catalog segments.Repository,
	recCache *cache.RecommendationCache,
) *Server {
	s := &Server{
		cfg:      cfg,
		planner:  plannerCfg,
		rec:      rec,
		board:    board,
		catalog:  catalog,
		recCache: recCache,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Timeout(),
		WriteTimeout: s.cfg.Timeout(),
	}
	logger.Info("api server listening", "addr", s.cfg.Addr())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/planner", func(r chi.Router) {
			r.Post("/recommendations", s.handleRecommendations)
			r.Post("/conflicts", s.handleConflicts)
			r.Get("/missed-opportunities", s.handleMissedOpportunities)
			r.Get("/frequency-violations", s.handleFrequencyViolations)
		})
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", s.handleCalendar)
			r.Post("/commands", s.handleCommand)
			r.Post("/undo", s.handleUndo)
			r.Post("/redo", s.handleRedo)
		})
		r.Get("/segments", s.handleSegments)
		r.Get("/segments/{id}", s.handleSegment)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
