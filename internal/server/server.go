// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"kenyatrends/internal/adapter/events"
	"kenyatrends/internal/config"
	"kenyatrends/internal/domain/analysis"
	"kenyatrends/internal/metrics"
	"kenyatrends/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server. gatherer may be nil when metrics
// are disabled.
func NewServer(
	cfg config.Config,
	analysisService analysis.Service,
	bus events.Bus,
	gatherer prometheus.Gatherer,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	analysisHandler := handlers.NewAnalysisHandler(analysisService, cfg.Server.MaxUploadBytes)

	// Routes
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			r.Route("/analyses", func(r chi.Router) {
				r.With(rateLimit(cfg.Analysis.RateLimit, cfg.Analysis.RateBurst)).
					Post("/", analysisHandler.CreateAnalysis)
				r.Get("/", analysisHandler.ListAnalyses)
				r.Get("/{id}", analysisHandler.GetAnalysis)
			})

			r.Route("/reference", func(r chi.Router) {
				r.Get("/counties", handlers.GetCounties)
				r.Get("/keywords", handlers.GetKeywords)
				r.Get("/sectors", handlers.GetSectors)
				r.Get("/ranges", handlers.GetRanges)
			})

			r.Get("/sectors", handlers.MapSectors)
		})
	})

	// WebSocket endpoint for completed analyses
	router.Get("/ws/analyses", handlers.AnalysisWebSocketHandler(
		bus,
		analysis.CompletedSubject(cfg.Analysis.EventsTopic),
	))

	if cfg.Metrics.Enabled && gatherer != nil {
		router.Handle(cfg.Metrics.Path, metrics.Handler(gatherer))
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
