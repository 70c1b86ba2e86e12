package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pathways/infrastructure/di"
	"pathways/interfaces/http/rest/handlers"
	"pathways/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.container.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health and operational endpoints
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		contentHandler := handlers.NewContentHandler(rt.container.Catalog, rt.logger)
		linkHandler := handlers.NewLinkHandler(rt.container.Links, rt.logger)
		analysisHandler := handlers.NewAnalysisHandler(rt.container.Dependencies, rt.container.DomainCfg, rt.logger)
		recHandler := handlers.NewRecommendationHandler(rt.container.Recommendations, rt.logger)
		layoutHandler := handlers.NewLayoutHandler(rt.container.Layout, rt.logger)

		// Content catalog (read-only)
		r.Route("/content", func(r chi.Router) {
			r.Get("/", contentHandler.ListContent)
			r.Get("/{nodeID}", contentHandler.GetContent)
		})

		// Relationship CRUD
		r.Route("/links", func(r chi.Router) {
			r.Post("/", linkHandler.CreateLink)
			r.Get("/", linkHandler.ListLinks)
			r.Get("/{linkID}", linkHandler.GetLink)
			r.Put("/{linkID}", linkHandler.UpdateLink)
			r.Delete("/{linkID}", linkHandler.DeleteLink)
		})

		// Per-node views and analysis
		r.Route("/nodes/{nodeID}", func(r chi.Router) {
			r.Get("/links", linkHandler.GetNodeLinks)
			r.Post("/status", analysisHandler.GetStatus)
			r.Post("/prerequisites", analysisHandler.GetPrerequisiteTree)
			r.Post("/dependents", analysisHandler.GetDependentTree)
			r.Post("/chain", analysisHandler.GetDependencyChain)
		})

		// Graph-wide analysis
		r.Route("/analysis", func(r chi.Router) {
			r.Get("/cycles", analysisHandler.GetCycles)
			r.Get("/summary", analysisHandler.GetSummary)
		})

		// Recommendations
		r.Route("/recommendations", func(r chi.Router) {
			r.Post("/", recHandler.Generate)
			r.Post("/accept", recHandler.Accept)
		})

		// Layout
		r.Post("/layout", layoutHandler.Compute)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
