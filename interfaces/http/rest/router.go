package rest

import (
	"net/http"
	"time"

	"graphmem/application/services"
	"graphmem/infrastructure/config"
	"graphmem/interfaces/http/rest/handlers"
	"graphmem/interfaces/http/rest/middleware"
	"graphmem/interfaces/mcp"
	"graphmem/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	service   *services.GraphService
	validator *auth.JWTValidator
	cfg       *config.Config
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	service *services.GraphService,
	validator *auth.JWTValidator,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		service:   service,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
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

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Graph-Identity"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Everything below resolves a graph identity first
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.cfg.IsDevelopment(), rt.logger))
		if rt.cfg.RateLimitPerMinute > 0 {
			limiter := auth.NewSlidingWindowLimiter(rt.cfg.RateLimitPerMinute, time.Minute)
			r.Use(middleware.RateLimit(limiter, rt.logger))
		}

		nodeHandler := handlers.NewNodeHandler(rt.service, rt.logger)
		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", nodeHandler.CreateNode)
			r.Get("/", nodeHandler.ListNodes)
			r.Get("/{nodeID}", nodeHandler.GetNode)
			r.Put("/{nodeID}", nodeHandler.UpdateNode)
			r.Delete("/{nodeID}", nodeHandler.DeleteNode)
			r.Get("/{nodeID}/related", nodeHandler.RelatedNodes)
		})

		edgeHandler := handlers.NewEdgeHandler(rt.service, rt.logger)
		r.Route("/edges", func(r chi.Router) {
			r.Post("/", edgeHandler.CreateEdge)
			r.Get("/{edgeID}", edgeHandler.GetEdge)
			r.Put("/{edgeID}", edgeHandler.UpdateEdge)
			r.Delete("/{edgeID}", edgeHandler.DeleteEdge)
		})

		graphHandler := handlers.NewGraphHandler(rt.service, rt.logger)
		r.Route("/graph", func(r chi.Router) {
			r.Post("/entities", graphHandler.CreateEntities)
			r.Post("/entities/delete", graphHandler.DeleteEntities)
			r.Post("/relations", graphHandler.CreateRelations)
			r.Post("/relations/delete", graphHandler.DeleteRelations)
			r.Post("/observations/add", graphHandler.AddObservations)
			r.Post("/observations/delete", graphHandler.DeleteObservations)
			r.Post("/search", graphHandler.SearchNodes)
			r.Post("/open", graphHandler.OpenNodes)
			r.Get("/state", graphHandler.GetGraphState)
		})

		mcpHandler := mcp.NewHandler(rt.service, rt.logger)
		r.Route("/mcp", func(r chi.Router) {
			r.Get("/tools", mcpHandler.ListTools)
			r.Post("/call", mcpHandler.CallTool)
		})
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
