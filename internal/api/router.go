package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"honeynet-lab/internal/api/handlers"
	apimiddleware "honeynet-lab/internal/api/middleware"
	"honeynet-lab/internal/config"
	"honeynet-lab/internal/infrastructure/cache"
	"honeynet-lab/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Public routes
	router.Group(func(pub chi.Router) {
		pub.Get("/health", r.handlers.Health.Check)
		pub.Get("/ready", r.handlers.Health.Ready)
	})

	// API v1 routes (authenticated)
	router.Route("/api/v1", func(api chi.Router) {
		api.Use(apimiddleware.APIKeyAuth(r.config.Auth.APIKey))

		// Engagement
		api.Post("/honeypot", r.handlers.Honeypot.Engage)

		// Stateless analysis
		api.Post("/analyze", r.handlers.Analyze.Analyze)

		// Session inspection
		api.Get("/sessions", r.handlers.Sessions.List)
		api.Get("/sessions/{token}", r.handlers.Sessions.Get)
		api.Get("/sessions/{token}/report", r.handlers.Sessions.Report)

		// Cross-session intelligence
		api.Get("/intelligence", r.handlers.Intelligence.Get)

		// Mock-driven simulation
		api.Post("/simulate", r.handlers.Simulate.Run)
		api.Get("/simulate/types", r.handlers.Simulate.ScamTypes)
	})

	return router
}
