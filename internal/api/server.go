// Package api provides the HTTP API server and handlers for the FlashLearn application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/flashlearn/flashlearn-server/internal/config"
	"github.com/flashlearn/flashlearn-server/internal/ratelimit"
	"github.com/flashlearn/flashlearn-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, cfg *config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		authRateLimiter: ratelimit.New(cfg.Server.AuthRateLimit, cfg.Server.AuthRateBurst),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerCardRoutes()
	s.registerTransferRoutes()
	s.registerStudyRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources. Safe to call more than once.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}
