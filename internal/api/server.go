// Package api provides the HTTP server: the dashboard page, its stylesheet and
// PNG exports on plain chi routes, and the JSON API on huma.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/streamdash/streamdash-server/internal/assets"
	"github.com/streamdash/streamdash-server/internal/present"
	"github.com/streamdash/streamdash-server/internal/ratelimit"
	"github.com/streamdash/streamdash-server/internal/service"
)

// APIVersion is reported in the OpenAPI document.
const APIVersion = "1.0.0"

// Services groups the read-only services used by the API server.
type Services struct {
	Dashboard *service.DashboardService
	Search    *service.SearchService
}

// Options holds the optional server settings.
type Options struct {
	// CORSAllowedOrigins defaults to every origin.
	CORSAllowedOrigins []string
	// AssetsHost serves echarts.min.js and maps/world.js. Empty uses the
	// go-echarts CDN.
	AssetsHost string
	// Limiter rate limits requests per client IP. Nil disables limiting.
	Limiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services   *Services
	stylesheet *assets.Stylesheet
	page       *present.Page
	opts       Options
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, stylesheet *assets.Stylesheet, opts Options, logger *slog.Logger) (*Server, error) {
	if services == nil || services.Dashboard == nil {
		return nil, errors.New("dashboard service is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	page, err := present.NewPage()
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("Streaming Catalog Dashboard API", APIVersion)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s := &Server{
		services:   services,
		stylesheet: stylesheet,
		page:       page,
		opts:       opts,
		router:     router,
		logger:     logger,
	}

	s.setupMiddleware()

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := s.opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match"},
		ExposedHeaders: []string{"ETag"},
		MaxAge:         300,
	}))

	if s.opts.Limiter != nil {
		s.router.Use(RateLimitMiddleware(s.opts.Limiter, s.logger))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerDashboardRoutes()
	s.registerSearchRoutes()
	s.registerWebRoutes()
}
