// Package api provides the HTTP API server and handlers for the Modship companion process.
//
// The API is consumed exclusively by the desktop shell on the same machine.
// It binds to loopback and rejects anything that is not a loopback peer.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/modshipapp/modship/internal/media/preview"
	"github.com/modshipapp/modship/internal/modmeta"
	"github.com/modshipapp/modship/internal/sse"
	"github.com/modshipapp/modship/internal/steam"
	"github.com/modshipapp/modship/internal/store"
	"github.com/modshipapp/modship/internal/validation"
	"github.com/modshipapp/modship/internal/workshop"
)

// APIVersion is reported by the health endpoint and the OpenAPI document.
const APIVersion = "1.0.0"

// Services groups the business logic services used by the API server.
type Services struct {
	Workshop *workshop.Service
	Steam    *steam.Client
	Metadata *modmeta.Extractor
	Preview  *preview.Compressor
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      store.Store
	services   *Services
	sseManager *sse.Manager
	sseHandler *sse.Handler
	validator  *validation.Validator
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
}

// NewServer creates the HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, sseManager *sse.Manager, sseHandler *sse.Handler, logger *slog.Logger) *Server {
	s := &Server{
		store:      st,
		services:   services,
		sseManager: sseManager,
		sseHandler: sseHandler,
		validator:  validation.New(),
		router:     chi.NewRouter(),
		logger:     logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Modship API", APIVersion)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requireLoopback(s.logger))

	// The shell's webview issues requests from a custom scheme origin, so
	// a permissive CORS policy is required even though the transport never
	// leaves the machine.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes registers all API operations.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerMetadataRoutes()
	s.registerPreviewRoutes()
	s.registerSteamRoutes()
	s.registerWorkshopRoutes()
	s.registerHistoryRoutes()

	// The event stream bypasses the OpenAPI layer; SSE does not fit the
	// request/response model.
	s.router.Get("/api/v1/events", s.sseHandler.ServeHTTP)
}
