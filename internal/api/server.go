package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/flickit-platform/assessment-api/internal/config"
	"github.com/flickit-platform/assessment-api/internal/health"
	"github.com/flickit-platform/assessment-api/internal/membership"
	"github.com/flickit-platform/assessment-api/internal/projection"
	"github.com/flickit-platform/assessment-api/internal/storage"
	"github.com/flickit-platform/assessment-api/internal/validation"
)

// MemberProxy forwards member requests to assessment-core
type MemberProxy interface {
	AddMember(ctx context.Context, spaceID int64, authorization string, body json.RawMessage) (*membership.Result, error)
	InviteMember(ctx context.Context, spaceID int64, authorization string, body json.RawMessage) (*membership.Result, error)
}

// Dependencies are the collaborators the handlers call
type Dependencies struct {
	Repo      storage.Repository
	Projector *projection.Projector
	Members   MemberProxy
	Health    *health.Registry
	JWTSecret string
}

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	repo           storage.Repository
	projector      *projection.Projector
	members        MemberProxy
	grants         *validation.AccessGrantValidator
	invites        *validation.InviteValidator
	health         *health.Registry
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, deps Dependencies) *Server {
	s := &Server{
		config:         cfg,
		repo:           deps.Repo,
		projector:      deps.Projector,
		members:        deps.Members,
		grants:         validation.NewAccessGrantValidator(deps.Repo),
		invites:        validation.NewInviteValidator(deps.Repo),
		health:         deps.Health,
		authMiddleware: NewAuthMiddleware(deps.JWTSecret),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (outside versioned API - public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware.Authenticate)

		r.Route("/assessment-kits", func(r chi.Router) {
			r.Get("/", s.handleListKits)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetKit)
				r.Get("/info", s.handleKitEditableInfo)
				r.Get("/stats", s.handleKitStatistics)
				r.Get("/report-info", s.handleKitReportDetail)
				r.Get("/details", s.handleKitFullDetail)
				r.Get("/maturity-levels", s.handleKitMaturityLevels)
			})
		})

		r.Get("/expert-groups/{id}/assessment-kits", s.handleListExpertGroupKits)

		r.Route("/spaces", func(r chi.Router) {
			r.Get("/", s.handleListSpaces)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSpace)
				r.Post("/members", s.handleAddMember)
				r.Post("/invite", s.handleInviteMember)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
