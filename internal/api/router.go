package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/savegress/comptrack/internal/cache"
	"github.com/savegress/comptrack/internal/config"
	"github.com/savegress/comptrack/internal/status"
	"github.com/savegress/comptrack/internal/storage"
)

// Server represents the API server
type Server struct {
	config   *config.Config
	router   chi.Router
	handlers *Handlers
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, store storage.RecordStore, c *cache.Cache) *Server {
	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		handlers: &Handlers{
			store:         store,
			cache:         c,
			resolver:      status.NewResolver(cfg.Dashboard.UrgentWindowDays),
			upcomingLimit: cfg.Dashboard.UpcomingLimit,
		},
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	// Mutations require a bearer token once a secret is configured;
	// without one (local development) they are open like the reads.
	protect := func(r chi.Router) chi.Router {
		if s.config.Server.JWTSecret == "" {
			return r
		}
		return r.With(AuthMiddleware(s.config.Server.JWTSecret))
	}

	s.router.Get("/health", s.handlers.HealthCheck)

	s.router.Route("/api/v1/comptrack", func(r chi.Router) {
		r.Route("/requirements", func(r chi.Router) {
			r.Get("/", s.handlers.ListRequirements)
			r.Get("/{id}", s.handlers.GetRequirement)
			protect(r).Post("/", s.handlers.CreateRequirement)
			protect(r).Put("/{id}", s.handlers.UpdateRequirement)
			protect(r).Delete("/{id}", s.handlers.DeleteRequirement)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handlers.ListTasks)
			r.Get("/{id}", s.handlers.GetTask)
			protect(r).Post("/", s.handlers.CreateTask)
			protect(r).Put("/{id}", s.handlers.UpdateTask)
			protect(r).Delete("/{id}", s.handlers.DeleteTask)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handlers.ListDocuments)
			r.Get("/{id}", s.handlers.GetDocument)
			protect(r).Post("/", s.handlers.CreateDocument)
			protect(r).Put("/{id}", s.handlers.UpdateDocument)
			protect(r).Delete("/{id}", s.handlers.DeleteDocument)
		})

		r.Route("/trainings", func(r chi.Router) {
			r.Get("/", s.handlers.ListTrainings)
			r.Get("/{id}", s.handlers.GetTraining)
			protect(r).Post("/", s.handlers.CreateTraining)
			protect(r).Put("/{id}", s.handlers.UpdateTraining)
			protect(r).Delete("/{id}", s.handlers.DeleteTraining)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/overview", s.handlers.DashboardOverview)
			r.Get("/chart", s.handlers.DashboardChart)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", s.handlers.ReportSummary)
			r.Get("/export", s.handlers.ExportReport)
		})
	})
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}
