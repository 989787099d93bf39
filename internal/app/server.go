package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/markdave123-py/Coursely/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/Coursely/internal/api/middlewares"
	"github.com/markdave123-py/Coursely/internal/config"
	"github.com/markdave123-py/Coursely/internal/logger"
)

// Routes groups the handlers mounted by NewRouter.
type Routes struct {
	Content   *handlers.ContentHandler
	Assistant *handlers.AssistantHandler
	Courses   *handlers.CourseHandler
	Progress  *handlers.ProgressHandler
}

// NewRouter builds the middleware stack and mounts every endpoint.
func NewRouter(cfg *config.Config, log *logger.Logger, h Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appMiddleware.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", handlers.Health)

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Get("/courses", h.Courses.ListCourses)
		api.Get("/course-content", h.Content.GetCourseContent)
		api.Get("/ask-assistant", h.Assistant.Ask)
		api.Post("/ask-assistant", h.Assistant.Ask)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWT(cfg.JWTSecret))
			protected.Post("/test-results", h.Progress.SaveTestResult)
		})
	})

	return r
}

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

func NewServer(cfg *config.Config, log *logger.Logger, h Routes) *Server {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, log, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{httpServer: httpSrv, log: log}
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
