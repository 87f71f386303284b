package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// Handlers - набор обработчиков, которые монтирует сервер.
type Handlers struct {
	Search *SearchHandler
	Quota  *QuotaHandler
	Jobs   *JobHandler
}

// Server - REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewServer создает новый экземпляр сервера.
func NewServer(cfg ServerConfig, handlers Handlers, tokens port.TokenValidatorPort, baseLogger port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, handlers, tokens, baseLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(port.Fields{"component": "rest_server"}),
	}
}

// NewRouter собирает маршруты и middleware.
func NewRouter(cfg ServerConfig, handlers Handlers, tokens port.TokenValidatorPort, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(NewAuthMiddleware(tokens).Authenticate)

		r.Get("/jobs/search", handlers.Search.SearchJobs)
		r.Get("/users/nearby", handlers.Search.FindNearbyUsers)
		r.Get("/quota/{action}", handlers.Quota.CheckQuota)
		r.Post("/jobs", handlers.Jobs.PostJob)
		r.Post("/jobs/{jobID}/applications", handlers.Jobs.SubmitApplication)
	})

	return r
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}

func Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
