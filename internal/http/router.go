package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Chrix-Dev/To-do-app/internal/auth"
	"github.com/Chrix-Dev/To-do-app/internal/config"
	"github.com/Chrix-Dev/To-do-app/internal/httputil"
	"github.com/Chrix-Dev/To-do-app/internal/logging"
	"github.com/Chrix-Dev/To-do-app/internal/todo"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	todoHandler *todo.Handler,
	authMiddleware *auth.Middleware,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	// Public routes
	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Todo routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Route("/todos", func(r chi.Router) {
			r.Post("/", todoHandler.Create)
			r.Get("/", todoHandler.List)
			r.Delete("/", todoHandler.DeleteMany)
			r.Get("/{todoID}", todoHandler.Get)
			r.Put("/{todoID}", todoHandler.Update)
			r.Delete("/{todoID}", todoHandler.Delete)
		})
	})

	return r
}

// handleRoot is the service greeting endpoint
// @Summary      Root
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func handleRoot(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"message": "Hello world"}, http.StatusOK)
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
