package api

import (
	"net/http"

	"github.com/docbuddy/docbuddy/internal/api/handlers"
	"github.com/docbuddy/docbuddy/internal/api/middleware"
	"github.com/docbuddy/docbuddy/internal/config"
	"github.com/docbuddy/docbuddy/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	patientHandler := handlers.NewPatientHandler(services.Patient)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Patient routes, all owner-scoped behind the session guard
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/patients", func(r chi.Router) {
				r.Get("/", patientHandler.List)
				r.Get("/search", patientHandler.Search)
				r.Post("/", patientHandler.Create)
				r.Get("/{id}", patientHandler.Get)
				r.Put("/{id}", patientHandler.Update)
				r.Delete("/{id}", patientHandler.Delete)
				r.Post("/{id}/prescription", patientHandler.Prescribe)
			})
		})
	})

	return r
}
