package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/classkit/newsletter-studio/internal/auth"
)

// SetupRoutes configures all API routes. Everything under /api requires an
// authenticated session (a no-op when auth is disabled); /health and the
// /auth endpoints are open.
func SetupRoutes(h *Handlers, authManager *auth.Manager, limiter *RateLimiter, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS - allow credentials for auth cookies
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no auth required)
	r.Get("/health", h.HealthCheck)

	// Auth routes (no auth required)
	if authManager != nil {
		r.Get("/auth/login", authManager.HandleLogin)
		r.Get("/auth/callback", authManager.HandleCallback)
		r.Get("/auth/logout", authManager.HandleLogout)
		r.Get("/auth/user", authManager.HandleUserInfo)
	}

	r.Route("/api", func(r chi.Router) {
		if authManager != nil {
			r.Use(authManager.RequireAuth)
		}
		if limiter != nil {
			r.Use(limiter.Middleware)
		}

		r.Get("/config", h.GetStudioConfig)

		r.Route("/newsletters", func(r chi.Router) {
			r.Get("/", h.ListNewsletters)
			r.Post("/", h.CreateNewsletter)
			r.Get("/{id}", h.GetNewsletter)
			r.Put("/{id}", h.UpdateNewsletter)
			r.Delete("/{id}", h.DeleteNewsletter)
			r.Post("/{id}/duplicate", h.DuplicateNewsletter)
			r.Get("/{id}/render", h.RenderNewsletter)
			r.Get("/{id}/export/pdf", h.ExportNewsletterPDF)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Post("/", h.CreateTemplate)
			r.Get("/{id}", h.GetTemplate)
			r.Delete("/{id}", h.DeleteTemplate)
			r.Post("/from-newsletter/{newsletterID}", h.DeriveTemplate)
			r.Post("/{id}/instantiate", h.InstantiateTemplate)
		})

		r.Post("/ai/generate", h.GenerateContent)

		r.Route("/images", func(r chi.Router) {
			r.Get("/search", h.SearchImages)
			r.Post("/upload", h.UploadImage)
		})
	})

	return r
}
