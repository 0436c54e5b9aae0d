package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/classkit/newsletter-studio/internal/auth"
	"github.com/classkit/newsletter-studio/internal/config"
)

// Server represents the API server
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new API server with all routes configured
func NewServer(cfg config.ServerConfig, h *Handlers, authManager *auth.Manager, limiter *RateLimiter) *Server {
	router := SetupRoutes(h, authManager, limiter, cfg.AllowedOrigins)
	return &Server{
		config:  cfg,
		handler: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler: s.handler,
		// WriteTimeout is generous because PDF export holds the
		// connection open while a headless browser prints the page.
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
