package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/classkit/newsletter-studio/internal/ai"
	"github.com/classkit/newsletter-studio/internal/api"
	"github.com/classkit/newsletter-studio/internal/auth"
	"github.com/classkit/newsletter-studio/internal/config"
	"github.com/classkit/newsletter-studio/internal/editor"
	"github.com/classkit/newsletter-studio/internal/export"
	"github.com/classkit/newsletter-studio/internal/images"
	"github.com/classkit/newsletter-studio/internal/newsletter"
	"github.com/classkit/newsletter-studio/internal/render"
	"github.com/classkit/newsletter-studio/internal/section"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := checkPortAvailable(cfg.Server.Host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pingCancel()
	log.Println("Database connected")

	// Document pipeline: section factory, store, editors, renderer, exporter
	factory := section.NewFactory(nil)
	store := newsletter.NewStore(db, factory)

	registry := editor.NewRegistry(factory, editor.Callbacks{})
	renderer, err := render.NewRenderer(registry)
	if err != nil {
		log.Fatalf("Failed to build renderer: %v", err)
	}
	exporter := export.NewExporter(renderer, nil)

	handlers := api.NewHandlers(store, factory, renderer, exporter)
	handlers.SetStudioConfig(api.StudioConfig{
		BrandName:       cfg.Brand.Name,
		PrimaryColor:    cfg.Brand.PrimaryColor,
		AccentColor:     cfg.Brand.AccentColor,
		AutosaveQuietMs: cfg.Autosave.QuietPeriodMs,
	})

	// Stock photo providers, tried in order
	selector := images.NewSelector(
		images.NewPexelsProvider(cfg.Images.PexelsAPIKey),
		images.NewPixabayProvider(cfg.Images.PixabayAPIKey),
		images.NewUnsplashProvider(cfg.Images.UnsplashAccessKey),
	)
	if names := selector.Providers(); len(names) > 0 {
		handlers.SetImageSelector(selector)
		log.Printf("Image search enabled: %v", names)
	} else {
		log.Println("Image search disabled (no provider API keys configured)")
	}

	// S3 image hosting
	if cfg.Upload.Enabled && cfg.Upload.S3Bucket != "" {
		uploader, err := images.NewUploaderFromAWSConfig(context.Background(),
			cfg.Upload.S3Bucket, cfg.Upload.CDNDomain, cfg.Upload.S3Region)
		if err != nil {
			log.Printf("Warning: image upload disabled, failed to load AWS config: %v", err)
		} else {
			handlers.SetImageUploader(uploader)
			log.Printf("Image upload enabled: bucket=%s cdn=%s", cfg.Upload.S3Bucket, cfg.Upload.CDNDomain)
		}
	}

	// AI content generation
	aiService := ai.NewService(cfg.AI.AnthropicAPIKey, cfg.AI.OpenAIAPIKey)
	if aiService.Enabled() {
		handlers.SetAIService(aiService)
		log.Println("AI content generation enabled")
	} else {
		log.Println("AI content generation disabled (no API key configured)")
	}

	// Authentication
	var authManager *auth.Manager
	if cfg.Auth.Enabled && cfg.Auth.GoogleClientID != "" {
		authManager = auth.NewManager(&cfg.Auth)
		authManager.CleanupExpiredSessions()
		log.Printf("Google OAuth enabled for domain: %s", cfg.Auth.AllowedDomain)
	} else {
		authManager = auth.NewManager(&cfg.Auth)
		log.Println("Authentication disabled (local single-user mode)")
	}

	// Redis-backed rate limiting (optional)
	var limiter *api.RateLimiter
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Printf("Warning: Redis connection failed (%s): %v — rate limiting disabled", cfg.Redis.Addr, err)
			redisClient.Close()
		} else {
			limiter = api.NewRateLimiter(redisClient, 0, 0)
			log.Printf("Redis connected: %s (rate limiting enabled)", cfg.Redis.Addr)
		}
		pingCancel()
	}

	server := api.NewServer(cfg.Server, handlers, authManager, limiter)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
