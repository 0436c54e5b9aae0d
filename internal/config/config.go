package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	AI       AIConfig       `yaml:"ai"`
	Images   ImagesConfig   `yaml:"images"`
	Upload   UploadConfig   `yaml:"upload"`
	Redis    RedisConfig    `yaml:"redis"`
	Brand    BrandConfig    `yaml:"brand"`
	Autosave AutosaveConfig `yaml:"autosave"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig holds the postgres connection settings
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// AuthConfig holds Google OAuth authentication configuration
type AuthConfig struct {
	Enabled            bool   `yaml:"enabled"`
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	RedirectURL        string `yaml:"redirect_url"`
	AllowedDomain      string `yaml:"allowed_domain"`
	SessionSecret      string `yaml:"session_secret"`
	CookieName         string `yaml:"cookie_name"`
	CookieMaxAge       int    `yaml:"cookie_max_age"`
}

// AIConfig holds text generation provider keys
type AIConfig struct {
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
}

// ImagesConfig holds stock-photo provider keys, tried in the listed
// order: Pexels, then Pixabay, then Unsplash.
type ImagesConfig struct {
	PexelsAPIKey      string `yaml:"pexels_api_key"`
	PixabayAPIKey     string `yaml:"pixabay_api_key"`
	UnsplashAccessKey string `yaml:"unsplash_access_key"`
	PerPage           int    `yaml:"per_page"`
}

// UploadConfig holds S3 image hosting settings
type UploadConfig struct {
	Enabled   bool   `yaml:"enabled"`
	S3Bucket  string `yaml:"s3_bucket"`
	S3Region  string `yaml:"s3_region"`
	CDNDomain string `yaml:"cdn_domain"`
}

// RedisConfig holds rate limiter backend settings. Rate limiting is
// disabled when no address is configured.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// BrandConfig holds school branding defaults applied to new themes
type BrandConfig struct {
	Name         string `yaml:"name"`
	PrimaryColor string `yaml:"primary_color"`
	AccentColor  string `yaml:"accent_color"`
}

// AutosaveConfig holds the editing-session save debounce
type AutosaveConfig struct {
	QuietPeriodMs int `yaml:"quiet_period_ms"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "newsletter_session"
	}
	if cfg.Auth.CookieMaxAge == 0 {
		cfg.Auth.CookieMaxAge = 86400 * 7
	}
	if cfg.Images.PerPage == 0 {
		cfg.Images.PerPage = 12
	}
	if cfg.Upload.S3Region == "" {
		cfg.Upload.S3Region = "us-east-1"
	}
	if cfg.Brand.Name == "" {
		cfg.Brand.Name = "Glennallen Panthers"
	}
	if cfg.Brand.PrimaryColor == "" {
		cfg.Brand.PrimaryColor = "#C8102E"
	}
	if cfg.Brand.AccentColor == "" {
		cfg.Brand.AccentColor = "#1a1a2e"
	}
	if cfg.Autosave.QuietPeriodMs == 0 {
		cfg.Autosave.QuietPeriodMs = 1500
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env
// vars, so secrets can live in .env locally and in real env vars in
// production.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}

	// Auth overrides
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Auth.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Auth.GoogleClientSecret = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Auth.SessionSecret = v
	}
	if v := os.Getenv("AUTH_ALLOWED_DOMAIN"); v != "" {
		cfg.Auth.AllowedDomain = v
	}

	// AI overrides
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.AI.AnthropicAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAIAPIKey = v
	}

	// Image provider overrides
	if v := os.Getenv("PEXELS_API_KEY"); v != "" {
		cfg.Images.PexelsAPIKey = v
	}
	if v := os.Getenv("PIXABAY_API_KEY"); v != "" {
		cfg.Images.PixabayAPIKey = v
	}
	if v := os.Getenv("UNSPLASH_ACCESS_KEY"); v != "" {
		cfg.Images.UnsplashAccessKey = v
	}

	// Upload overrides
	if v := os.Getenv("UPLOAD_S3_BUCKET"); v != "" {
		cfg.Upload.S3Bucket = v
		cfg.Upload.Enabled = true
	}
	if v := os.Getenv("UPLOAD_S3_REGION"); v != "" {
		cfg.Upload.S3Region = v
	}
	if v := os.Getenv("UPLOAD_CDN_DOMAIN"); v != "" {
		cfg.Upload.CDNDomain = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}

	// Brand overrides
	if v := os.Getenv("BRAND_NAME"); v != "" {
		cfg.Brand.Name = v
	}
	if v := os.Getenv("PRIMARY_COLOR"); v != "" {
		cfg.Brand.PrimaryColor = v
	}
	if v := os.Getenv("ACCENT_COLOR"); v != "" {
		cfg.Brand.AccentColor = v
	}

	return cfg, nil
}
