package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/classkit/newsletter-studio/internal/ai"
	"github.com/classkit/newsletter-studio/internal/export"
	"github.com/classkit/newsletter-studio/internal/images"
	"github.com/classkit/newsletter-studio/internal/newsletter"
	"github.com/classkit/newsletter-studio/internal/render"
	"github.com/classkit/newsletter-studio/internal/section"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store     *newsletter.Store
	factory   *section.Factory
	renderer  *render.Renderer
	exporter  *export.Exporter
	selector  *images.Selector
	uploader  *images.Uploader
	aiService *ai.Service
	studio    StudioConfig
	startTime time.Time
}

// StudioConfig is the editor-facing configuration the frontend reads on
// startup: branding for the page chrome and the autosave quiet period
// the editor should debounce with.
type StudioConfig struct {
	BrandName       string `json:"brandName"`
	PrimaryColor    string `json:"primaryColor"`
	AccentColor     string `json:"accentColor"`
	AutosaveQuietMs int    `json:"autosaveQuietMs"`
}

// NewHandlers creates a new Handlers instance
func NewHandlers(store *newsletter.Store, factory *section.Factory, renderer *render.Renderer, exporter *export.Exporter) *Handlers {
	return &Handlers{
		store:     store,
		factory:   factory,
		renderer:  renderer,
		exporter:  exporter,
		startTime: time.Now(),
	}
}

// SetImageSelector sets the stock photo search selector
func (h *Handlers) SetImageSelector(selector *images.Selector) {
	h.selector = selector
}

// SetImageUploader sets the S3 image uploader
func (h *Handlers) SetImageUploader(uploader *images.Uploader) {
	h.uploader = uploader
}

// SetAIService sets the text generation service
func (h *Handlers) SetAIService(svc *ai.Service) {
	h.aiService = svc
}

// SetStudioConfig sets the editor-facing configuration
func (h *Handlers) SetStudioConfig(cfg StudioConfig) {
	h.studio = cfg
}

// GetStudioConfig returns branding and editor settings for the client.
//
//	GET /api/config
func (h *Handlers) GetStudioConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.studio)
}

// HealthCheck returns basic service health.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
