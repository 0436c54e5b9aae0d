package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/classkit/newsletter-studio/internal/ai"
)

// GenerateContent handles POST /api/ai/generate. The generated text comes
// back in the rich text authoring format so it can be dropped straight
// into a section.
func (h *Handlers) GenerateContent(w http.ResponseWriter, r *http.Request) {
	if h.aiService == nil || !h.aiService.Enabled() {
		respondError(w, http.StatusServiceUnavailable, "AI content generation requires an API key")
		return
	}

	var params ai.GenerateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if params.Topic == "" {
		respondError(w, http.StatusBadRequest, "topic is required")
		return
	}

	content, err := h.aiService.Generate(r.Context(), params)
	if err != nil {
		log.Printf("api: content generation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to generate content")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"content": content})
}
