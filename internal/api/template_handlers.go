package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/classkit/newsletter-studio/internal/auth"
	"github.com/classkit/newsletter-studio/internal/newsletter"
)

// ListTemplates handles GET /api/templates
func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	templates, err := h.store.ListTemplates(r.Context(), userID)
	if err != nil {
		log.Printf("api: failed to list templates: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list templates")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"templates": templates,
		"count":     len(templates),
	})
}

// CreateTemplate handles POST /api/templates. Templates created directly
// (not derived from a newsletter) start with the default content blob.
func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req struct {
		newsletter.CreateTemplateRequest
		Content json.RawMessage `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	// No content → the default blob; supplied content is parsed
	// strictly and stored verbatim.
	content := newsletter.DecodeContent(nil, h.factory)
	if len(req.Content) > 0 {
		c, err := newsletter.ParseContent(req.Content)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid content")
			return
		}
		content = c
	}

	t := &newsletter.Template{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Content:     content,
		Settings:    newsletter.JSON{},
		IsPublic:    req.IsPublic,
		IsGlobal:    req.IsGlobal,
	}

	if err := h.store.CreateTemplate(r.Context(), t); err != nil {
		log.Printf("api: failed to create template: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create template")
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

// GetTemplate handles GET /api/templates/{id}
func (h *Handlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	t, err := h.store.GetTemplate(r.Context(), userID, id)
	if err != nil {
		log.Printf("api: failed to get template %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to get template")
		return
	}
	if t == nil {
		respondError(w, http.StatusNotFound, "template not found")
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// DeleteTemplate handles DELETE /api/templates/{id}
func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	if err := h.store.DeleteTemplate(r.Context(), userID, id); err != nil {
		if isNotFound(err) {
			respondError(w, http.StatusNotFound, "template not found")
			return
		}
		log.Printf("api: failed to delete template %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to delete template")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DeriveTemplate handles POST /api/templates/from-newsletter/{newsletterID}
// and snapshots an existing newsletter's content as a reusable template.
func (h *Handlers) DeriveTemplate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	newsletterID, err := parseIDParam(r, "newsletterID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid newsletter ID")
		return
	}

	var req newsletter.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.store.DeriveTemplate(r.Context(), userID, newsletterID, &req)
	if err != nil {
		if isNotFound(err) {
			respondError(w, http.StatusNotFound, "newsletter not found")
			return
		}
		log.Printf("api: failed to derive template from newsletter %s: %v", newsletterID, err)
		respondError(w, http.StatusInternalServerError, "failed to create template")
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

// InstantiateTemplate handles POST /api/templates/{id}/instantiate and
// creates a new draft newsletter from the template's content.
func (h *Handlers) InstantiateTemplate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	n, err := h.store.InstantiateTemplate(r.Context(), userID, id, req.Title)
	if err != nil {
		if isNotFound(err) {
			respondError(w, http.StatusNotFound, "template not found")
			return
		}
		log.Printf("api: failed to instantiate template %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to create newsletter from template")
		return
	}

	respondJSON(w, http.StatusCreated, n)
}
