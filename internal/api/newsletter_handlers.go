package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/classkit/newsletter-studio/internal/auth"
	"github.com/classkit/newsletter-studio/internal/newsletter"
)

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

func isNotFound(err error) bool {
	return errors.Is(err, newsletter.ErrNotFound)
}

// ListNewsletters handles GET /api/newsletters
func (h *Handlers) ListNewsletters(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	newsletters, err := h.store.ListNewsletters(r.Context(), userID)
	if err != nil {
		log.Printf("api: failed to list newsletters: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list newsletters")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"newsletters": newsletters,
		"count":       len(newsletters),
	})
}

// CreateNewsletter handles POST /api/newsletters. The new document starts
// with the default section set; an optional title can be supplied.
func (h *Handlers) CreateNewsletter(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req struct {
		Title string `json:"title"`
	}
	if r.Body != nil {
		// Body is optional; ignore decode errors on an empty body
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	n := newsletter.New(h.factory, userID)
	if req.Title != "" {
		n.Title = req.Title
	}

	if err := h.store.CreateNewsletter(r.Context(), n); err != nil {
		log.Printf("api: failed to create newsletter: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create newsletter")
		return
	}

	respondJSON(w, http.StatusCreated, n)
}

// GetNewsletter handles GET /api/newsletters/{id}
func (h *Handlers) GetNewsletter(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid newsletter ID")
		return
	}

	n, err := h.store.GetNewsletter(r.Context(), userID, id)
	if err != nil {
		log.Printf("api: failed to get newsletter %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to get newsletter")
		return
	}
	if n == nil {
		respondError(w, http.StatusNotFound, "newsletter not found")
		return
	}

	respondJSON(w, http.StatusOK, n)
}

type updateNewsletterRequest struct {
	Title    *string         `json:"title"`
	Content  json.RawMessage `json:"content"`
	Settings newsletter.JSON `json:"settings"`
	Status   *string         `json:"status"`
}

var validStatuses = map[string]bool{
	newsletter.StatusDraft:     true,
	newsletter.StatusPublished: true,
	newsletter.StatusArchived:  true,
}

// UpdateNewsletter handles PUT /api/newsletters/{id}. This is the full
// document save: the client sends the whole content blob and the last
// write wins. Settings are shallow-merged rather than replaced.
func (h *Handlers) UpdateNewsletter(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid newsletter ID")
		return
	}

	var req updateNewsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Saves are strict: a malformed content blob is rejected before the
	// stored document is touched, and the section list is stored
	// verbatim, empty included. Default substitution happens on load
	// only.
	var content *newsletter.Content
	if len(req.Content) > 0 {
		c, err := newsletter.ParseContent(req.Content)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid content")
			return
		}
		content = &c
	}

	n, err := h.store.GetNewsletter(r.Context(), userID, id)
	if err != nil {
		log.Printf("api: failed to get newsletter %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to get newsletter")
		return
	}
	if n == nil {
		respondError(w, http.StatusNotFound, "newsletter not found")
		return
	}

	if req.Title != nil {
		n.Title = *req.Title
	}
	if content != nil {
		n.Content = *content
	}
	if req.Settings != nil {
		n.MergeSettings(req.Settings)
	}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", *req.Status))
			return
		}
		n.Status = *req.Status
	}

	if err := h.store.UpdateNewsletter(r.Context(), n); err != nil {
		log.Printf("api: failed to update newsletter %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to update newsletter")
		return
	}

	respondJSON(w, http.StatusOK, n)
}

// DeleteNewsletter handles DELETE /api/newsletters/{id}
func (h *Handlers) DeleteNewsletter(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid newsletter ID")
		return
	}

	if err := h.store.DeleteNewsletter(r.Context(), userID, id); err != nil {
		if isNotFound(err) {
			respondError(w, http.StatusNotFound, "newsletter not found")
			return
		}
		log.Printf("api: failed to delete newsletter %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to delete newsletter")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DuplicateNewsletter handles POST /api/newsletters/{id}/duplicate
func (h *Handlers) DuplicateNewsletter(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid newsletter ID")
		return
	}

	dup, err := h.store.DuplicateNewsletter(r.Context(), userID, id)
	if err != nil {
		if isNotFound(err) {
			respondError(w, http.StatusNotFound, "newsletter not found")
			return
		}
		log.Printf("api: failed to duplicate newsletter %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to duplicate newsletter")
		return
	}

	respondJSON(w, http.StatusCreated, dup)
}

// RenderNewsletter handles GET /api/newsletters/{id}/render and returns
// the full HTML document ready for preview or print.
func (h *Handlers) RenderNewsletter(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid newsletter ID")
		return
	}

	n, err := h.store.GetNewsletter(r.Context(), userID, id)
	if err != nil {
		log.Printf("api: failed to get newsletter %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to get newsletter")
		return
	}
	if n == nil {
		respondError(w, http.StatusNotFound, "newsletter not found")
		return
	}

	html, err := h.renderer.RenderHTML(n)
	if err != nil {
		log.Printf("api: failed to render newsletter %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to render newsletter")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// ExportNewsletterPDF handles GET /api/newsletters/{id}/export/pdf
func (h *Handlers) ExportNewsletterPDF(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid newsletter ID")
		return
	}

	n, err := h.store.GetNewsletter(r.Context(), userID, id)
	if err != nil {
		log.Printf("api: failed to get newsletter %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to get newsletter")
		return
	}
	if n == nil {
		respondError(w, http.StatusNotFound, "newsletter not found")
		return
	}

	pdf, err := h.exporter.PDF(n)
	if err != nil {
		log.Printf("api: failed to export newsletter %s to pdf: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to export pdf")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", n.Title+".pdf"))
	w.Write(pdf)
}
