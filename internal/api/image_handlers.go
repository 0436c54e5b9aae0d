package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/classkit/newsletter-studio/internal/images"
)

// SearchImages handles GET /api/images/search?q=. Providers are tried in
// configured order and the first one returning results wins.
func (h *Handlers) SearchImages(w http.ResponseWriter, r *http.Request) {
	if h.selector == nil || len(h.selector.Providers()) == 0 {
		respondError(w, http.StatusServiceUnavailable, "image search requires a provider API key")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	perPage := 0
	if v := r.URL.Query().Get("per_page"); v != "" {
		perPage, _ = strconv.Atoi(v)
	}

	photos, err := h.selector.Search(r.Context(), query, perPage)
	if err != nil {
		log.Printf("api: image search failed for %q: %v", query, err)
		respondError(w, http.StatusBadGateway, "image search failed")
		return
	}
	if photos == nil {
		photos = []images.Photo{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"photos": photos,
		"count":  len(photos),
	})
}

// UploadImage handles POST /api/images/upload (multipart form, field
// "image") and returns the hosted URL for use in image sections.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		respondError(w, http.StatusServiceUnavailable, "image upload requires S3 configuration")
		return
	}

	if err := r.ParseMultipartForm(images.MaxUploadSizeMB << 20); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	uploaded, err := h.uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		log.Printf("api: image upload failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to upload image")
		return
	}

	respondJSON(w, http.StatusCreated, uploaded)
}
