// Package images finds photos for newsletter sections: stock-photo
// search across several providers, and S3-backed hosting for uploads.
package images

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Photo is one search result, normalized across providers.
type Photo struct {
	URL          string `json:"url"`
	ThumbURL     string `json:"thumbUrl"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Photographer string `json:"photographer,omitempty"`
	Attribution  string `json:"attribution,omitempty"`
	Provider     string `json:"provider"`
}

// Provider is one stock-photo backend. Available reports whether the
// provider is configured (has an API key); unconfigured providers are
// skipped, not errored.
type Provider interface {
	Name() string
	Available() bool
	Search(ctx context.Context, query string, perPage int) ([]Photo, error)
}

// Selector queries providers in preference order and returns the first
// non-empty result set. A provider failing or coming back empty falls
// through to the next; only when every provider is exhausted does the
// search fail.
type Selector struct {
	providers []Provider
}

// NewSelector builds a selector over the given providers, tried in
// order.
func NewSelector(providers ...Provider) *Selector {
	return &Selector{providers: providers}
}

// Search runs the provider fallback chain.
func (s *Selector) Search(ctx context.Context, query string, perPage int) ([]Photo, error) {
	if perPage <= 0 {
		perPage = 12
	}

	var lastErr error
	for _, p := range s.providers {
		if !p.Available() {
			continue
		}
		photos, err := p.Search(ctx, query, perPage)
		if err != nil {
			log.Printf("images: %s search failed, trying next provider: %v", p.Name(), err)
			lastErr = err
			continue
		}
		if len(photos) > 0 {
			return photos, nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all image providers failed: %w", lastErr)
	}
	return nil, nil
}

// Providers reports the names of configured providers, in order.
func (s *Selector) Providers() []string {
	var names []string
	for _, p := range s.providers {
		if p.Available() {
			names = append(names, p.Name())
		}
	}
	return names
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}
