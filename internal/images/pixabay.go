package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const pixabayBaseURL = "https://pixabay.com/api/"

// PixabayProvider searches the Pixabay image API.
type PixabayProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewPixabayProvider(apiKey string) *PixabayProvider {
	return &PixabayProvider{
		apiKey:     apiKey,
		baseURL:    pixabayBaseURL,
		httpClient: newHTTPClient(),
	}
}

func (p *PixabayProvider) Name() string    { return "pixabay" }
func (p *PixabayProvider) Available() bool { return p.apiKey != "" }

func (p *PixabayProvider) Search(ctx context.Context, query string, perPage int) ([]Photo, error) {
	// Pixabay rejects per_page below 3.
	if perPage < 3 {
		perPage = 3
	}
	endpoint := fmt.Sprintf("%s?key=%s&q=%s&image_type=photo&safesearch=true&per_page=%d",
		p.baseURL, url.QueryEscape(p.apiKey), url.QueryEscape(query), perPage)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Pixabay request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("Pixabay error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Hits []struct {
			WebformatURL string `json:"webformatURL"`
			LargeImage   string `json:"largeImageURL"`
			PreviewURL   string `json:"previewURL"`
			ImageWidth   int    `json:"imageWidth"`
			ImageHeight  int    `json:"imageHeight"`
			User         string `json:"user"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse Pixabay response: %w", err)
	}

	photos := make([]Photo, 0, len(result.Hits))
	for _, h := range result.Hits {
		photoURL := h.LargeImage
		if photoURL == "" {
			photoURL = h.WebformatURL
		}
		photos = append(photos, Photo{
			URL:          photoURL,
			ThumbURL:     h.PreviewURL,
			Width:        h.ImageWidth,
			Height:       h.ImageHeight,
			Photographer: h.User,
			Attribution:  fmt.Sprintf("Image by %s on Pixabay", h.User),
			Provider:     p.Name(),
		})
	}
	return photos, nil
}
