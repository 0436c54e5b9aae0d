package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const unsplashBaseURL = "https://api.unsplash.com"

// UnsplashProvider searches the Unsplash photo API.
type UnsplashProvider struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

func NewUnsplashProvider(accessKey string) *UnsplashProvider {
	return &UnsplashProvider{
		accessKey:  accessKey,
		baseURL:    unsplashBaseURL,
		httpClient: newHTTPClient(),
	}
}

func (p *UnsplashProvider) Name() string    { return "unsplash" }
func (p *UnsplashProvider) Available() bool { return p.accessKey != "" }

func (p *UnsplashProvider) Search(ctx context.Context, query string, perPage int) ([]Photo, error) {
	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=%d", p.baseURL, url.QueryEscape(query), perPage)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+p.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Unsplash request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("Unsplash error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Results []struct {
			Width  int `json:"width"`
			Height int `json:"height"`
			URLs   struct {
				Regular string `json:"regular"`
				Small   string `json:"small"`
			} `json:"urls"`
			User struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"results"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse Unsplash response: %w", err)
	}

	photos := make([]Photo, 0, len(result.Results))
	for _, r := range result.Results {
		photos = append(photos, Photo{
			URL:          r.URLs.Regular,
			ThumbURL:     r.URLs.Small,
			Width:        r.Width,
			Height:       r.Height,
			Photographer: r.User.Name,
			Attribution:  fmt.Sprintf("Photo by %s on Unsplash", r.User.Name),
			Provider:     p.Name(),
		})
	}
	return photos, nil
}
