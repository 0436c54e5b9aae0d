package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const pexelsBaseURL = "https://api.pexels.com/v1"

// PexelsProvider searches the Pexels photo API.
type PexelsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewPexelsProvider(apiKey string) *PexelsProvider {
	return &PexelsProvider{
		apiKey:     apiKey,
		baseURL:    pexelsBaseURL,
		httpClient: newHTTPClient(),
	}
}

func (p *PexelsProvider) Name() string    { return "pexels" }
func (p *PexelsProvider) Available() bool { return p.apiKey != "" }

func (p *PexelsProvider) Search(ctx context.Context, query string, perPage int) ([]Photo, error) {
	endpoint := fmt.Sprintf("%s/search?query=%s&per_page=%d", p.baseURL, url.QueryEscape(query), perPage)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Pexels request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("Pexels error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Photos []struct {
			Width        int    `json:"width"`
			Height       int    `json:"height"`
			Photographer string `json:"photographer"`
			Src          struct {
				Large  string `json:"large"`
				Medium string `json:"medium"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse Pexels response: %w", err)
	}

	photos := make([]Photo, 0, len(result.Photos))
	for _, ph := range result.Photos {
		photos = append(photos, Photo{
			URL:          ph.Src.Large,
			ThumbURL:     ph.Src.Medium,
			Width:        ph.Width,
			Height:       ph.Height,
			Photographer: ph.Photographer,
			Attribution:  fmt.Sprintf("Photo by %s on Pexels", ph.Photographer),
			Provider:     p.Name(),
		})
	}
	return photos, nil
}
