// Package ai generates newsletter copy for rich text sections by
// calling the Anthropic or OpenAI HTTP APIs directly.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicURL = "https://api.anthropic.com/v1/messages"
	openaiURL    = "https://api.openai.com/v1/chat/completions"

	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultOpenAIModel    = "gpt-4o"
)

// GenerateParams describe the copy to produce.
type GenerateParams struct {
	Topic    string `json:"topic"`
	Tone     string `json:"tone,omitempty"`     // warm, professional, playful
	Audience string `json:"audience,omitempty"` // families, students, staff
	Length   string `json:"length,omitempty"`   // short, medium, long
}

// Service generates section text. Anthropic is preferred when both
// providers are configured.
type Service struct {
	anthropicKey string
	openaiKey    string
	model        string
	httpClient   *http.Client

	anthropicURL string
	openaiURL    string
}

// NewService creates an AI text service. With no keys configured,
// Generate returns an error and callers hide the feature.
func NewService(anthropicKey, openaiKey string) *Service {
	model := defaultAnthropicModel
	if anthropicKey == "" && openaiKey != "" {
		model = defaultOpenAIModel
	}
	return &Service{
		anthropicKey: anthropicKey,
		openaiKey:    openaiKey,
		model:        model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		anthropicURL: anthropicURL,
		openaiURL:    openaiURL,
	}
}

// Enabled reports whether any provider is configured.
func (s *Service) Enabled() bool {
	return s.anthropicKey != "" || s.openaiKey != ""
}

// Generate produces newsletter copy for the given parameters. The
// result is plain text in the rich text authoring format, ready to be
// appended to a section.
func (s *Service) Generate(ctx context.Context, params GenerateParams) (string, error) {
	if params.Topic == "" {
		return "", fmt.Errorf("topic is required")
	}

	prompt := buildPrompt(params)

	if s.anthropicKey != "" {
		return s.callAnthropic(ctx, prompt)
	}
	if s.openaiKey != "" {
		return s.callOpenAI(ctx, prompt)
	}
	return "", fmt.Errorf("no AI provider configured")
}

func buildPrompt(params GenerateParams) string {
	var sb strings.Builder
	sb.WriteString("Write a classroom newsletter section about: ")
	sb.WriteString(params.Topic)
	sb.WriteString("\n\n")

	tone := params.Tone
	if tone == "" {
		tone = "warm"
	}
	audience := params.Audience
	if audience == "" {
		audience = "families"
	}
	fmt.Fprintf(&sb, "Tone: %s. Audience: %s.\n", tone, audience)

	switch params.Length {
	case "short":
		sb.WriteString("Length: 2-3 sentences.\n")
	case "long":
		sb.WriteString("Length: 3-4 paragraphs.\n")
	default:
		sb.WriteString("Length: 1-2 paragraphs.\n")
	}

	sb.WriteString(`
Formatting: plain text. You may use **bold** and *italic* inline, and
lines starting "• " for bullet lists. No headings, no HTML, no emoji.

Write the section now:`)
	return sb.String()
}

func (s *Service) callAnthropic(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":      s.model,
		"max_tokens": 1000,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": prompt,
			},
		},
	}

	body, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST", s.anthropicURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("x-api-key", s.anthropicKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("Anthropic error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var anthropicResp struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBody, &anthropicResp); err != nil {
		return "", fmt.Errorf("failed to parse Anthropic response: %w", err)
	}
	if len(anthropicResp.Content) == 0 {
		return "", fmt.Errorf("no content in Anthropic response")
	}

	return strings.TrimSpace(anthropicResp.Content[0].Text), nil
}

func (s *Service) callOpenAI(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You write friendly, concise classroom newsletter copy for teachers.",
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature": 0.7,
		"max_tokens":  1000,
	}

	body, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST", s.openaiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Authorization", "Bearer "+s.openaiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OpenAI request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("OpenAI error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var openAIResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &openAIResp); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI response: %w", err)
	}
	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	return strings.TrimSpace(openAIResp.Choices[0].Message.Content), nil
}
