package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultPerplexityEndpoint = "https://api.perplexity.ai/chat/completions"

// Perplexity performs web-search-augmented research via the Perplexity chat
// API. Docs: https://docs.perplexity.ai/api-reference/chat-completions
type Perplexity struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewPerplexity builds a Perplexity research provider.
func NewPerplexity(apiKey, endpoint string, httpClient *http.Client) *Perplexity {
	if endpoint == "" {
		endpoint = defaultPerplexityEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Perplexity{apiKey: apiKey, endpoint: endpoint, httpClient: httpClient}
}

func (p *Perplexity) Name() string { return "perplexity" }

func (p *Perplexity) Research(ctx context.Context, celebrityName string) (string, []string, error) {
	payload := map[string]interface{}{
		"model": "sonar-pro",
		"messages": []map[string]string{
			{"role": "system", "content": researchSystemPrompt},
			{"role": "user", "content": researchPrompt(celebrityName)},
		},
		"temperature": 0.2,
		"max_tokens":  16000,
		"search_domain_filter": []string{
			"archive.org",
			"books.google.com",
			"newspapers.com",
			"wikipedia.org",
			"britannica.com",
		},
		"return_citations": true,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", nil, err
	}

	endpoint := p.endpoint
	if endpoint == "" {
		endpoint = defaultPerplexityEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(b))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("perplexity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", nil, fmt.Errorf("perplexity API error: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Citations []string `json:"citations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", nil, fmt.Errorf("decode perplexity response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil, fmt.Errorf("perplexity returned no choices")
	}

	return parsed.Choices[0].Message.Content, parsed.Citations, nil
}
