package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIClient talks to the OpenAI chat completions API over plain HTTP.
// It serves two roles: article content generation and research JSON repair.
// Endpoint: POST https://api.openai.com/v1/chat/completions
type OpenAIClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewOpenAIClient builds a client; model defaults to gpt-4o.
func NewOpenAIClient(apiKey, model string, httpClient *http.Client) *OpenAIClient {
	if model == "" {
		model = "gpt-4o"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIClient{apiKey: apiKey, model: model, httpClient: httpClient}
}

// GenerateContent implements Generator. The response is requested as a strict
// JSON object; the caller parses it without any repair step.
func (o *OpenAIClient) GenerateContent(ctx context.Context, celebrityName string, researchJSON string, style GenerationStyle) (string, error) {
	return o.chat(ctx, generationSystemPrompt, generationPrompt(celebrityName, researchJSON, style), 0.8)
}

// RepairJSON implements Repairer.
func (o *OpenAIClient) RepairJSON(ctx context.Context, brokenJSON, celebrityName string) (string, error) {
	return o.chat(ctx, repairSystemPrompt, repairPrompt(brokenJSON, celebrityName), 0.1)
}

func (o *OpenAIClient) chat(ctx context.Context, system, user string, temperature float64) (string, error) {
	payload := map[string]interface{}{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature":     temperature,
		"response_format": map[string]string{"type": "json_object"},
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := o.endpoint
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	if org := os.Getenv("OPENAI_ORG_ID"); org != "" {
		req.Header.Set("OpenAI-Organization", org)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openai API error: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
