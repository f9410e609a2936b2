package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// CohereResearch is the context-free research fallback used when no
// web-search provider is configured. It asks the Cohere chat API for the same
// JSON contract, without citations.
// SDK: github.com/cohere-ai/cohere-go/v2
type CohereResearch struct {
	client *cohereclient.Client
	model  string
}

// NewCohereResearch builds a Cohere-backed research provider.
func NewCohereResearch(apiKey, model string) *CohereResearch {
	if model == "" || !strings.HasPrefix(model, "command-") {
		model = "command-r-plus-08-2024"
	}
	httpClient := &http.Client{Timeout: 5 * time.Minute}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereResearch{client: client, model: model}
}

func (c *CohereResearch) Name() string { return "cohere" }

func (c *CohereResearch) Research(ctx context.Context, celebrityName string) (string, []string, error) {
	prompt := researchSystemPrompt + "\n\n" + researchPrompt(celebrityName)
	resp, err := c.client.V2.Chat(ctx, &cohere.V2ChatRequest{
		Model: c.model,
		Messages: cohere.ChatMessages{
			{
				Role: "user",
				User: &cohere.UserMessageV2{
					Content: &cohere.UserMessageV2Content{String: prompt},
				},
			},
		},
	})
	if err != nil {
		return "", nil, fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil || resp.Message == nil {
		return "", nil, fmt.Errorf("cohere chat returned empty response")
	}

	var sb strings.Builder
	for _, item := range resp.Message.Content {
		if item != nil && item.Text != nil {
			sb.WriteString(item.Text.Text)
		}
	}
	if sb.Len() == 0 {
		return "", nil, fmt.Errorf("cohere chat returned no text content")
	}

	// No web search, so no citations to merge.
	return sb.String(), nil, nil
}
