package ai

import (
	"context"
	"net/http"
	"os"
	"time"
)

// ResearchProvider returns raw research text about a subject, plus any source
// citations the provider attaches. The text is expected to be JSON but is
// parsed (and possibly repaired) by the caller.
type ResearchProvider interface {
	Research(ctx context.Context, celebrityName string) (content string, citations []string, err error)
	Name() string
}

// Repairer turns malformed research JSON into valid JSON via a secondary
// model call. This is the only error-recovery path in the pipeline.
type Repairer interface {
	RepairJSON(ctx context.Context, brokenJSON, celebrityName string) (string, error)
}

// Generator produces the article content JSON from research data.
type Generator interface {
	GenerateContent(ctx context.Context, celebrityName string, researchJSON string, style GenerationStyle) (string, error)
}

// GenerationStyle carries the prompt knobs for one generation call.
type GenerationStyle struct {
	Tone          string
	PointsCount   int
	IncludeQuotes bool
	IncludeMemes  bool
	Language      string
}

// NewDefaultResearchProvider picks the research provider from the
// environment: Perplexity with web search when its key is set, otherwise a
// context-free Cohere chat call, otherwise nil.
func NewDefaultResearchProvider() ResearchProvider {
	httpClient := &http.Client{Timeout: 5 * time.Minute}

	if key := os.Getenv("PERPLEXITY_API_KEY"); key != "" {
		return &Perplexity{apiKey: key, httpClient: httpClient}
	}
	if key := os.Getenv("COHERE_API_KEY"); key != "" {
		return NewCohereResearch(key, "")
	}
	return nil
}
