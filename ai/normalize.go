package ai

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vetalione/content-pipeline/types"
)

// NormalizeResearch maps a provider payload into ResearchData. Failures
// become facts tagged with the failure category; provider citations are
// merged into the sources list, which is deduplicated.
func NormalizeResearch(raw *RawResearch, citations []string) *types.ResearchData {
	facts := make([]types.BiographyFact, 0, len(raw.Failures))
	for i, failure := range raw.Failures {
		title := failure.Title
		if title == "" {
			n := failure.Number
			if n == 0 {
				n = i + 1
			}
			title = fmt.Sprintf("Failure %d", n)
		}

		description := strings.TrimSpace(failure.Description)
		if failure.Outcome != "" {
			description = strings.TrimSpace(description + "\n\n" + failure.Outcome)
		}

		severity := failure.Severity
		if severity < 1 || severity > 5 {
			severity = 3
		}

		var sources []string
		if failure.Source != "" {
			sources = []string{failure.Source}
		}

		facts = append(facts, types.BiographyFact{
			ID:          fmt.Sprintf("fact-%d", i+1),
			Title:       title,
			Description: description,
			Category:    types.CategoryFailure,
			Year:        parseYear(failure.Year),
			Severity:    severity,
			Sources:     sources,
		})
	}

	quotes := make([]types.Quote, 0, len(raw.Quotes))
	for i, q := range raw.Quotes {
		source := q.Source
		if source == "" {
			source = "Unknown source"
		}
		quotes = append(quotes, types.Quote{
			ID:      fmt.Sprintf("quote-%d", i+1),
			Text:    q.Text,
			Context: q.Context,
			Source:  source,
			Year:    parseYear(q.Year),
		})
	}

	return &types.ResearchData{
		Facts:  facts,
		Quotes: quotes,
		// Images are populated by the cover stage.
		Images:      []types.ImageReference{},
		Sources:     dedupeSources(raw.Sources, citations),
		GeneratedAt: time.Now(),
	}
}

func dedupeSources(sources, citations []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(sources)+len(citations))
	for _, s := range append(append([]string{}, sources...), citations...) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Tolerate values like "1995 (approx)".
	if i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }); i > 0 {
		s = s[:i]
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return year
}
