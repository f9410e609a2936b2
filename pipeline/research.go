package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/vetalione/content-pipeline/ai"
	"github.com/vetalione/content-pipeline/types"
)

// ErrNoResearchProvider is returned when neither research backend is configured.
var ErrNoResearchProvider = errors.New("no research provider configured")

// Research runs the research stage: call the provider, normalize the payload
// and advance the article to the research stage. A malformed provider
// response gets one repair attempt through the secondary model.
func (w *Workers) Research(ctx context.Context, jobID string, job *types.PipelineJob) error {
	return w.run(ctx, jobID, types.StageResearch, func(ctx context.Context) error {
		return w.runResearch(ctx, job)
	})
}

func (w *Workers) runResearch(ctx context.Context, job *types.PipelineJob) error {
	article, err := w.store.GetArticle(ctx, job.ArticleID)
	if err != nil {
		return err
	}
	if w.research == nil {
		return ErrNoResearchProvider
	}

	log.Printf("Starting deep research for article %s (%s) via %s",
		article.ID, article.CelebrityName, w.research.Name())

	ctx, cancel := context.WithTimeout(ctx, w.researchTimeout)
	defer cancel()

	content, citations, err := w.research.Research(ctx, article.CelebrityName)
	if err != nil {
		return fmt.Errorf("research provider: %w", err)
	}

	raw, err := w.parseResearch(ctx, content, article.CelebrityName)
	if err != nil {
		return err
	}

	data := ai.NormalizeResearch(raw, citations)
	if err := w.store.SaveResearchData(ctx, article.ID, data); err != nil {
		return err
	}
	if err := w.advanceThrough(ctx, article, types.StageResearch); err != nil {
		return err
	}

	log.Printf("✅ Research completed for article %s: %d facts, %d sources",
		article.ID, len(data.Facts), len(data.Sources))
	return nil
}

// parseResearch extracts the research JSON, falling back to one repair call
// when the provider output cannot be parsed locally.
func (w *Workers) parseResearch(ctx context.Context, content, celebrityName string) (*ai.RawResearch, error) {
	jsonStr, err := ai.ExtractJSON(content)
	if err == nil {
		if raw, decErr := ai.DecodeResearch(jsonStr); decErr == nil {
			return raw, nil
		} else {
			err = decErr
		}
	}

	if w.repairer == nil {
		return nil, fmt.Errorf("parse research payload: %w", err)
	}

	log.Printf("Research payload malformed (%v), attempting repair", err)
	repaired, repairErr := w.repairer.RepairJSON(ctx, content, celebrityName)
	if repairErr != nil {
		return nil, fmt.Errorf("repair research payload: %w", repairErr)
	}

	jsonStr, err = ai.ExtractJSON(repaired)
	if err != nil {
		return nil, fmt.Errorf("repaired payload still invalid: %w", err)
	}
	return ai.DecodeResearch(jsonStr)
}
