package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/vetalione/content-pipeline/ai"
	"github.com/vetalione/content-pipeline/types"
)

// ErrNoGenerator is returned when no generation model is configured.
var ErrNoGenerator = errors.New("no content generator configured")

// Generate runs the generation stage. The article must already carry research
// data; there is no implicit wait or retry on that precondition.
func (w *Workers) Generate(ctx context.Context, jobID string, job *types.PipelineJob) error {
	return w.run(ctx, jobID, types.StageGeneration, func(ctx context.Context) error {
		return w.runGenerate(ctx, job)
	})
}

func (w *Workers) runGenerate(ctx context.Context, job *types.PipelineJob) error {
	article, err := w.store.GetArticle(ctx, job.ArticleID)
	if err != nil {
		return err
	}
	if article.ResearchData == nil {
		return ErrNoResearchData
	}
	if w.generator == nil {
		return ErrNoGenerator
	}

	log.Printf("Generating content for article %s (%s)", article.ID, article.CelebrityName)

	researchJSON, err := json.Marshal(article.ResearchData)
	if err != nil {
		return fmt.Errorf("marshal research data: %w", err)
	}

	style := styleFromJob(job, article)
	out, err := w.generator.GenerateContent(ctx, article.CelebrityName, string(researchJSON), style)
	if err != nil {
		return fmt.Errorf("generation provider: %w", err)
	}

	// Unlike research there is no repair path: malformed output fails the job.
	var content types.ArticleContent
	if err := json.Unmarshal([]byte(out), &content); err != nil {
		return fmt.Errorf("parse generated content: %w", err)
	}
	content.GeneratedAt = time.Now()
	for i := range content.Sections {
		if content.Sections[i].ID == "" {
			content.Sections[i].ID = fmt.Sprintf("section-%d", i+1)
		}
		if content.Sections[i].Order == 0 {
			content.Sections[i].Order = i + 1
		}
	}

	if err := w.store.SaveContent(ctx, article.ID, &content); err != nil {
		return err
	}
	if err := w.advanceThrough(ctx, article, types.StageGeneration); err != nil {
		return err
	}

	log.Printf("✅ Generation completed for article %s: %d sections", article.ID, len(content.Sections))
	return nil
}

func styleFromJob(job *types.PipelineJob, article *types.Article) ai.GenerationStyle {
	style := ai.GenerationStyle{
		IncludeQuotes: true,
		IncludeMemes:  true,
		Language:      string(article.Language),
	}
	if sc := job.StyleConfig; sc != nil {
		style.Tone = sc.Tone
		style.PointsCount = sc.PointsCount
		style.IncludeQuotes = sc.IncludeQuotes
		style.IncludeMemes = sc.IncludeMemes
		if sc.Language != "" {
			style.Language = sc.Language
		}
	}
	return style
}
