package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/vetalione/content-pipeline/types"
)

// Cover runs the cover stage. Image acquisition is a placeholder: a stub
// reference is recorded and optionally uploaded, but the stage-advancement
// contract (cover completion moves the article to publishing) is what the
// rest of the pipeline depends on. Replace acquireCoverImage with a real
// search/processing implementation without touching that contract.
func (w *Workers) Cover(ctx context.Context, jobID string, job *types.PipelineJob) error {
	return w.run(ctx, jobID, types.StageCover, func(ctx context.Context) error {
		return w.runCover(ctx, job)
	})
}

func (w *Workers) runCover(ctx context.Context, job *types.PipelineJob) error {
	article, err := w.store.GetArticle(ctx, job.ArticleID)
	if err != nil {
		return err
	}

	template := job.Template
	if template == "" {
		template = "default"
	}
	log.Printf("Generating cover for article %s with template %s", article.ID, template)

	cover := types.CoverImage{
		ID:          types.NewID(),
		ArticleID:   article.ID,
		Template:    template,
		GeneratedAt: time.Now(),
	}
	if err := w.acquireCoverImage(ctx, article, &cover); err != nil {
		return err
	}

	// Re-running the stage inserts another cover row; the article carries
	// the most recent one.
	if err := w.store.CreateCoverImage(ctx, &cover); err != nil {
		return err
	}
	if err := w.advanceThrough(ctx, article, types.StageCover, types.StagePublishing); err != nil {
		return err
	}

	log.Printf("✅ Cover generated for article %s (%s)", article.ID, cover.ID)
	return nil
}

// acquireCoverImage is the stub image pipeline: it fabricates a placeholder
// reference and pushes it to the cover bucket when one is configured.
func (w *Workers) acquireCoverImage(ctx context.Context, article *types.Article, cover *types.CoverImage) error {
	cover.OriginalImageURL = fmt.Sprintf("/temp/%s-original.jpg", cover.ID)
	cover.LocalPath = filepath.Join("covers", article.ID, cover.ID+".jpg")
	cover.ProcessedImageURL = fmt.Sprintf("/temp/%s.jpg", cover.ID)

	if w.covers == nil {
		return nil
	}

	placeholder := strings.NewReader("placeholder cover for " + article.CelebrityName)
	url, err := w.covers.UploadCover(ctx, article.ID, cover.ID, placeholder, "image/jpeg")
	if err != nil {
		return fmt.Errorf("upload cover: %w", err)
	}
	cover.ProcessedImageURL = url
	return nil
}
