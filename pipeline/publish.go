package pipeline

import (
	"context"
	"errors"
	"log"

	"github.com/vetalione/content-pipeline/types"
)

// ErrNoPublisher is returned when no dispatcher is wired for publish jobs.
var ErrNoPublisher = errors.New("no publish dispatcher configured")

// Publish runs the publishing stage for a queued job through the dispatcher.
// A job without a platform falls back to the article's language defaults.
func (w *Workers) Publish(ctx context.Context, jobID string, job *types.PipelineJob) error {
	return w.run(ctx, jobID, types.StagePublishing, func(ctx context.Context) error {
		if w.publisher == nil {
			return ErrNoPublisher
		}

		var req types.PublishRequest
		if job.Platform != "" {
			req.Platforms = []types.Platform{job.Platform}
		}

		pubs, err := w.publisher.Dispatch(ctx, job.ArticleID, req)
		if err != nil {
			return err
		}
		log.Printf("📤 Publish job for article %s covered %d platform(s)", job.ArticleID, len(pubs))
		return nil
	})
}
