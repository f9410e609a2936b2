package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/vetalione/content-pipeline/ai"
	"github.com/vetalione/content-pipeline/store"
	"github.com/vetalione/content-pipeline/types"
)

// ErrNoResearchData is the generation precondition failure: the article has
// not been through the research stage.
var ErrNoResearchData = errors.New("no research data available, run research first")

// JobTracker records job state transitions. *queue.Tracker satisfies it;
// a nil tracker disables tracking.
type JobTracker interface {
	MarkActive(ctx context.Context, jobID string) error
	MarkCompleted(ctx context.Context, jobID string) error
	MarkFailed(ctx context.Context, jobID string, err error) error
	MarkDead(ctx context.Context, jobID string, err error) error
}

// CoverStorage uploads processed covers. *common.CoverBucket satisfies it;
// nil keeps covers local-only.
type CoverStorage interface {
	UploadCover(ctx context.Context, articleID, coverID string, body io.Reader, contentType string) (string, error)
}

// ArticlePublisher fans a publish request out to the platform publishers.
// *publish.Dispatcher satisfies it.
type ArticlePublisher interface {
	Dispatch(ctx context.Context, articleID string, req types.PublishRequest) ([]types.Publication, error)
}

// Workers owns the stage handlers and their shared dependencies. Every
// resource is injected; nothing is held in package state.
type Workers struct {
	store     store.Store
	research  ai.ResearchProvider
	repairer  ai.Repairer
	generator ai.Generator
	covers    CoverStorage
	tracker   JobTracker
	publisher ArticlePublisher

	researchTimeout time.Duration
	retry           RetryPolicy
}

// WorkersConfig wires the stage workers.
type WorkersConfig struct {
	Store     store.Store
	Research  ai.ResearchProvider
	Repairer  ai.Repairer
	Generator ai.Generator
	Covers    CoverStorage
	Tracker   JobTracker
	Publisher ArticlePublisher

	// ResearchTimeout bounds one research provider call. Defaults to 5m.
	ResearchTimeout time.Duration
	Retry           RetryPolicy
}

// NewWorkers builds the stage worker set.
func NewWorkers(cfg WorkersConfig) *Workers {
	timeout := cfg.ResearchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Workers{
		store:           cfg.Store,
		research:        cfg.Research,
		repairer:        cfg.Repairer,
		generator:       cfg.Generator,
		covers:          cfg.Covers,
		tracker:         cfg.Tracker,
		publisher:       cfg.Publisher,
		researchTimeout: timeout,
		retry:           cfg.Retry.withDefaults(),
	}
}

// run executes one stage operation under the retry policy, recording job
// state in the tracker.
func (w *Workers) run(ctx context.Context, jobID string, stage types.Stage, op func(ctx context.Context) error) error {
	if w.tracker != nil && jobID != "" {
		if err := w.tracker.MarkActive(ctx, jobID); err != nil {
			log.Printf("tracker: mark active %s: %v", jobID, err)
		}
	}

	err := w.retry.Do(ctx, op)
	if w.tracker != nil && jobID != "" {
		switch {
		case err == nil:
			_ = w.tracker.MarkCompleted(ctx, jobID)
		case errors.Is(err, ErrRetriesExhausted):
			_ = w.tracker.MarkDead(ctx, jobID, err)
		default:
			_ = w.tracker.MarkFailed(ctx, jobID, err)
		}
	}
	if err != nil {
		log.Printf("❌ %s stage failed: %v", stage, err)
	}
	return err
}

// advanceThrough moves the article forward along path, skipping stages it has
// already reached. The store rejects anything the stage machine forbids.
func (w *Workers) advanceThrough(ctx context.Context, a *types.Article, path ...types.Stage) error {
	current := a.CurrentStage
	for _, next := range path {
		if !current.Before(next) {
			continue
		}
		if err := w.store.AdvanceStage(ctx, a.ID, next); err != nil {
			return err
		}
		current = next
	}
	return nil
}
