package publish

import (
	"context"
	"log"
	"time"

	"github.com/vetalione/content-pipeline/store"
	"github.com/vetalione/content-pipeline/types"
)

// Dispatcher creates publication rows and runs platform publishers. Platform
// failures are recorded per row and never abort the batch.
type Dispatcher struct {
	store    store.Store
	registry *Registry
}

// NewDispatcher wires the dispatcher.
func NewDispatcher(st store.Store, registry *Registry) *Dispatcher {
	return &Dispatcher{store: st, registry: registry}
}

// Dispatch handles one publish request: one publication row per platform,
// status pending when scheduled, otherwise publishing followed by a
// sequential immediate run. The returned rows reflect final state.
func (d *Dispatcher) Dispatch(ctx context.Context, articleID string, req types.PublishRequest) ([]types.Publication, error) {
	article, err := d.store.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	if len(req.Platforms) == 0 {
		req.Platforms = PlatformsForLanguage(article.Language)
	}

	initial := types.PublicationPublishing
	if req.ScheduledAt != nil {
		initial = types.PublicationPending
	}

	publications := make([]types.Publication, 0, len(req.Platforms))
	for _, platform := range req.Platforms {
		pub := types.Publication{
			ID:          types.NewID(),
			ArticleID:   articleID,
			Platform:    platform,
			Status:      initial,
			ScheduledAt: req.ScheduledAt,
		}
		if err := d.store.CreatePublication(ctx, &pub); err != nil {
			return nil, err
		}
		publications = append(publications, pub)
	}

	if req.ScheduledAt != nil {
		return publications, nil
	}

	// Sequential by design: browser sessions are per-platform files and are
	// not safe under concurrent use.
	for i := range publications {
		custom := customizationFor(req, publications[i].Platform)
		d.execute(ctx, article, &publications[i], custom)
	}
	return publications, nil
}

// PublishOne runs a single platform publish for an existing row, used by the
// scheduler when a pending publication comes due.
func (d *Dispatcher) PublishOne(ctx context.Context, pub *types.Publication, custom *types.PlatformCustomization) error {
	article, err := d.store.GetArticle(ctx, pub.ArticleID)
	if err != nil {
		return err
	}
	d.execute(ctx, article, pub, custom)
	return nil
}

// execute runs one publisher and writes the terminal outcome to the row.
func (d *Dispatcher) execute(ctx context.Context, article *types.Article, pub *types.Publication, custom *types.PlatformCustomization) {
	publisher, err := d.registry.Get(pub.Platform)
	if err == nil {
		var result *Result
		result, err = publisher.Publish(ctx, article, custom)
		if err == nil {
			now := time.Now()
			pub.Status = types.PublicationPublished
			pub.PublishedURL = result.URL
			pub.PublishedAt = &now
		}
	}
	if err != nil {
		pub.Status = types.PublicationFailed
		pub.Error = err.Error()
		log.Printf("❌ Publish %s to %s failed: %v", article.ID, pub.Platform, err)
	} else {
		log.Printf("✅ Published %s to %s: %s", article.ID, pub.Platform, pub.PublishedURL)
	}

	if updateErr := d.store.UpdatePublication(ctx, pub); updateErr != nil {
		log.Printf("Failed to record publication %s outcome: %v", pub.ID, updateErr)
	}
}

func customizationFor(req types.PublishRequest, platform types.Platform) *types.PlatformCustomization {
	if req.Customizations == nil {
		return nil
	}
	if c, ok := req.Customizations[platform]; ok {
		return &c
	}
	return nil
}
