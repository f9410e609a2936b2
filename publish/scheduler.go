package publish

import (
	"context"
	"log"
	"time"

	"github.com/vetalione/content-pipeline/store"
	"github.com/vetalione/content-pipeline/types"
)

// Scheduler executes scheduled publications once their time passes. Rows are
// created as pending by the dispatcher; this loop is what finally runs them.
type Scheduler struct {
	store      store.Store
	dispatcher *Dispatcher
	interval   time.Duration
}

// NewScheduler builds the scheduler; interval defaults to one minute.
func NewScheduler(st store.Store, dispatcher *Dispatcher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{store: st, dispatcher: dispatcher, interval: interval}
}

// Run polls for due publications until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes every publication due at the current time.
func (s *Scheduler) RunOnce(ctx context.Context) {
	due, err := s.store.DuePublications(ctx, time.Now())
	if err != nil {
		log.Printf("scheduler: list due publications: %v", err)
		return
	}

	for i := range due {
		pub := due[i]
		pub.Status = types.PublicationPublishing
		if err := s.store.UpdatePublication(ctx, &pub); err != nil {
			log.Printf("scheduler: claim publication %s: %v", pub.ID, err)
			continue
		}
		if err := s.dispatcher.PublishOne(ctx, &pub, nil); err != nil {
			// Article lookup failed; record the terminal failure directly.
			pub.Status = types.PublicationFailed
			pub.Error = err.Error()
			if uerr := s.store.UpdatePublication(ctx, &pub); uerr != nil {
				log.Printf("scheduler: record failure for %s: %v", pub.ID, uerr)
			}
		}
	}
}
