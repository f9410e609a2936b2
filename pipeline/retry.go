package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vetalione/content-pipeline/store"
)

// ErrRetriesExhausted marks a job that consumed its retry budget; the tracker
// records it as dead rather than failed.
var ErrRetriesExhausted = errors.New("retries exhausted")

// RetryPolicy bounds stage attempts with linear backoff. Not-found,
// precondition and stage-machine errors are never retried.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	return p
}

func permanent(err error) bool {
	return errors.Is(err, store.ErrArticleNotFound) ||
		errors.Is(err, store.ErrIllegalTransition) ||
		errors.Is(err, ErrNoResearchData)
}

// Do runs op up to MaxAttempts times, sleeping attempt*Backoff between tries.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	p = p.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if permanent(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * p.Backoff):
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, p.MaxAttempts, lastErr)
}
