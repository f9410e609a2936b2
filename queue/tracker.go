package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vetalione/content-pipeline/types"
)

// Job states recorded by the tracker.
const (
	StateWaiting   = "waiting"
	StateActive    = "active"
	StateCompleted = "completed"
	StateFailed    = "failed"
	// StateDead marks a job whose retry budget is exhausted, distinct from a
	// transient failure.
	StateDead = "dead"
)

// Tracker records job state in Redis so the API can answer status polls.
type Tracker struct {
	client *redis.Client
	ttl    time.Duration
}

// TrackerConfig configures the Redis connection for job tracking.
type TrackerConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewTracker connects to Redis and verifies connectivity.
func NewTracker(cfg TrackerConfig) (*Tracker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Tracker{client: client, ttl: ttl}, nil
}

func jobKey(jobID string) string         { return "pipeline:job:" + jobID }
func articleKey(articleID string) string { return "pipeline:article:" + articleID }

// MarkWaiting records a freshly enqueued job.
func (t *Tracker) MarkWaiting(ctx context.Context, jobID string, job types.PipelineJob) error {
	pipe := t.client.TxPipeline()
	pipe.HSet(ctx, jobKey(jobID), map[string]interface{}{
		"article_id": job.ArticleID,
		"stage":      string(job.Stage),
		"state":      StateWaiting,
		"timestamp":  time.Now().UnixMilli(),
	})
	pipe.Expire(ctx, jobKey(jobID), t.ttl)
	pipe.SAdd(ctx, articleKey(job.ArticleID), jobID)
	pipe.Expire(ctx, articleKey(job.ArticleID), t.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// MarkActive transitions a job to active.
func (t *Tracker) MarkActive(ctx context.Context, jobID string) error {
	return t.setState(ctx, jobID, StateActive, "")
}

// MarkCompleted transitions a job to completed.
func (t *Tracker) MarkCompleted(ctx context.Context, jobID string) error {
	return t.setState(ctx, jobID, StateCompleted, "")
}

// MarkFailed records a failed job with its error message.
func (t *Tracker) MarkFailed(ctx context.Context, jobID string, jobErr error) error {
	msg := ""
	if jobErr != nil {
		msg = jobErr.Error()
	}
	return t.setState(ctx, jobID, StateFailed, msg)
}

// MarkDead records a job whose retries are exhausted.
func (t *Tracker) MarkDead(ctx context.Context, jobID string, jobErr error) error {
	msg := ""
	if jobErr != nil {
		msg = jobErr.Error()
	}
	return t.setState(ctx, jobID, StateDead, msg)
}

func (t *Tracker) setState(ctx context.Context, jobID, state, errMsg string) error {
	fields := map[string]interface{}{
		"state":     state,
		"timestamp": time.Now().UnixMilli(),
	}
	if errMsg != "" {
		fields["error"] = errMsg
	}
	return t.client.HSet(ctx, jobKey(jobID), fields).Err()
}

// ListByArticle returns every tracked job for an article.
func (t *Tracker) ListByArticle(ctx context.Context, articleID string) ([]types.JobStatus, error) {
	ids, err := t.client.SMembers(ctx, articleKey(articleID)).Result()
	if err != nil {
		return nil, err
	}

	jobs := make([]types.JobStatus, 0, len(ids))
	for _, id := range ids {
		fields, err := t.client.HGetAll(ctx, jobKey(id)).Result()
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			continue
		}
		ts, _ := strconv.ParseInt(fields["timestamp"], 10, 64)
		jobs = append(jobs, types.JobStatus{
			ID:        id,
			ArticleID: fields["article_id"],
			Stage:     types.Stage(fields["stage"]),
			State:     fields["state"],
			Timestamp: ts,
			Error:     fields["error"],
		})
	}
	return jobs, nil
}

// Close releases the Redis connection.
func (t *Tracker) Close() error {
	return t.client.Close()
}
