package queue

import (
	"context"

	"github.com/vetalione/content-pipeline/types"
)

// Topic names, one per pipeline stage worker pool.
const (
	TopicResearch   = "pipeline.research"
	TopicGeneration = "pipeline.generation"
	TopicCover      = "pipeline.cover"
	TopicPublish    = "pipeline.publish"
)

// TopicForStage maps a pipeline stage to its queue topic.
func TopicForStage(stage types.Stage) string {
	switch stage {
	case types.StageResearch:
		return TopicResearch
	case types.StageGeneration:
		return TopicGeneration
	case types.StageCover:
		return TopicCover
	case types.StagePublishing:
		return TopicPublish
	}
	return ""
}

// Enqueuer hands a stage job to the queue without blocking on processing.
// The Kafka producer implements it; tests substitute an in-process fake.
type Enqueuer interface {
	Enqueue(ctx context.Context, topic string, job types.PipelineJob) (jobID string, err error)
}
