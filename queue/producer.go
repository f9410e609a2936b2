package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"github.com/vetalione/content-pipeline/types"
)

// Producer publishes stage jobs to Kafka. One producer is shared by the whole
// process and passed explicitly to the components that enqueue.
type Producer struct {
	producer sarama.SyncProducer
	tracker  *Tracker
}

// NewProducer connects a synchronous producer to the given brokers. The
// tracker is optional; when present every enqueued job is recorded as waiting.
func NewProducer(brokers []string, tracker *Tracker) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{producer: producer, tracker: tracker}, nil
}

// Enqueue serializes the job and sends it, keyed by article id so jobs for one
// article stay ordered within a partition. Returns the generated job id.
func (p *Producer) Enqueue(ctx context.Context, topic string, job types.PipelineJob) (string, error) {
	jobID := types.NewID()

	payload, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(job.ArticleID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("job_id"), Value: []byte(jobID)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return "", fmt.Errorf("send to %s: %w", topic, err)
	}
	log.Printf("📤 Enqueued %s job for article %s (partition=%d, offset=%d)",
		job.Stage, job.ArticleID, partition, offset)

	if p.tracker != nil {
		if err := p.tracker.MarkWaiting(ctx, jobID, job); err != nil {
			log.Printf("tracker: failed to record job %s: %v", jobID, err)
		}
	}

	return jobID, nil
}

// Close shuts down the underlying producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
