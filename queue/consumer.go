package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"

	"github.com/vetalione/content-pipeline/types"
)

// MessageHandler processes one consumed job message.
// If shouldMark is false or err is non-nil the message is not marked,
// allowing redelivery.
type MessageHandler interface {
	HandleMessage(ctx context.Context, jobID string, message []byte) (shouldMark bool, err error)
}

// Consumer pulls jobs from one topic with a dedicated consumer group, so each
// stage gets its own worker pool.
type Consumer struct {
	consumer sarama.ConsumerGroup
	handler  MessageHandler
	topic    string
	groupID  string
	ready    chan bool
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
}

// NewConsumer creates a consumer group for one stage topic.
func NewConsumer(config ConsumerConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	client, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		consumer: client,
		handler:  config.Handler,
		topic:    config.Topic,
		groupID:  config.GroupID,
		ready:    make(chan bool),
	}, nil
}

// Start begins consuming until the context is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{
		messageHandler: c.handler,
		ready:          c.ready,
	}

	go func() {
		for {
			if err := c.consumer.Consume(ctx, []string{c.topic}, handler); err != nil {
				if err == context.Canceled {
					log.Printf("consumer for %s: context canceled", c.topic)
					return
				}
				log.Printf("Error from consumer for %s: %v", c.topic, err)
			}
			if ctx.Err() != nil {
				return
			}
			handler.ready = make(chan bool)
		}
	}()

	<-c.ready
	log.Printf("✅ Stage consumer started (group: %s, topic: %s)", c.groupID, c.topic)

	go func() {
		for err := range c.consumer.Errors() {
			log.Printf("❌ Consumer error on %s: %v", c.topic, err)
		}
	}()

	return nil
}

// Close gracefully shuts down the consumer.
func (c *Consumer) Close() error {
	return c.consumer.Close()
}

type consumerGroupHandler struct {
	messageHandler MessageHandler
	ready          chan bool
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			jobID := jobIDFromHeaders(message.Headers)
			log.Printf("📥 Received job %s: partition=%d, offset=%d, key=%s",
				jobID, message.Partition, message.Offset, string(message.Key))

			shouldMark, err := h.messageHandler.HandleMessage(session.Context(), jobID, message.Value)
			if err != nil {
				log.Printf("❌ Failed to handle job %s: %v", jobID, err)
			}
			if shouldMark {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

func jobIDFromHeaders(headers []*sarama.RecordHeader) string {
	for _, h := range headers {
		if h != nil && string(h.Key) == "job_id" {
			return string(h.Value)
		}
	}
	return ""
}

// JobHandler adapts a typed job function to the MessageHandler interface.
// Malformed payloads are marked so they are never redelivered.
type JobHandler struct {
	// Validate rejects jobs before processing. Optional.
	Validate func(job *types.PipelineJob) bool
	// Process runs the stage operation.
	Process func(ctx context.Context, jobID string, job *types.PipelineJob) error
}

// HandleMessage implements MessageHandler.
func (h *JobHandler) HandleMessage(ctx context.Context, jobID string, message []byte) (bool, error) {
	var job types.PipelineJob
	if err := json.Unmarshal(message, &job); err != nil {
		log.Printf("❌ Failed to unmarshal job %s: %v", jobID, err)
		return true, nil
	}

	if h.Validate != nil && !h.Validate(&job) {
		return true, nil
	}

	if err := h.Process(ctx, jobID, &job); err != nil {
		// Failure policy: the job is recorded as failed and the message is
		// still marked. Re-running a stage is an explicit caller action.
		return true, err
	}

	return true, nil
}
