package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
	"todoapi/internal/config"
	"todoapi/internal/models"
	"todoapi/pkg/logger"
)

// EnsureTopic creates the todo-events topic with configured partitions
// (idempotent). Called at startup; failure is non-fatal, the stream is a
// cache-coherence aid, not a write path.
func EnsureTopic(ctx context.Context, cfg *config.Config) {
	if len(cfg.KafkaBrokers) == 0 {
		return
	}
	conn, err := kafka.Dial("tcp", cfg.KafkaBrokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     cfg.KafkaPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", cfg.KafkaTopic, "partitions", cfg.KafkaPartitions)
}

// Publisher writes todo change events to Kafka. A nil *Publisher is valid
// and publishes nothing.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher builds the async Kafka writer for the events topic.
func NewPublisher(ctx context.Context, cfg *config.Config) *Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 0,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
	}
	logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return &Publisher{writer: w}
}

// PublishTodoEvent publishes a change event. Events about the same todo share
// a key so they stay ordered within a partition.
func (p *Publisher) PublishTodoEvent(ctx context.Context, ev models.TodoEvent) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   EventKey(ev),
		Value: payload,
	})
}

// EventKey returns the partition key for a change event.
func EventKey(ev models.TodoEvent) []byte {
	return []byte("todo:" + strconv.FormatInt(ev.TodoID, 10))
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
