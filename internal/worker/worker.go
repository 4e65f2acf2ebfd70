package worker

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"todoapi/internal/config"
	"todoapi/internal/models"
	"todoapi/pkg/logger"
)

// Invalidator drops stale cached state after a change event.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Run consumes todo change events and invalidates the list cache, so
// replicas that did not perform a mutation still drop their stale lists.
// One consumer per process; the consumer group shares partitions across
// replicas. Blocks until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, inv Invalidator) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info(ctx, "Worker disabled (no Kafka brokers)")
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  "todo-cache-invalidators",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	logger.Info(ctx, "Kafka consumer started", "topic", cfg.KafkaTopic)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleEvent(ctx, msg.Value, inv); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid a poison pill blocking the partition
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
	}
}

func handleEvent(ctx context.Context, payload []byte, inv Invalidator) error {
	var ev models.TodoEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	switch ev.Action {
	case models.EventCreated, models.EventUpdated, models.EventDeleted:
		inv.Invalidate(ctx)
	default:
		logger.Debug(ctx, "Worker ignoring unknown event action", "action", ev.Action)
	}
	return nil
}
