package kafka_middleware

import (
	"context"
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/kafka"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
)

func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)

		fields := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.EventID(),
			"event_type", msg.EventType(),
			"correlation_id", msg.CorrelationID(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if err != nil {
			log.Error("Failed to publish kafka message", append(fields, "error", err)...)
			return err
		}

		log.Debug("Published kafka message", fields...)
		return nil
	}
}
