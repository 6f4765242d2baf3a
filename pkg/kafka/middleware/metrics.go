package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/kafka"
)

// Metrics counts publish outcomes for the readiness report.
type Metrics struct {
	published            atomic.Int64
	failed               atomic.Int64
	publishDurationTotal atomic.Int64
}

type MetricsSnapshot struct {
	MessagesPublished       int64   `json:"messages_published"`
	MessagesPublishedFailed int64   `json:"messages_published_failed"`
	AvgPublishDurationMs    float64 `json:"avg_publish_duration_ms"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	published := m.published.Load()
	snap := MetricsSnapshot{
		MessagesPublished:       published,
		MessagesPublishedFailed: m.failed.Load(),
	}
	if published > 0 {
		snap.AvgPublishDurationMs = float64(m.publishDurationTotal.Load()) / float64(published) / float64(time.Millisecond)
	}
	return snap
}

func MetricsProducerMiddleware(m *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		if err != nil {
			m.failed.Add(1)
			return err
		}
		m.published.Add(1)
		m.publishDurationTotal.Add(int64(time.Since(start)))
		return nil
	}
}
