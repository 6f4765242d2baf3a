package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/kafka"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
)

func TestMetricsCountOutcomes(t *testing.T) {
	m := NewMetrics()
	mw := MetricsProducerMiddleware(m)
	msg := kafka.Message{Key: "k", Value: []byte("v")}

	_ = mw(context.Background(), msg, func(context.Context, kafka.Message) error { return nil })
	_ = mw(context.Background(), msg, func(context.Context, kafka.Message) error { return errors.New("down") })

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.MessagesPublished)
	assert.Equal(t, int64(1), snap.MessagesPublishedFailed)
}

func TestLoggingPassesErrorsThrough(t *testing.T) {
	mw := LoggingProducerMiddleware(logger.NewNop())
	boom := errors.New("down")

	err := mw(context.Background(), kafka.Message{Key: "k"}, func(context.Context, kafka.Message) error { return boom })
	assert.ErrorIs(t, err, boom)
}
