// Package events publishes booking lifecycle changes.
package events

import (
	"context"
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/kafka"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingUpdated   Type = "booking.updated"
	BookingCancelled Type = "booking.cancelled"
	BookingCompleted Type = "booking.completed"

	schemaVersion = "1"
)

type Event struct {
	Type          Type           `json:"type"`
	Booking       *model.Booking `json:"booking"`
	Actor         string         `json:"actor,omitempty"`
	OccurredAt    time.Time      `json:"occurredAt"`
	CorrelationID string         `json:"-"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer MessagePublisher
	source   string
	timeout  time.Duration
}

// NewKafkaPublisher keys every message by booking id so events for one
// booking stay ordered within a partition.
func NewKafkaPublisher(producer MessagePublisher, source string, timeout time.Duration) Publisher {
	return &kafkaPublisher{producer: producer, source: source, timeout: timeout}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg, err := kafka.NewMessage().
		WithKey(event.Booking.ID).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithSource(p.source).
		WithSchemaVersion(schemaVersion).
		WithCorrelationID(event.CorrelationID).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher discards events. It is used when no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

func (noopPublisher) Close() error { return nil }
