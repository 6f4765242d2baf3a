package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/kafka"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
)

type capturingProducer struct {
	messages []kafka.Message
	deadline bool
}

func (c *capturingProducer) Publish(ctx context.Context, msg kafka.Message) error {
	_, c.deadline = ctx.Deadline()
	c.messages = append(c.messages, msg)
	return nil
}

func (c *capturingProducer) Close() error { return nil }

func TestKafkaPublisherBuildsKeyedMessage(t *testing.T) {
	producer := &capturingProducer{}
	pub := NewKafkaPublisher(producer, "bookings-service", time.Second)

	err := pub.Publish(context.Background(), Event{
		Type:          BookingCreated,
		Booking:       &model.Booking{ID: "65f0c0ffee", Title: "Nikah"},
		Actor:         "manager@example.org",
		CorrelationID: "req-1",
	})
	require.NoError(t, err)

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "65f0c0ffee", msg.Key)
	assert.Equal(t, "booking.created", msg.EventType())
	assert.Equal(t, "bookings-service", msg.Headers[kafka.HeaderSource])
	assert.Equal(t, "req-1", msg.CorrelationID())
	assert.NotEmpty(t, msg.EventID())
	assert.True(t, producer.deadline)

	var decoded struct {
		Type    string `json:"type"`
		Booking struct {
			Title string `json:"title"`
		} `json:"booking"`
	}
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, "booking.created", decoded.Type)
	assert.Equal(t, "Nikah", decoded.Booking.Title)
}

func TestNoopPublisher(t *testing.T) {
	pub := NewNoopPublisher()
	assert.NoError(t, pub.Publish(context.Background(), Event{Type: BookingCancelled}))
	assert.NoError(t, pub.Close())
}
