package kafka_config

import "time"

const (
	// No brokers means events are not published.
	DefaultKafkaBrokers = ""

	DefaultTopic    = "jamat.bookings"
	DefaultDLQTopic = ""
	DefaultSource   = "bookings-service"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false
	DefaultPublishTimeout       = 5 * time.Second
)
