package kafka_config

const (
	EnvKafkaBrokers  = "KAFKA_BROKERS"
	EnvKafkaTopic    = "KAFKA_BOOKING_TOPIC"
	EnvKafkaDLQTopic = "KAFKA_BOOKING_DLQ_TOPIC"
	EnvKafkaSource   = "KAFKA_EVENT_SOURCE"

	EnvKafkaProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaProducerRequireAcks  = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvKafkaProducerCompression  = "KAFKA_PRODUCER_COMPRESSION"
	EnvKafkaProducerAsync        = "KAFKA_PRODUCER_ASYNC"
	EnvKafkaPublishTimeout       = "KAFKA_PUBLISH_TIMEOUT"
)
