package kafka_config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Brokers  []string
	Topic    string
	DLQTopic string
	Source   string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int    // -1 = all, 0 = none, 1 = leader only
	ProducerCompression  string // "none", "gzip", "snappy", "lz4", "zstd"
	ProducerAsync        bool
	PublishTimeout       time.Duration
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(EnvKafkaBrokers, DefaultKafkaBrokers)
	v.SetDefault(EnvKafkaTopic, DefaultTopic)
	v.SetDefault(EnvKafkaDLQTopic, DefaultDLQTopic)
	v.SetDefault(EnvKafkaSource, DefaultSource)
	v.SetDefault(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts)
	v.SetDefault(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout)
	v.SetDefault(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks)
	v.SetDefault(EnvKafkaProducerCompression, DefaultProducerCompression)
	v.SetDefault(EnvKafkaProducerAsync, DefaultProducerAsync)
	v.SetDefault(EnvKafkaPublishTimeout, DefaultPublishTimeout)
}

// Load reads the producer settings from v. The caller owns v's sources
// (environment, config file).
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Brokers:              splitBrokers(v.GetString(EnvKafkaBrokers)),
		Topic:                v.GetString(EnvKafkaTopic),
		DLQTopic:             v.GetString(EnvKafkaDLQTopic),
		Source:               v.GetString(EnvKafkaSource),
		ProducerMaxAttempts:  v.GetInt(EnvKafkaProducerMaxAttempts),
		ProducerBatchTimeout: v.GetDuration(EnvKafkaProducerBatchTimeout),
		ProducerRequireAcks:  v.GetInt(EnvKafkaProducerRequireAcks),
		ProducerCompression:  v.GetString(EnvKafkaProducerCompression),
		ProducerAsync:        v.GetBool(EnvKafkaProducerAsync),
		PublishTimeout:       v.GetDuration(EnvKafkaPublishTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Enabled reports whether any broker is configured.
func (cfg *Config) Enabled() bool {
	return len(cfg.Brokers) > 0
}

func (cfg *Config) Validate() error {
	if !cfg.Enabled() {
		return nil
	}

	var errors []string

	if cfg.Topic == "" {
		errors = append(errors, "Topic cannot be empty when brokers are configured")
	}

	if cfg.ProducerMaxAttempts <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerMaxAttempts must be positive, got: %d", cfg.ProducerMaxAttempts))
	}

	if cfg.ProducerBatchTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerBatchTimeout must be positive, got: %s", cfg.ProducerBatchTimeout))
	}

	if cfg.PublishTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("PublishTimeout must be positive, got: %s", cfg.PublishTimeout))
	}

	validCompressions := map[string]bool{
		"none": true, "gzip": true, "snappy": true, "lz4": true, "zstd": true,
	}
	if !validCompressions[cfg.ProducerCompression] {
		errors = append(errors, fmt.Sprintf("ProducerCompression must be one of [none, gzip, snappy, lz4, zstd], got: %s", cfg.ProducerCompression))
	}

	validAcks := map[int]bool{-1: true, 0: true, 1: true}
	if !validAcks[cfg.ProducerRequireAcks] {
		errors = append(errors, fmt.Sprintf("ProducerRequireAcks must be -1, 0, or 1, got: %d", cfg.ProducerRequireAcks))
	}

	if len(errors) > 0 {
		errMsg := "Kafka configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration(logFunc func(msg string, keysAndValues ...any)) {
	if logFunc == nil {
		return
	}

	logFunc("Kafka configuration loaded successfully",
		"enabled", cfg.Enabled(),
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
		"dlq_topic", cfg.DLQTopic,
		"producer_max_attempts", cfg.ProducerMaxAttempts,
		"producer_batch_timeout", cfg.ProducerBatchTimeout,
		"producer_require_acks", cfg.ProducerRequireAcks,
		"producer_compression", cfg.ProducerCompression,
		"producer_async", cfg.ProducerAsync,
	)
}
