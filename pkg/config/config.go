package config

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/client"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv string `mapstructure:"APP_ENV"`

	MongoURI          string        `mapstructure:"MONGO_URI"`
	MongoDatabaseName string        `mapstructure:"MONGO_DATABASE_NAME"`
	MongoConnTimeout  time.Duration `mapstructure:"MONGO_CONN_TIMEOUT"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	VenueCacheTTL time.Duration `mapstructure:"VENUE_CACHE_TTL"`

	Port      string `mapstructure:"PORT"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	JWTSecret string `mapstructure:"JWT_SECRET"`
	JWTIssuer string `mapstructure:"JWT_ISSUER"`

	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`

	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	IdempotencyTTL time.Duration `mapstructure:"IDEMPOTENCY_TTL"`
	MaxRequestSize int           `mapstructure:"MAX_REQUEST_SIZE"`

	ReadTimeout     time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `mapstructure:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	VenueLockTTL       time.Duration `mapstructure:"VENUE_LOCK_TTL"`
	CompletionSchedule string        `mapstructure:"COMPLETION_SCHEDULE"`

	Log    *logger.Logger `mapstructure:"-"`
	Client *client.Client `mapstructure:"-"`
}

// Load reads configuration from the environment and an optional config.yaml,
// validates it and exits the process on failure.
func Load(serviceName string) *Config {
	cfg, err := Read(NewViper())
	log := logger.New(logger.Config{
		Level:     levelOrDefault(cfg),
		Format:    formatOrDefault(cfg),
		AddSource: true,
		Service:   serviceName,
	})
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}

	cfg.Log = log
	cfg.Client = client.NewClient()

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// NewViper returns a viper instance wired to the environment, config.yaml
// lookup paths and every default.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(EnvAppEnv, DefaultAppEnv)

	v.SetDefault(EnvMongoURI, DefaultMongoURI)
	v.SetDefault(EnvMongoDatabaseName, DefaultMongoDatabaseName)
	v.SetDefault(EnvMongoConnTimeout, DefaultMongoConnTimeout)

	v.SetDefault(EnvRedisAddr, DefaultRedisAddr)
	v.SetDefault(EnvRedisPassword, "")
	v.SetDefault(EnvRedisDB, DefaultRedisDB)
	v.SetDefault(EnvVenueCacheTTL, DefaultVenueCacheTTL)

	v.SetDefault(EnvPort, DefaultPort)
	v.SetDefault(EnvLogLevel, DefaultLogLevel)
	v.SetDefault(EnvLogFormat, DefaultLogFormat)

	v.SetDefault(EnvJWTSecret, "")
	v.SetDefault(EnvJWTIssuer, DefaultJWTIssuer)

	v.SetDefault(EnvRateLimitRequests, DefaultRateLimitRequests)
	v.SetDefault(EnvRateLimitWindow, DefaultRateLimitWindow)

	v.SetDefault(EnvRequestTimeout, DefaultRequestTimeout)
	v.SetDefault(EnvIdempotencyTTL, DefaultIdempotencyTTL)
	v.SetDefault(EnvMaxRequestSize, DefaultMaxRequestSize)

	v.SetDefault(EnvReadTimeout, DefaultReadTimeout)
	v.SetDefault(EnvWriteTimeout, DefaultWriteTimeout)
	v.SetDefault(EnvIdleTimeout, DefaultIdleTimeout)
	v.SetDefault(EnvShutdownTimeout, DefaultShutdownTimeout)

	v.SetDefault(EnvVenueLockTTL, DefaultVenueLockTTL)
	v.SetDefault(EnvCompletionSchedule, DefaultCompletionSchedule)
}

// Read unmarshals v into a Config. A missing config file is not an error.
func Read(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return &Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return &Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func levelOrDefault(cfg *Config) string {
	if cfg == nil || cfg.LogLevel == "" {
		return DefaultLogLevel
	}
	return cfg.LogLevel
}

func formatOrDefault(cfg *Config) string {
	if cfg == nil || cfg.LogFormat == "" {
		return DefaultLogFormat
	}
	return cfg.LogFormat
}

func (cfg *Config) IsProduction() bool {
	return cfg.AppEnv == "production"
}

func (cfg *Config) AuthEnabled() bool {
	return cfg.JWTSecret != ""
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.RedisAddr == "" {
		errors = append(errors, "RedisAddr cannot be empty")
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"VenueCacheTTL", cfg.VenueCacheTTL},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"VenueLockTTL", cfg.VenueLockTTL},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.VenueLockTTL > 0 && cfg.RequestTimeout > 0 && cfg.VenueLockTTL < cfg.RequestTimeout {
		errors = append(errors, fmt.Sprintf("VenueLockTTL (%s) must not be shorter than RequestTimeout (%s)", cfg.VenueLockTTL, cfg.RequestTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if _, err := cron.ParseStandard(cfg.CompletionSchedule); err != nil {
		errors = append(errors, fmt.Sprintf("CompletionSchedule is not a valid cron spec (%q): %v", cfg.CompletionSchedule, err))
	}

	if cfg.IsProduction() && !cfg.AuthEnabled() {
		errors = append(errors, "JWTSecret must be set in production")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"app_env", cfg.AppEnv,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_addr", cfg.RedisAddr,
		"redis_db", cfg.RedisDB,
		"venue_cache_ttl", cfg.VenueCacheTTL,
		"port", cfg.Port,
		"auth_enabled", cfg.AuthEnabled(),
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"venue_lock_ttl", cfg.VenueLockTTL,
		"completion_schedule", cfg.CompletionSchedule,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func (cfg *Config) GracefulShutdown(ctx context.Context) {
	cfg.Client.GracefulShutdown(ctx, cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = MinPaginationLimit
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
