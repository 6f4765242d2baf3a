package config

import "time"

const (
	DefaultAppEnv = "development"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "jamat"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisDB       = 0
	DefaultVenueCacheTTL = 5 * time.Minute

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultJWTIssuer = "jamat-inventory"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultVenueLockTTL       = 30 * time.Second
	DefaultCompletionSchedule = "@every 15m"

	DefaultPaginationLimit = 100
	MinPaginationLimit     = 10
)
