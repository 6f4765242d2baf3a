package main

import (
	"context"
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/events"
	bookingshandler "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/handler"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/jobs"
	bookingsrepo "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/repository"
	bookingsservice "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/service"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/validator"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/conflicts"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/health"
	settingshandler "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/settings/handler"
	settingsrepo "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/settings/repository"
	settingsservice "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/settings/service"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/venues/cache"
	venueshandler "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/venues/handler"
	venuesrepo "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/venues/repository"
	venuesservice "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/venues/service"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/app"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/config"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/kafka"
	kafka_config "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/kafka/config"
	kafka_middleware "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/kafka/middleware"
)

const (
	ServiceName = "bookings"

	completionJobTimeout = time.Minute
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	cfg.Log.Info("Starting Bookings service")

	publisher, metrics := initPublisher(cfg)

	settingsService := settingsservice.NewSettingsService(settingsrepo.NewMongoSettingsRepository(cfg), cfg.Log)
	venueService := venuesservice.NewVenueService(
		venuesrepo.NewMongoVenueRepository(cfg),
		cache.NewRedisNameCache(cfg.Client.Redis, cfg.VenueCacheTTL),
		cfg.Log,
	)

	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	evaluator := conflicts.NewEvaluator(settingsService, venueService, bookingRepo)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		bookingsrepo.NewMongoVenueLockRepository(cfg),
		evaluator,
		publisher,
		validator.NewBookingValidator(cfg.Log),
		cfg,
	)

	completionJob := jobs.NewCompletionJob(bookingService, cfg.CompletionSchedule, completionJobTimeout, cfg.Log)
	if err := completionJob.Start(); err != nil {
		cfg.Log.Fatal("Failed to schedule completion job", "error", err)
	}

	var stats func() any
	if metrics != nil {
		stats = func() any { return metrics.Snapshot() }
	}
	healthHandler := health.NewHealthHandler(cfg.Log, stats,
		health.MongoCheck(cfg.Client.Mongo),
		health.RedisCheck(cfg.Client.Redis),
	)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(healthHandler,
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		venueshandler.NewVenueHandler(venueService, cfg.Log),
		settingshandler.NewSettingsHandler(settingsService, cfg.Log),
	)
	serverApp.OnShutdown("completion job", func(ctx context.Context) error {
		completionJob.Stop(ctx)
		return nil
	})
	serverApp.OnShutdown("event publisher", func(context.Context) error {
		return publisher.Close()
	})
	serverApp.Run()
}

// initPublisher returns a Kafka-backed publisher when brokers are configured
// and a no-op publisher otherwise.
func initPublisher(cfg *config.Config) (events.Publisher, *kafka_middleware.Metrics) {
	kafkaCfg, err := kafka_config.Load(config.NewViper())
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	if !kafkaCfg.Enabled() {
		cfg.Log.Warn("KAFKA_BROKERS is empty, booking events will not be published")
		return events.NewNoopPublisher(), nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	metrics := kafka_middleware.NewMetrics()
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware(metrics))

	return events.NewKafkaPublisher(producer, kafkaCfg.Source, kafkaCfg.PublishTimeout), metrics
}
