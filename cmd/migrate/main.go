package main

import (
	"context"
	"os"
	"time"

	mongoMigration "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/migrations/mongo"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/config"
)

const (
	JobName = "mongo-migration"

	migrationTimeout = 120 * time.Second
)

func main() {
	cfg := config.Load(JobName)
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	cfg.Log.Info("Starting Mongo migration job")

	if err := run(cfg); err != nil {
		cfg.Log.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	cfg.Log.Info("Migration completed successfully")
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()
	defer cfg.Client.GracefulShutdown(ctx, cfg.Log)

	return mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
}
