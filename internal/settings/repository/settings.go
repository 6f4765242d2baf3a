package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	settingserrors "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/settings/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/config"
	mongodb "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/db/mongo"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SettingsRepository interface {
	// GetConflictSettings returns settingserrors.ErrNotFound when the
	// singleton document has never been written.
	GetConflictSettings(ctx context.Context) (*model.ConflictSettings, error)
	UpsertConflictSettings(ctx context.Context, settings *model.ConflictSettings) error
}

type mongoSettingsRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSettingsRepository(cfg *config.Config) SettingsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSettingsRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.CollectionSettings),
	}
}

func (r *mongoSettingsRepository) GetConflictSettings(ctx context.Context) (*model.ConflictSettings, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var settings model.ConflictSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": model.ConflictSettingsID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, settingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find conflict settings: %w", err)
	}

	return &settings, nil
}

func (r *mongoSettingsRepository) UpsertConflictSettings(ctx context.Context, settings *model.ConflictSettings) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	settings.ID = model.ConflictSettingsID
	settings.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": model.ConflictSettingsID}, settings, opts); err != nil {
		return fmt.Errorf("failed to upsert conflict settings: %w", err)
	}
	return nil
}
