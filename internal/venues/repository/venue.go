package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	venueserrors "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/venues/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/config"
	mongodb "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/db/mongo"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VenueRepository interface {
	Create(ctx context.Context, v *model.Venue) error
	FindAll(ctx context.Context) ([]*model.Venue, error)
	FindByID(ctx context.Context, id string) (*model.Venue, error)
	Delete(ctx context.Context, id string) error
}

type mongoVenueRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoVenueRepository(cfg *config.Config) VenueRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVenueRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.CollectionVenues),
	}
}

// Create relies on the unique index on key to reject duplicates.
func (r *mongoVenueRepository) Create(ctx context.Context, v *model.Venue) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	v.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, v)
	if err != nil {
		if mongodb.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", venueserrors.ErrDuplicate, v.Name)
		}
		return fmt.Errorf("failed to create venue: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		v.ID = oid.Hex()
	}
	return nil
}

// FindAll returns the whole catalog ordered by creation, which is the order
// availability lists are reported in.
func (r *mongoVenueRepository) FindAll(ctx context.Context) ([]*model.Venue, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues: %w", err)
	}
	defer cursor.Close(ctx)

	venues := []*model.Venue{}
	if err := cursor.All(ctx, &venues); err != nil {
		return nil, fmt.Errorf("failed to decode venues: %w", err)
	}
	return venues, nil
}

func (r *mongoVenueRepository) FindByID(ctx context.Context, id string) (*model.Venue, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", venueserrors.ErrInvalidID, id)
	}

	var v model.Venue
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", venueserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find venue: %w", err)
	}
	return &v, nil
}

func (r *mongoVenueRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", venueserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", venueserrors.ErrNotFound, id)
	}
	return nil
}
