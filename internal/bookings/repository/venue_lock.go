package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/config"
	mongodb "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/db/mongo"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// VenueLockRepository holds advisory locks on venues. A lock is a document
// whose _id is derived from the venue key; the unique _id is what excludes
// concurrent writers.
type VenueLockRepository interface {
	// Acquire returns bookingserrors.ErrVenueLocked when another owner holds an
	// unexpired lock.
	Acquire(ctx context.Context, lock *model.VenueLock) error
	Release(ctx context.Context, lockID, owner string) error
}

type mongoVenueLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoVenueLockRepository(cfg *config.Config) VenueLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVenueLockRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.CollectionVenueLocks),
	}
}

func (r *mongoVenueLockRepository) Acquire(ctx context.Context, lock *model.VenueLock) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()

	// The TTL monitor only runs once a minute, so stale locks are cleared here.
	if _, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":        lock.ID,
		"expires_at": bson.M{"$lte": now},
	}); err != nil {
		return fmt.Errorf("failed to clear expired venue lock: %w", err)
	}

	lock.CreatedAt = now
	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongodb.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrVenueLocked, lock.VenueKey)
		}
		return fmt.Errorf("failed to acquire venue lock: %w", err)
	}
	return nil
}

// Release deletes the lock only if owner still holds it.
func (r *mongoVenueLockRepository) Release(ctx context.Context, lockID, owner string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner}); err != nil {
		return fmt.Errorf("failed to release venue lock: %w", err)
	}
	return nil
}
