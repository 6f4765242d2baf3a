package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/civil"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/config"
	mongodb "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/db/mongo"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchFilter narrows a listing. Zero fields do not filter.
type SearchFilter struct {
	From     civil.Date
	To       civil.Date
	VenueKey string
	Status   model.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	// Update rewrites the editable fields of a booking that is still in
	// expected. Status never changes here; it returns
	// bookingserrors.ErrStatusChanged when the stored status differs.
	Update(ctx context.Context, id string, expected model.BookingStatus, booking *model.Booking) error
	// UpdateStatus moves a booking from one status to another and returns
	// bookingserrors.ErrStatusChanged when it is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error
	// FindActiveInRange returns non-cancelled bookings whose occasion date lies
	// in [from, to], leaving out excludeID when set.
	FindActiveInRange(ctx context.Context, from, to civil.Date, excludeID string) ([]*model.Booking, error)
	Search(ctx context.Context, filter SearchFilter, limit int, offset int64) ([]*model.Booking, error)
	CountSearch(ctx context.Context, filter SearchFilter) (int64, error)
	// FindBookedBefore returns up to limit BOOKED bookings dated before the
	// given instant, oldest first.
	FindBookedBefore(ctx context.Context, before time.Time, limit int) ([]*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongodb.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.CollectionBookings),
		txManager:  mongodb.NewTransactionManager(cfg.Client.Mongo),
	}
}

var chronological = bson.D{
	{Key: "occasion_date", Value: 1},
	{Key: "occasion_time", Value: 1},
	{Key: "_id", Value: 1},
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{}, limit, offset)
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{})
}

func (r *mongoBookingRepository) Update(ctx context.Context, id string, expected model.BookingStatus, booking *model.Booking) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"title":         booking.Title,
			"host_name":     booking.HostName,
			"venues":        booking.Venues,
			"venue_keys":    booking.VenueKeys,
			"occasion_date": booking.OccasionDate,
			"occasion_time": booking.OccasionTime,
			"notes":         booking.Notes,
			"updated_at":    booking.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID, "status": expected}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if exists == 0 {
		return bookingserrors.ErrNotFound
	}
	return fmt.Errorf("%w: %s", bookingserrors.ErrStatusChanged, id)
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": from},
		bson.M{"$set": bson.M{
			"status":     to,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", bookingserrors.ErrStatusChanged, id)
	}
	return nil
}

func (r *mongoBookingRepository) FindActiveInRange(ctx context.Context, from, to civil.Date, excludeID string) ([]*model.Booking, error) {
	filter := bson.M{
		"occasion_date": dateRange(from, to),
		"status":        bson.M{"$ne": model.StatusCancelled},
	}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}
	return r.find(ctx, filter, 0, 0)
}

func (r *mongoBookingRepository) Search(ctx context.Context, filter SearchFilter, limit int, offset int64) ([]*model.Booking, error) {
	return r.find(ctx, buildSearchFilter(filter), limit, offset)
}

func (r *mongoBookingRepository) CountSearch(ctx context.Context, filter SearchFilter) (int64, error) {
	return r.count(ctx, buildSearchFilter(filter))
}

func (r *mongoBookingRepository) FindBookedBefore(ctx context.Context, before time.Time, limit int) ([]*model.Booking, error) {
	filter := bson.M{
		"status":        model.StatusBooked,
		"occasion_date": bson.M{"$lt": before},
	}
	return r.find(ctx, filter, limit, 0)
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(chronological)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// dateRange matches occasion dates stored at civil midnight between from and
// to inclusive.
func dateRange(from, to civil.Date) bson.M {
	return bson.M{
		"$gte": from.Start(),
		"$lt":  to.AddDays(1).Start(),
	}
}

func buildSearchFilter(f SearchFilter) bson.M {
	filter := bson.M{}

	switch {
	case !f.From.IsZero() && !f.To.IsZero():
		filter["occasion_date"] = dateRange(f.From, f.To)
	case !f.From.IsZero():
		filter["occasion_date"] = bson.M{"$gte": f.From.Start()}
	case !f.To.IsZero():
		filter["occasion_date"] = bson.M{"$lt": f.To.AddDays(1).Start()}
	}

	if f.VenueKey != "" {
		filter["venue_keys"] = f.VenueKey
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}
