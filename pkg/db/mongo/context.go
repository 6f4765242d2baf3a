package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionBookings   = "Bookings"
	CollectionVenues     = "Venues"
	CollectionSettings   = "Settings"
	CollectionVenueLocks = "Venue_locks"
)

// WithTimeout bounds ctx by timeout unless ctx is a transaction session, which
// cannot be wrapped without losing the session. An earlier existing deadline
// is kept.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
