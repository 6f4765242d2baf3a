package model

import (
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/sanitizer"
)

const venueLockPrefix = "venue_lock_"

// VenueLock is an advisory lock document held while a booking touching the
// venue is being checked and written. Uniqueness of _id is the lock; the TTL
// index on expires_at reclaims locks left behind by crashed writers.
type VenueLock struct {
	ID        string    `bson:"_id" json:"id"`
	VenueKey  string    `bson:"venue_key" json:"venueKey"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// VenueLockID derives the lock document id for a canonical venue key. Keys that
// slug to the same value share a lock, which only ever serializes more.
func VenueLockID(venueKey string) string {
	slug := sanitizer.Slug(venueKey)
	if slug == "" {
		slug = venueKey
	}
	return venueLockPrefix + slug
}
