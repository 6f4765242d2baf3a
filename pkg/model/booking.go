package model

import (
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/civil"
)

type BookingStatus string

const (
	StatusBooked    BookingStatus = "BOOKED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusBooked, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Booking is a venue-occupying reservation. Venues holds display names as
// entered; VenueKeys holds their canonical keys and is what queries match on.
type Booking struct {
	ID           string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title        string        `json:"title" bson:"title" validate:"required,min=2,max=200"`
	HostName     string        `json:"hostName,omitempty" bson:"host_name,omitempty" validate:"omitempty,max=100"`
	Venues       VenueList     `json:"venues" bson:"venues" validate:"required,min=1,max=20,dive,venue_name,max=100"`
	VenueKeys    []string      `json:"-" bson:"venue_keys" validate:"required,min=1,max=20"`
	OccasionDate civil.Date    `json:"occasionDate" bson:"occasion_date"`
	OccasionTime civil.Clock   `json:"occasionTime" bson:"occasion_time"`
	Status       BookingStatus `json:"status" bson:"status" validate:"required,oneof=BOOKED CANCELLED COMPLETED"`
	Notes        string        `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedBy    string        `json:"createdBy,omitempty" bson:"created_by,omitempty"`
	CreatedAt    time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updated_at"`
}

// StartAt is the absolute instant the booking begins.
func (b *Booking) StartAt() time.Time {
	return b.OccasionDate.At(b.OccasionTime)
}

func (b *Booking) IsActive() bool {
	return b.Status == StatusBooked
}

// BookingRequest is the inbound shape of a new booking. Date and time stay raw
// strings until the service parses them so malformed values surface as input
// errors rather than decode failures.
type BookingRequest struct {
	Title        string    `json:"title" validate:"required,min=2,max=200"`
	HostName     string    `json:"hostName,omitempty" validate:"omitempty,max=100"`
	Venues       VenueList `json:"venues" validate:"required,min=1,max=20,dive,venue_name,max=100"`
	OccasionDate string    `json:"occasionDate" validate:"required"`
	OccasionTime string    `json:"occasionTime" validate:"required"`
	Notes        string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type BookingUpdate struct {
	Title        *string    `json:"title,omitempty" validate:"omitnil,min=2,max=200"`
	HostName     *string    `json:"hostName,omitempty" validate:"omitnil,max=100"`
	Venues       *VenueList `json:"venues,omitempty" validate:"omitnil,min=1,max=20,dive,venue_name,max=100"`
	OccasionDate *string    `json:"occasionDate,omitempty"`
	OccasionTime *string    `json:"occasionTime,omitempty"`
	Notes        *string    `json:"notes,omitempty" validate:"omitnil,max=2000"`
}

// Reschedules reports whether applying the update can move the booking in time
// or space, which requires a fresh conflict check.
func (u *BookingUpdate) Reschedules() bool {
	return u.Venues != nil || u.OccasionDate != nil || u.OccasionTime != nil
}

func (u *BookingUpdate) IsEmpty() bool {
	return u.Title == nil && u.HostName == nil && u.Notes == nil && !u.Reschedules()
}

// BookingResult is returned by writes. Conflict is the evaluation the write was
// admitted under and is nil when no re-check was needed.
type BookingResult struct {
	Booking  *Booking        `json:"booking"`
	Conflict *ConflictResult `json:"conflict,omitempty"`
}
