package model

import "time"

type Venue struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Key       string    `json:"key" bson:"key"`
	Capacity  int       `json:"capacity,omitempty" bson:"capacity,omitempty" validate:"omitempty,min=1,max=100000"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

type VenueRequest struct {
	Name     string `json:"name" validate:"required,venue_name,not_bypass,max=100"`
	Capacity int    `json:"capacity,omitempty" validate:"omitempty,min=1,max=100000"`
}
