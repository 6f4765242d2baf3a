package model

import "time"

const (
	ConflictSettingsID = "conflict"

	DefaultEventDurationMinutes = 60
	DefaultBufferMinutes        = 120

	MinEventDurationMinutes = 15
	MaxEventDurationMinutes = 1440
	MaxBufferMinutes        = 1440
)

// ConflictSettings is the singleton policy document read by every conflict
// evaluation. BufferMinutes is a pointer because zero is a legal buffer while
// an absent field means "use the default".
type ConflictSettings struct {
	ID                   string    `json:"-" bson:"_id"`
	EventDurationMinutes int       `json:"eventDurationMinutes" bson:"event_duration_minutes,omitempty"`
	BufferMinutes        *int      `json:"bufferMinutes" bson:"buffer_minutes,omitempty"`
	UpdatedBy            string    `json:"updatedBy,omitempty" bson:"updated_by,omitempty"`
	UpdatedAt            time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// DefaultConflictSettings returns the policy applied when nothing is stored.
func DefaultConflictSettings() *ConflictSettings {
	buffer := DefaultBufferMinutes
	return &ConflictSettings{
		ID:                   ConflictSettingsID,
		EventDurationMinutes: DefaultEventDurationMinutes,
		BufferMinutes:        &buffer,
	}
}

func (s *ConflictSettings) Duration() time.Duration {
	if s == nil || s.EventDurationMinutes <= 0 {
		return DefaultEventDurationMinutes * time.Minute
	}
	return time.Duration(s.EventDurationMinutes) * time.Minute
}

func (s *ConflictSettings) Buffer() time.Duration {
	if s == nil || s.BufferMinutes == nil || *s.BufferMinutes < 0 {
		return DefaultBufferMinutes * time.Minute
	}
	return time.Duration(*s.BufferMinutes) * time.Minute
}

type ConflictSettingsUpdate struct {
	EventDurationMinutes *int `json:"eventDurationMinutes,omitempty" validate:"omitnil,min=15,max=1440"`
	BufferMinutes        *int `json:"bufferMinutes,omitempty" validate:"omitnil,min=0,max=1440"`
}
