package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestVenueListJSONAcceptsScalarAndArray(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    VenueList
		wantErr bool
	}{
		{name: "single string", input: `"Hall A"`, want: VenueList{"Hall A"}},
		{name: "array", input: `["Hall A","Hall B"]`, want: VenueList{"Hall A", "Hall B"}},
		{name: "empty string", input: `""`, want: VenueList{}},
		{name: "empty array", input: `[]`, want: VenueList{}},
		{name: "number", input: `42`, wantErr: true},
		{name: "mixed array", input: `["Hall A", 1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got VenueList
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVenueListBSONReadsLegacyScalar(t *testing.T) {
	data, err := bson.Marshal(bson.M{"venues": "Hall A"})
	require.NoError(t, err)

	var doc struct {
		Venues VenueList `bson:"venues"`
	}
	require.NoError(t, bson.Unmarshal(data, &doc))
	assert.Equal(t, VenueList{"Hall A"}, doc.Venues)

	data, err = bson.Marshal(bson.M{"venues": bson.A{"Hall A", "Hall B"}})
	require.NoError(t, err)
	require.NoError(t, bson.Unmarshal(data, &doc))
	assert.Equal(t, VenueList{"Hall A", "Hall B"}, doc.Venues)
}

func TestConflictSettingsDefaults(t *testing.T) {
	var nilSettings *ConflictSettings
	assert.Equal(t, 60*time.Minute, nilSettings.Duration())
	assert.Equal(t, 120*time.Minute, nilSettings.Buffer())

	empty := &ConflictSettings{}
	assert.Equal(t, 60*time.Minute, empty.Duration())
	assert.Equal(t, 120*time.Minute, empty.Buffer())

	zero := 0
	custom := &ConflictSettings{EventDurationMinutes: 90, BufferMinutes: &zero}
	assert.Equal(t, 90*time.Minute, custom.Duration())
	assert.Equal(t, time.Duration(0), custom.Buffer())
}

func TestBookingUpdateReschedules(t *testing.T) {
	title := "Nikah"
	assert.False(t, (&BookingUpdate{Title: &title}).Reschedules())
	assert.True(t, (&BookingUpdate{}).IsEmpty())

	at := "19:00"
	assert.True(t, (&BookingUpdate{OccasionTime: &at}).Reschedules())
}

func TestVenueLockID(t *testing.T) {
	assert.Equal(t, "venue_lock_hall_a", VenueLockID("hall a"))
	assert.Equal(t, "venue_lock_#", VenueLockID("#"))
}

func TestConflictSeverityAndHasConflict(t *testing.T) {
	assert.Less(t, ConflictNone.Severity(), ConflictSoft.Severity())
	assert.Less(t, ConflictSoft.Severity(), ConflictHard.Severity())
	assert.Equal(t, 0, ConflictType("").Severity())

	var missing *ConflictResult
	assert.False(t, missing.HasConflict())
	assert.False(t, (&ConflictResult{ConflictType: ConflictNone}).HasConflict())
	assert.True(t, (&ConflictResult{ConflictType: ConflictSoft}).HasConflict())
	assert.True(t, (&ConflictResult{ConflictType: ConflictHard}).HasConflict())
}

func TestBookingIsActive(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusBooked}).IsActive())
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Booking{Status: StatusCompleted}).IsActive())
}
