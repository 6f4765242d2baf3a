package validator

import (
	"testing"
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/civil"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		Title:        "Annual dinner",
		Venues:       model.VenueList{"Hall A"},
		OccasionDate: "2025-03-14",
		OccasionTime: "18:00",
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var errs validation.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidateRequest(t *testing.T) {
	v := NewBookingValidator(logger.NewNop())

	tests := []struct {
		name   string
		mutate func(*model.BookingRequest)
		field  string
	}{
		{"valid", func(*model.BookingRequest) {}, ""},
		{"missing title", func(r *model.BookingRequest) { r.Title = "" }, "title"},
		{"no venues", func(r *model.BookingRequest) { r.Venues = nil }, "venues"},
		{"bad date", func(r *model.BookingRequest) { r.OccasionDate = "14/03/2025" }, "occasionDate"},
		{"bad time", func(r *model.BookingRequest) { r.OccasionTime = "25:00" }, "occasionTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.ValidateRequest(req)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldsOf(t, err), tt.field)
		})
	}
}

func TestValidateUpdateChecksOnlyPresentFields(t *testing.T) {
	v := NewBookingValidator(logger.NewNop())

	title := "Renamed"
	assert.NoError(t, v.ValidateUpdate(&model.BookingUpdate{Title: &title}))

	clock := "7pm"
	assert.Contains(t, fieldsOf(t, v.ValidateUpdate(&model.BookingUpdate{OccasionTime: &clock})), "occasionTime")

	short := "x"
	assert.Contains(t, fieldsOf(t, v.ValidateUpdate(&model.BookingUpdate{Title: &short})), "title")
}

func TestValidateBooking(t *testing.T) {
	v := NewBookingValidator(logger.NewNop())
	date, err := civil.ParseDate("2025-03-14")
	require.NoError(t, err)
	clock, err := civil.ParseClock("18:00")
	require.NoError(t, err)

	b := &model.Booking{
		Title:        "Annual dinner",
		Venues:       model.VenueList{"Hall A", "Hall B"},
		VenueKeys:    []string{"hall a", "hall b"},
		OccasionDate: date,
		OccasionTime: clock,
		Status:       model.StatusBooked,
		CreatedAt:    time.Now(),
	}
	assert.NoError(t, v.Validate(b))

	b.VenueKeys = []string{"hall a"}
	assert.Contains(t, fieldsOf(t, v.Validate(b)), "venues")

	b.VenueKeys = []string{"hall a", "hall b"}
	b.OccasionDate = civil.Date{}
	assert.Contains(t, fieldsOf(t, v.Validate(b)), "occasionDate")

	b.OccasionDate = date
	b.Status = "PENDING"
	assert.Contains(t, fieldsOf(t, v.Validate(b)), "status")
}
