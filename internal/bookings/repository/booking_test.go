package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/civil"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
)

func TestDateRangeIsInclusiveOfLastDay(t *testing.T) {
	from := civil.Date{Year: 2025, Month: time.March, Day: 9}
	to := civil.Date{Year: 2025, Month: time.March, Day: 10}

	r := dateRange(from, to)

	assert.Equal(t, from.Start(), r["$gte"])
	assert.Equal(t, civil.Date{Year: 2025, Month: time.March, Day: 11}.Start(), r["$lt"])
}

func TestBuildSearchFilter(t *testing.T) {
	day := civil.Date{Year: 2025, Month: time.March, Day: 10}

	tests := []struct {
		name   string
		filter SearchFilter
		want   bson.M
	}{
		{name: "empty", filter: SearchFilter{}, want: bson.M{}},
		{
			name:   "from only",
			filter: SearchFilter{From: day},
			want:   bson.M{"occasion_date": bson.M{"$gte": day.Start()}},
		},
		{
			name:   "to only",
			filter: SearchFilter{To: day},
			want:   bson.M{"occasion_date": bson.M{"$lt": day.AddDays(1).Start()}},
		},
		{
			name:   "venue and status",
			filter: SearchFilter{VenueKey: "hall a", Status: model.StatusBooked},
			want:   bson.M{"venue_keys": "hall a", "status": model.StatusBooked},
		},
		{
			name:   "full range",
			filter: SearchFilter{From: day, To: day},
			want:   bson.M{"occasion_date": dateRange(day, day)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildSearchFilter(tt.filter))
		})
	}
}
