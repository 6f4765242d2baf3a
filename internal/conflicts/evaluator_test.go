package conflicts

import (
	"context"
	"errors"
	"testing"

	settingserrors "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/settings/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/civil"
	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSettings struct {
	conflictSettingsFunc func(ctx context.Context) (*model.ConflictSettings, error)
	calls                int
}

func (m *mockSettings) ConflictSettings(ctx context.Context) (*model.ConflictSettings, error) {
	m.calls++
	if m.conflictSettingsFunc != nil {
		return m.conflictSettingsFunc(ctx)
	}
	return nil, settingserrors.ErrNotFound
}

type mockCatalog struct {
	listNamesFunc func(ctx context.Context) ([]string, error)
	calls         int
}

func (m *mockCatalog) ListNames(ctx context.Context) ([]string, error) {
	m.calls++
	if m.listNamesFunc != nil {
		return m.listNamesFunc(ctx)
	}
	return []string{"Hall A", "Hall B", "Terrace"}, nil
}

// fakeFinder behaves like the repository: it filters stored bookings by day
// range, status and exclusion id.
type fakeFinder struct {
	bookings []*model.Booking
	err      error

	calls    int
	lastFrom civil.Date
	lastTo   civil.Date
}

func (f *fakeFinder) FindActiveInRange(_ context.Context, from, to civil.Date, excludeID string) ([]*model.Booking, error) {
	f.calls++
	f.lastFrom, f.lastTo = from, to
	if f.err != nil {
		return nil, f.err
	}

	var out []*model.Booking
	for _, b := range f.bookings {
		if b.Status == model.StatusCancelled || (excludeID != "" && b.ID == excludeID) {
			continue
		}
		if b.OccasionDate.Before(from) || b.OccasionDate.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func newBooking(t *testing.T, id, date, clock string, venues ...string) *model.Booking {
	t.Helper()
	d, err := civil.ParseDate(date)
	require.NoError(t, err)
	c, err := civil.ParseClock(clock)
	require.NoError(t, err)
	return &model.Booking{
		ID:           id,
		Title:        "Event " + id,
		Venues:       model.VenueList(venues),
		OccasionDate: d,
		OccasionTime: c,
		Status:       model.StatusBooked,
	}
}

func request(date, clock string, venues ...string) *model.ConflictCheckRequest {
	return &model.ConflictCheckRequest{
		OccasionDate: date,
		OccasionTime: clock,
		Venues:       model.VenueList(venues),
	}
}

func settingsWith(duration, buffer int) *mockSettings {
	return &mockSettings{
		conflictSettingsFunc: func(context.Context) (*model.ConflictSettings, error) {
			return &model.ConflictSettings{EventDurationMinutes: duration, BufferMinutes: &buffer}, nil
		},
	}
}

func TestEvaluateScenarios(t *testing.T) {
	tests := []struct {
		name         string
		proposalTime string
		wantType     model.ConflictType
		wantOccupied []string
	}{
		{name: "overlapping start is hard", proposalTime: "18:30", wantType: model.ConflictHard, wantOccupied: []string{"Hall A"}},
		{name: "same start is hard", proposalTime: "18:00", wantType: model.ConflictHard, wantOccupied: []string{"Hall A"}},
		{name: "inside buffer after end is soft", proposalTime: "19:30", wantType: model.ConflictSoft, wantOccupied: []string{"Hall A"}},
		{name: "ninety minutes after end is soft", proposalTime: "20:30", wantType: model.ConflictSoft, wantOccupied: []string{"Hall A"}},
		{name: "proposal ending inside existing buffer is soft", proposalTime: "16:30", wantType: model.ConflictSoft, wantOccupied: []string{"Hall A"}},
		{name: "beyond buffer is none", proposalTime: "22:00", wantType: model.ConflictNone, wantOccupied: []string{}},
		{name: "exactly buffer after end is none", proposalTime: "21:00", wantType: model.ConflictNone, wantOccupied: []string{}},
		{name: "ending exactly at existing buffer start is none", proposalTime: "15:00", wantType: model.ConflictNone, wantOccupied: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &fakeFinder{bookings: []*model.Booking{
				newBooking(t, "existing", "2025-03-10", "18:00", "Hall A"),
			}}
			e := NewEvaluator(&mockSettings{}, &mockCatalog{}, finder)

			result, err := e.Evaluate(context.Background(), request("2025-03-10", tt.proposalTime, "Hall A"))
			require.NoError(t, err)

			assert.Equal(t, tt.wantType, result.ConflictType)
			assert.Equal(t, tt.wantOccupied, result.OccupiedVenues)
			if tt.wantType == model.ConflictNone {
				assert.Empty(t, result.ConflictMessage)
				assert.Equal(t, []string{"Hall A", "Hall B", "Terrace"}, result.AvailableVenues)
			} else {
				assert.Contains(t, result.ConflictMessage, "18:00")
				assert.Equal(t, []string{"Hall B", "Terrace"}, result.AvailableVenues)
			}
		})
	}
}

func TestHardMessageMentionsExistingBooking(t *testing.T) {
	finder := &fakeFinder{bookings: []*model.Booking{
		newBooking(t, "existing", "2025-03-10", "18:00", "Hall A"),
	}}
	e := NewEvaluator(&mockSettings{}, &mockCatalog{}, finder)

	result, err := e.Evaluate(context.Background(), request("2025-03-10", "18:30", "Hall A"))
	require.NoError(t, err)

	assert.Equal(t, "Hard conflict: Hall A is already booked on 2025-03-10 at 18:00 (Event existing)", result.ConflictMessage)
}

func TestNoSelfConflictWhenExcluded(t *testing.T) {
	existing := newBooking(t, "b1", "2025-03-10", "18:00", "Hall A", "Hall B")
	finder := &fakeFinder{bookings: []*model.Booking{existing}}
	e := NewEvaluator(&mockSettings{}, &mockCatalog{}, finder)

	req := request("2025-03-10", "18:00", "Hall A", "Hall B")
	req.ExcludeBookingID = "b1"

	result, err := e.Evaluate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.ConflictNone, result.ConflictType)
	assert.Empty(t, result.OccupiedVenues)
}

func TestDetectSkipsExcludedAndCancelledCandidates(t *testing.T) {
	excluded := newBooking(t, "self", "2025-03-10", "18:00", "Hall A")
	cancelled := newBooking(t, "gone", "2025-03-10", "18:00", "Hall A")
	cancelled.Status = model.StatusCancelled

	p, err := ParseProposal(&model.ConflictCheckRequest{
		OccasionDate: "2025-03-10", OccasionTime: "18:00",
		Venues: model.VenueList{"Hall A"}, ExcludeBookingID: "self",
	})
	require.NoError(t, err)

	result := Detect(PolicyFrom(nil), p, []*model.Booking{excluded, cancelled, nil}, []string{"Hall A"})
	assert.Equal(t, model.ConflictNone, result.ConflictType)
	assert.Equal(t, []string{"Hall A"}, result.AvailableVenues)
}

func TestBypassImmunity(t *testing.T) {
	proposals := [][]string{
		{"na"},
		{"  HOUSE "},
		{"Self"},
		{"others", "na"},
		{"Hall A", "house"},
	}

	for _, venues := range proposals {
		settings := &mockSettings{}
		catalog := &mockCatalog{}
		finder := &fakeFinder{bookings: []*model.Booking{
			newBooking(t, "existing", "2025-03-10", "18:00", "Hall A", "house", "na"),
		}}
		e := NewEvaluator(settings, catalog, finder)

		result, err := e.Evaluate(context.Background(), request("2025-03-10", "18:00", venues...))
		require.NoError(t, err, venues)

		assert.Equal(t, model.ConflictNone, result.ConflictType, venues)
		assert.Empty(t, result.ConflictMessage)
		assert.Equal(t, []string{}, result.OccupiedVenues)
		assert.Equal(t, []string{"Hall A", "Hall B", "Terrace"}, result.AvailableVenues)
		assert.Zero(t, finder.calls, "bookings must not be queried for bypass venues")
		assert.Zero(t, settings.calls)
	}
}

func TestHardOverlapSymmetry(t *testing.T) {
	times := []string{"17:00", "17:01", "17:30", "18:00", "18:30", "18:59"}
	for _, existingAt := range times {
		for _, proposedAt := range times {
			finder := &fakeFinder{bookings: []*model.Booking{
				newBooking(t, "a", "2025-03-10", existingAt, "Hall A"),
			}}
			e := NewEvaluator(&mockSettings{}, &mockCatalog{}, finder)

			result, err := e.Evaluate(context.Background(), request("2025-03-10", proposedAt, "Hall A"))
			require.NoError(t, err)

			ea, _ := civil.ParseClock(existingAt)
			pa, _ := civil.ParseClock(proposedAt)
			gap := (ea.Hour*60 + ea.Minute) - (pa.Hour*60 + pa.Minute)
			if gap < 0 {
				gap = -gap
			}
			if gap < 60 {
				assert.Equal(t, model.ConflictHard, result.ConflictType, "existing %s proposed %s", existingAt, proposedAt)
				assert.Contains(t, result.OccupiedVenues, "Hall A")
			}
		}
	}
}

func TestDisjointVenuesNeverConflict(t *testing.T) {
	finder := &fakeFinder{bookings: []*model.Booking{
		newBooking(t, "b", "2025-03-10", "18:00", "Hall B"),
	}}
	e := NewEvaluator(&mockSettings{}, &mockCatalog{}, finder)

	result, err := e.Evaluate(context.Background(), request("2025-03-10", "18:00", "Hall A"))
	require.NoError(t, err)

	assert.Equal(t, model.ConflictNone, result.ConflictType)
	assert.Empty(t, result.OccupiedVenues)
	assert.Equal(t, []string{"Hall A", "Hall B", "Terrace"}, result.AvailableVenues)
}

func TestMultiVenueProposal(t *testing.T) {
	finder := &fakeFinder{bookings: []*model.Booking{
		newBooking(t, "a", "2025-03-10", "18:00", "Hall A"),
	}}
	e := NewEvaluator(&mockSettings{}, &mockCatalog{}, finder)

	result, err := e.Evaluate(context.Background(), request("2025-03-10", "18:30", "Hall A", "Hall B"))
	require.NoError(t, err)

	assert.Equal(t, model.ConflictHard, result.ConflictType)
	assert.Equal(t, []string{"Hall A"}, result.OccupiedVenues)
	assert.Contains(t, result.AvailableVenues, "Hall B")
	assert.Contains(t, result.AvailableVenues, "Terrace")
	assert.NotContains(t, result.AvailableVenues, "Hall A")
}

func TestVenueMatchingIsCanonical(t *testing.T) {
	finder := &fakeFinder{bookings: []*model.Booking{
		newBooking(t, "a", "2025-03-10", "18:00", "  hall   a"),
	}}
	e := NewEvaluator(&mockSettings{}, &mockCatalog{}, finder)

	result, err := e.Evaluate(context.Background(), request("2025-03-10", "18:30", "HALL A"))
	require.NoError(t, err)

	assert.Equal(t, model.ConflictHard, result.ConflictType)
	assert.Equal(t, []string{"Hall A"}, result.OccupiedVenues, "occupied venues use the catalog spelling")
	assert.Equal(t, "Hard conflict: Hall A is already booked on 2025-03-10 at 18:00 (Event a)", result.ConflictMessage)
}

func TestSoftMessageUsesCatalogSpelling(t *testing.T) {
	finder := &fakeFinder{bookings: []*model.Booking{
		newBooking(t, "a", "2025-03-10", "18:00", "Hall A"),
	}}
	e := NewEvaluator(&mockSettings{}, &mockCatalog{}, finder)

	result, err := e.Evaluate(context.Background(), request("2025-03-10", "19:30", "hall a"))
	require.NoError(t, err)

	assert.Equal(t, model.ConflictSoft, result.ConflictType)
	assert.Contains(t, result.ConflictMessage, "Buffer conflict: Hall A has a booking")
	assert.NotContains(t, result.ConflictMessage, "hall a")
}

func TestHardOutranksSoftAndEarliestWins(t *testing.T) {
	// Proposal 18:30-19:30 on [Hall A, Hall B]:
	//   soft: Hall A at 16:00 (ends 17:00, inside the proposal's buffer)
	//   hard: Hall B at 19:00, hard: Hall A at 18:15
	candidates := []*model.Booking{
		newBooking(t, "z-soft", "2025-03-10", "16:00", "Hall A"),
		newBooking(t, "a-late", "2025-03-10", "19:00", "Hall B"),
		newBooking(t, "m-early", "2025-03-10", "18:15", "Hall A"),
	}

	orders := [][]*model.Booking{
		{candidates[0], candidates[1], candidates[2]},
		{candidates[2], candidates[1], candidates[0]},
		{candidates[1], candidates[0], candidates[2]},
	}
	for _, order := range orders {
		e := NewEvaluator(&mockSettings{}, &mockCatalog{}, &fakeFinder{bookings: order})

		result, err := e.Evaluate(context.Background(), request("2025-03-10", "18:30", "Hall A", "Hall B"))
		require.NoError(t, err)

		assert.Equal(t, model.ConflictHard, result.ConflictType)
		assert.Contains(t, result.ConflictMessage, "18:15")
		assert.Contains(t, result.ConflictMessage, "Hall A")
		assert.Equal(t, []string{"Hall A", "Hall B"}, result.OccupiedVenues)
		assert.Equal(t, []string{"Terrace"}, result.AvailableVenues)
	}
}

func TestSoftTieBreakUsesEarliestStart(t *testing.T) {
	candidates := []*model.Booking{
		newBooking(t, "b", "2025-03-10", "16:30", "Hall A"),
		newBooking(t, "a", "2025-03-10", "16:00", "Hall A"),
	}
	e := NewEvaluator(&mockSettings{}, &mockCatalog{}, &fakeFinder{bookings: candidates})

	result, err := e.Evaluate(context.Background(), request("2025-03-10", "17:45", "Hall A"))
	require.NoError(t, err)

	assert.Equal(t, model.ConflictSoft, result.ConflictType)
	assert.Contains(t, result.ConflictMessage, "16:00")
	assert.Contains(t, result.ConflictMessage, "120-minute buffer")
}

func TestQueryWindowCrossesMidnight(t *testing.T) {
	finder := &fakeFinder{bookings: []*model.Booking{
		newBooking(t, "late", "2025-03-09", "23:30", "Hall A"),
	}}
	e := NewEvaluator(&mockSettings{}, &mockCatalog{}, finder)

	result, err := e.Evaluate(context.Background(), request("2025-03-10", "00:00", "Hall A"))
	require.NoError(t, err)

	assert.Equal(t, civil.Date{Year: 2025, Month: 3, Day: 9}, finder.lastFrom)
	assert.Equal(t, civil.Date{Year: 2025, Month: 3, Day: 10}, finder.lastTo)
	assert.Equal(t, model.ConflictHard, result.ConflictType)
}

func TestQueryWindowReachesNextDay(t *testing.T) {
	finder := &fakeFinder{bookings: []*model.Booking{
		newBooking(t, "early", "2025-03-11", "00:30", "Hall A"),
	}}
	e := NewEvaluator(&mockSettings{}, &mockCatalog{}, finder)

	result, err := e.Evaluate(context.Background(), request("2025-03-10", "23:00", "Hall A"))
	require.NoError(t, err)

	assert.Equal(t, civil.Date{Year: 2025, Month: 3, Day: 11}, finder.lastTo)
	assert.Equal(t, model.ConflictSoft, result.ConflictType)
}

func TestISODateIsConvertedToCivilDay(t *testing.T) {
	finder := &fakeFinder{bookings: []*model.Booking{
		newBooking(t, "existing", "2025-03-10", "18:00", "Hall A"),
	}}
	e := NewEvaluator(&mockSettings{}, &mockCatalog{}, finder)

	// 18:30 UTC on the 9th is 00:00 IST on the 10th.
	result, err := e.Evaluate(context.Background(), request("2025-03-09T18:30:00.000Z", "18:30", "Hall A"))
	require.NoError(t, err)
	assert.Equal(t, model.ConflictHard, result.ConflictType)
}

func TestSettingsDriveThePolicy(t *testing.T) {
	existing := func() *fakeFinder {
		return &fakeFinder{bookings: []*model.Booking{
			newBooking(t, "existing", "2025-03-10", "18:00", "Hall A"),
		}}
	}

	t.Run("zero buffer removes soft conflicts", func(t *testing.T) {
		e := NewEvaluator(settingsWith(60, 0), &mockCatalog{}, existing())
		result, err := e.Evaluate(context.Background(), request("2025-03-10", "19:30", "Hall A"))
		require.NoError(t, err)
		assert.Equal(t, model.ConflictNone, result.ConflictType)
	})

	t.Run("longer duration turns soft into hard", func(t *testing.T) {
		e := NewEvaluator(settingsWith(120, 120), &mockCatalog{}, existing())
		result, err := e.Evaluate(context.Background(), request("2025-03-10", "19:30", "Hall A"))
		require.NoError(t, err)
		assert.Equal(t, model.ConflictHard, result.ConflictType)
	})

	t.Run("unset duration falls back to sixty minutes", func(t *testing.T) {
		e := NewEvaluator(settingsWith(0, 120), &mockCatalog{}, existing())
		result, err := e.Evaluate(context.Background(), request("2025-03-10", "19:00", "Hall A"))
		require.NoError(t, err)
		assert.Equal(t, model.ConflictSoft, result.ConflictType)
	})
}

func TestInvalidInputIsRejectedBeforeCollaborators(t *testing.T) {
	tests := []struct {
		name string
		req  *model.ConflictCheckRequest
	}{
		{name: "nil request", req: nil},
		{name: "missing date", req: request("", "18:00", "Hall A")},
		{name: "missing time", req: request("2025-03-10", "", "Hall A")},
		{name: "missing venues", req: request("2025-03-10", "18:00")},
		{name: "blank venue", req: request("2025-03-10", "18:00", "Hall A", "  ")},
		{name: "malformed date", req: request("10/03/2025", "18:00", "Hall A")},
		{name: "impossible date", req: request("2025-02-30", "18:00", "Hall A")},
		{name: "malformed time", req: request("2025-03-10", "6pm", "Hall A")},
		{name: "hour out of range", req: request("2025-03-10", "24:00", "Hall A")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := &mockSettings{}
			catalog := &mockCatalog{}
			finder := &fakeFinder{}
			e := NewEvaluator(settings, catalog, finder)

			result, err := e.Evaluate(context.Background(), tt.req)
			assert.Nil(t, result)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput), "got %v", err)
			assert.Zero(t, settings.calls+catalog.calls+finder.calls)
		})
	}
}

func TestDependencyFailuresAreUnavailable(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name     string
		settings *mockSettings
		catalog  *mockCatalog
		finder   *fakeFinder
	}{
		{
			name: "settings store",
			settings: &mockSettings{conflictSettingsFunc: func(context.Context) (*model.ConflictSettings, error) {
				return nil, boom
			}},
			catalog: &mockCatalog{},
			finder:  &fakeFinder{},
		},
		{
			name:     "venue catalog",
			settings: &mockSettings{},
			catalog: &mockCatalog{listNamesFunc: func(context.Context) ([]string, error) {
				return nil, boom
			}},
			finder: &fakeFinder{},
		},
		{
			name:     "booking store",
			settings: &mockSettings{},
			catalog:  &mockCatalog{},
			finder:   &fakeFinder{err: boom},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(tt.settings, tt.catalog, tt.finder)

			result, err := e.Evaluate(context.Background(), request("2025-03-10", "18:00", "Hall A"))
			assert.Nil(t, result, "no partial results")
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeUnavailable))
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, tt.name, apperrors.AsAppError(err).Details["dependency"])
		})
	}
}

func TestBypassStillNeedsTheCatalog(t *testing.T) {
	catalog := &mockCatalog{listNamesFunc: func(context.Context) ([]string, error) {
		return nil, errors.New("timeout")
	}}
	e := NewEvaluator(&mockSettings{}, catalog, &fakeFinder{})

	_, err := e.Evaluate(context.Background(), request("2025-03-10", "18:00", "self"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnavailable))
}
