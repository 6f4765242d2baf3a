package conflicts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	settingserrors "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/settings/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/civil"
	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/venue"
)

// SettingsProvider returns the current conflict policy. It returns
// settingserrors.ErrNotFound when nothing has been configured yet.
type SettingsProvider interface {
	ConflictSettings(ctx context.Context) (*model.ConflictSettings, error)
}

type VenueCatalog interface {
	ListNames(ctx context.Context) ([]string, error)
}

// BookingFinder returns the non-cancelled bookings whose occasion date lies in
// the inclusive range [from, to], leaving out excludeID when it is set.
type BookingFinder interface {
	FindActiveInRange(ctx context.Context, from, to civil.Date, excludeID string) ([]*model.Booking, error)
}

// Evaluator decides whether a proposed booking collides with existing ones.
// It holds no mutable state and never writes.
type Evaluator struct {
	settings SettingsProvider
	catalog  VenueCatalog
	bookings BookingFinder
}

func NewEvaluator(settings SettingsProvider, catalog VenueCatalog, bookings BookingFinder) *Evaluator {
	return &Evaluator{
		settings: settings,
		catalog:  catalog,
		bookings: bookings,
	}
}

// Proposal is a parsed, canonicalized conflict check request.
type Proposal struct {
	Date             civil.Date
	Time             civil.Clock
	Venues           *venue.Set
	ExcludeBookingID string
}

func (p *Proposal) Start() time.Time {
	return p.Date.At(p.Time)
}

// ParseProposal validates a raw request. Every failure is an InvalidInput
// AppError.
func ParseProposal(req *model.ConflictCheckRequest) (*Proposal, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("conflict check request is required")
	}

	var missing []string
	if strings.TrimSpace(req.OccasionDate) == "" {
		missing = append(missing, "occasionDate")
	}
	if strings.TrimSpace(req.OccasionTime) == "" {
		missing = append(missing, "occasionTime")
	}
	venues, err := venue.ParseSet(req.Venues)
	if err != nil {
		return nil, apperrors.InvalidInput("venues must not contain blank entries")
	}
	if venues.Len() == 0 {
		missing = append(missing, "venues")
	}
	if len(missing) > 0 {
		return nil, apperrors.InvalidInput("missing required fields: " + strings.Join(missing, ", ")).
			WithDetails(map[string]any{"fields": missing})
	}

	date, err := civil.ParseDate(req.OccasionDate)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error()).WithDetails(map[string]any{"field": "occasionDate"})
	}
	clock, err := civil.ParseClock(req.OccasionTime)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error()).WithDetails(map[string]any{"field": "occasionTime"})
	}

	return &Proposal{
		Date:             date,
		Time:             clock,
		Venues:           venues,
		ExcludeBookingID: strings.TrimSpace(req.ExcludeBookingID),
	}, nil
}

// Evaluate parses req and evaluates it.
func (e *Evaluator) Evaluate(ctx context.Context, req *model.ConflictCheckRequest) (*model.ConflictResult, error) {
	proposal, err := ParseProposal(req)
	if err != nil {
		return nil, err
	}
	return e.EvaluateProposal(ctx, proposal)
}

// EvaluateProposal loads one settings snapshot and the venue catalog, fetches
// candidates for the relevant day window and classifies the proposal.
func (e *Evaluator) EvaluateProposal(ctx context.Context, p *Proposal) (*model.ConflictResult, error) {
	if p.Venues.AnyBypass() {
		catalog, err := e.loadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		return bypassResult(catalog), nil
	}

	settings, err := e.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := e.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	policy := PolicyFrom(settings)
	from, to := policy.QueryWindow(policy.IntervalAt(p.Start()))

	candidates, err := e.bookings.FindActiveInRange(ctx, from, to, p.ExcludeBookingID)
	if err != nil {
		return nil, apperrors.DependencyUnavailable("booking store", err)
	}

	return Detect(policy, p, candidates, catalog), nil
}

// Policy returns the policy currently in force.
func (e *Evaluator) Policy(ctx context.Context) (Policy, error) {
	settings, err := e.loadSettings(ctx)
	if err != nil {
		return Policy{}, err
	}
	return PolicyFrom(settings), nil
}

func (e *Evaluator) loadSettings(ctx context.Context) (*model.ConflictSettings, error) {
	settings, err := e.settings.ConflictSettings(ctx)
	if errors.Is(err, settingserrors.ErrNotFound) || (err == nil && settings == nil) {
		return model.DefaultConflictSettings(), nil
	}
	if err != nil {
		return nil, apperrors.DependencyUnavailable("settings store", err)
	}
	return settings, nil
}

func (e *Evaluator) loadCatalog(ctx context.Context) ([]string, error) {
	names, err := e.catalog.ListNames(ctx)
	if err != nil {
		return nil, apperrors.DependencyUnavailable("venue catalog", err)
	}
	return names, nil
}

// Detect classifies p against candidates. Candidates are visited in order of
// start instant, then id, so the reported message always describes the
// earliest conflict of the highest severity found.
func Detect(policy Policy, p *Proposal, candidates []*model.Booking, catalog []string) *model.ConflictResult {
	ordered := make([]*model.Booking, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.Status == model.StatusCancelled {
			continue
		}
		if p.ExcludeBookingID != "" && c.ID == p.ExcludeBookingID {
			continue
		}
		ordered = append(ordered, c)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := ordered[i].StartAt(), ordered[j].StartAt()
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return ordered[i].ID < ordered[j].ID
	})

	known := catalogSet(catalog)
	proposed := policy.IntervalAt(p.Start())
	occupied := venue.NewSet()
	conflictType := model.ConflictNone
	message := ""

	for _, c := range ordered {
		existing := policy.IntervalAt(c.StartAt())
		if !proposed.BufferOverlaps(existing) {
			continue
		}

		common := p.Venues.Intersect(candidateVenues(c))
		if common.Len() == 0 {
			continue
		}
		occupied.Union(common)

		found := model.ConflictSoft
		if proposed.Overlaps(existing) {
			found = model.ConflictHard
		}
		if found.Severity() <= conflictType.Severity() {
			continue
		}
		conflictType = found
		names := displayNames(common, known)
		if found == model.ConflictHard {
			message = hardMessage(names, c)
		} else {
			message = softMessage(names, c, policy)
		}
	}

	return &model.ConflictResult{
		ConflictType:    conflictType,
		ConflictMessage: message,
		OccupiedVenues:  displayNames(occupied, known),
		AvailableVenues: available(known, occupied),
	}
}

func bypassResult(catalog []string) *model.ConflictResult {
	return &model.ConflictResult{
		ConflictType:    model.ConflictNone,
		ConflictMessage: "",
		OccupiedVenues:  []string{},
		AvailableVenues: catalogSet(catalog).Names(),
	}
}

// candidateVenues reads the stored display names and falls back to venue_keys
// for documents that only carry keys. Blank legacy entries are ignored.
func candidateVenues(b *model.Booking) *venue.Set {
	set := venue.NewSet()
	for _, raw := range b.Venues {
		if id, err := venue.New(raw); err == nil {
			set.Add(id)
		}
	}
	if set.Len() == 0 {
		for _, key := range b.VenueKeys {
			if id, err := venue.New(key); err == nil {
				set.Add(id)
			}
		}
	}
	return set
}

func catalogSet(names []string) *venue.Set {
	set := venue.NewSet()
	for _, raw := range names {
		if id, err := venue.New(raw); err == nil {
			set.Add(id)
		}
	}
	return set
}

// displayNames renders occupied venues sorted by key, spelled the way the
// catalog spells them when the catalog knows them.
func displayNames(occupied, catalog *venue.Set) []string {
	byKey := make(map[string]venue.ID, catalog.Len())
	for _, id := range catalog.IDs() {
		byKey[id.Key()] = id
	}

	display := venue.NewSet()
	for _, id := range occupied.IDs() {
		if known, ok := byKey[id.Key()]; ok {
			display.Add(known)
			continue
		}
		display.Add(id)
	}
	return display.SortedNames()
}

func available(catalog, occupied *venue.Set) []string {
	out := []string{}
	for _, id := range catalog.IDs() {
		if !occupied.Contains(id) {
			out = append(out, id.Name())
		}
	}
	return out
}

func hardMessage(venues []string, c *model.Booking) string {
	return fmt.Sprintf("Hard conflict: %s is already booked on %s at %s%s",
		strings.Join(venues, ", "), c.OccasionDate, c.OccasionTime, titleSuffix(c))
}

func softMessage(venues []string, c *model.Booking, policy Policy) string {
	return fmt.Sprintf("Buffer conflict: %s has a booking on %s at %s%s within the %d-minute buffer",
		strings.Join(venues, ", "), c.OccasionDate, c.OccasionTime, titleSuffix(c), int(policy.Buffer.Minutes()))
}

func titleSuffix(c *model.Booking) string {
	if c.Title == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", c.Title)
}
