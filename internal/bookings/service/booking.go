package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/events"
	bookingserrors "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/repository"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/bookings/validator"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/conflicts"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/civil"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/config"
	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/sanitizer"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/validation"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/venue"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	completionBatchSize = 500
	systemActor         = "system"
)

// WriteOptions carries per-request context for mutations.
type WriteOptions struct {
	Actor     string
	RequestID string
	// AllowBufferConflict admits a write whose only conflict is a soft one.
	AllowBufferConflict bool
}

// SearchQuery holds raw search parameters. Empty fields do not filter.
type SearchQuery struct {
	From   string
	To     string
	Venue  string
	Status string
}

type BookingService interface {
	CheckConflicts(ctx context.Context, req *model.ConflictCheckRequest) (*model.ConflictResult, error)
	Create(ctx context.Context, req *model.BookingRequest, opts WriteOptions) (*model.BookingResult, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Search(ctx context.Context, query SearchQuery, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, update *model.BookingUpdate, opts WriteOptions) (*model.BookingResult, error)
	Cancel(ctx context.Context, id string, opts WriteOptions) (*model.Booking, error)
	// CompletePast marks BOOKED bookings whose event window ended by now as
	// COMPLETED and returns how many were moved.
	CompletePast(ctx context.Context, now time.Time) (int, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.VenueLockRepository
	evaluator *conflicts.Evaluator
	publisher events.Publisher
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.VenueLockRepository,
	evaluator *conflicts.Evaluator,
	publisher events.Publisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		evaluator: evaluator,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *bookingService) CheckConflicts(ctx context.Context, req *model.ConflictCheckRequest) (*model.ConflictResult, error) {
	result, err := s.evaluator.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cfg.Log.Debug("Conflict check evaluated",
		"conflict_type", result.ConflictType,
		"occupied", len(result.OccupiedVenues),
	)
	return result, nil
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest, opts WriteOptions) (*model.BookingResult, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("booking request is required")
	}
	sanitizeRequest(req)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, validation.ToAppError(err)
	}

	proposal, err := conflicts.ParseProposal(&model.ConflictCheckRequest{
		OccasionDate: req.OccasionDate,
		OccasionTime: req.OccasionTime,
		Venues:       req.Venues,
	})
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		Title:        req.Title,
		HostName:     req.HostName,
		Venues:       proposal.Venues.Names(),
		VenueKeys:    proposal.Venues.Keys(),
		OccasionDate: proposal.Date,
		OccasionTime: proposal.Time,
		Status:       model.StatusBooked,
		Notes:        req.Notes,
		CreatedBy:    opts.Actor,
	}
	if err := s.validator.Validate(booking); err != nil {
		return nil, validation.ToAppError(err)
	}

	var result *model.ConflictResult
	err = s.withVenueLocks(ctx, proposal.Venues, func() error {
		result, err = s.evaluator.EvaluateProposal(ctx, proposal)
		if err != nil {
			return err
		}
		if err := admit(result, opts.AllowBufferConflict); err != nil {
			return err
		}
		return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := s.repo.Create(sessCtx, booking); err != nil {
				return apperrors.DependencyUnavailable("booking store", err)
			}
			return nil
		})
	})
	if err != nil {
		s.logWriteFailure("Failed to create booking", err, "venues", booking.VenueKeys)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"venues", booking.VenueKeys,
		"occasion_date", booking.OccasionDate.String(),
		"occasion_time", booking.OccasionTime.String(),
		"conflict_type", result.ConflictType,
	)
	s.publish(ctx, events.BookingCreated, booking, opts.Actor, opts.RequestID)
	return &model.BookingResult{Booking: booking, Conflict: result}, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapFindError(id, err)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return s.list(ctx, "list",
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx) },
		func(ctx context.Context) ([]*model.Booking, error) { return s.repo.FindAll(ctx, limit, offset) },
	)
}

func (s *bookingService) Search(ctx context.Context, query SearchQuery, limit int, offset int64) ([]*model.Booking, int64, error) {
	filter, err := parseSearch(query)
	if err != nil {
		return nil, 0, err
	}

	bookings, count, err := s.list(ctx, "search",
		func(ctx context.Context) (int64, error) { return s.repo.CountSearch(ctx, filter) },
		func(ctx context.Context) ([]*model.Booking, error) { return s.repo.Search(ctx, filter, limit, offset) },
	)
	if err != nil {
		return nil, 0, err
	}

	s.cfg.Log.Debug("Booking search completed",
		"from", query.From,
		"to", query.To,
		"venue", filter.VenueKey,
		"count", len(bookings),
		"total_count", count,
	)
	return bookings, count, nil
}

// list runs the count and the page query in parallel.
func (s *bookingService) list(
	ctx context.Context,
	op string,
	countFn func(context.Context) (int64, error),
	findFn func(context.Context) ([]*model.Booking, error),
) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = countFn(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "op", op, "error", errCount)
			errCount = apperrors.DependencyUnavailable("booking store", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = findFn(ctx)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "op", op, "error", errFind)
			errFind = apperrors.DependencyUnavailable("booking store", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, update *model.BookingUpdate, opts WriteOptions) (*model.BookingResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if update == nil || update.IsEmpty() {
		return nil, apperrors.InvalidInput("update must change at least one field")
	}
	sanitizeUpdate(update)
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, validation.ToAppError(err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapFindError(id, err)
	}

	merged := *existing
	if update.Title != nil {
		merged.Title = *update.Title
	}
	if update.HostName != nil {
		merged.HostName = *update.HostName
	}
	if update.Notes != nil {
		merged.Notes = *update.Notes
	}

	if !update.Reschedules() {
		if err := s.validator.Validate(&merged); err != nil {
			return nil, validation.ToAppError(err)
		}
		if err := s.persistUpdate(ctx, id, existing.Status, &merged); err != nil {
			s.logWriteFailure("Failed to update booking", err, "id", id)
			return nil, err
		}
		s.cfg.Log.Info("Booking updated successfully", "id", id)
		s.publish(ctx, events.BookingUpdated, &merged, opts.Actor, opts.RequestID)
		return &model.BookingResult{Booking: &merged}, nil
	}

	if !existing.IsActive() {
		return nil, apperrors.Conflict(fmt.Sprintf("a %s booking cannot be rescheduled", strings.ToLower(string(existing.Status))))
	}

	check := &model.ConflictCheckRequest{
		OccasionDate:     existing.OccasionDate.String(),
		OccasionTime:     existing.OccasionTime.String(),
		Venues:           existing.Venues,
		ExcludeBookingID: existing.ID,
	}
	if update.OccasionDate != nil {
		check.OccasionDate = *update.OccasionDate
	}
	if update.OccasionTime != nil {
		check.OccasionTime = *update.OccasionTime
	}
	if update.Venues != nil {
		check.Venues = *update.Venues
	}

	proposal, err := conflicts.ParseProposal(check)
	if err != nil {
		return nil, err
	}
	merged.Venues = proposal.Venues.Names()
	merged.VenueKeys = proposal.Venues.Keys()
	merged.OccasionDate = proposal.Date
	merged.OccasionTime = proposal.Time
	if err := s.validator.Validate(&merged); err != nil {
		return nil, validation.ToAppError(err)
	}

	var result *model.ConflictResult
	err = s.withVenueLocks(ctx, proposal.Venues, func() error {
		result, err = s.evaluator.EvaluateProposal(ctx, proposal)
		if err != nil {
			return err
		}
		if err := admit(result, opts.AllowBufferConflict); err != nil {
			return err
		}
		return s.persistUpdate(ctx, id, model.StatusBooked, &merged)
	})
	if err != nil {
		s.logWriteFailure("Failed to reschedule booking", err, "id", id)
		return nil, err
	}

	s.cfg.Log.Info("Booking rescheduled successfully",
		"id", id,
		"venues", merged.VenueKeys,
		"occasion_date", merged.OccasionDate.String(),
		"occasion_time", merged.OccasionTime.String(),
		"conflict_type", result.ConflictType,
	)
	s.publish(ctx, events.BookingUpdated, &merged, opts.Actor, opts.RequestID)
	return &model.BookingResult{Booking: &merged, Conflict: result}, nil
}

// persistUpdate writes booking only while the stored status is still
// expected, so a concurrent cancel or completion is never undone.
func (s *bookingService) persistUpdate(ctx context.Context, id string, expected model.BookingStatus, booking *model.Booking) error {
	return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Update(sessCtx, id, expected, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			if errors.Is(err, bookingserrors.ErrStatusChanged) {
				return apperrors.Conflict("booking was modified by another request, reload and retry")
			}
			return apperrors.DependencyUnavailable("booking store", err)
		}
		return nil
	})
}

func (s *bookingService) Cancel(ctx context.Context, id string, opts WriteOptions) (*model.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapFindError(id, err)
	}

	switch existing.Status {
	case model.StatusCancelled:
		return existing, nil
	case model.StatusCompleted:
		return nil, apperrors.Conflict("a completed booking cannot be cancelled")
	}

	if err := s.repo.UpdateStatus(ctx, id, model.StatusBooked, model.StatusCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrStatusChanged) {
			return nil, apperrors.Conflict("booking was modified by another request, reload and retry")
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.DependencyUnavailable("booking store", err)
	}
	existing.Status = model.StatusCancelled

	s.cfg.Log.Info("Booking cancelled", "id", id, "actor", opts.Actor)
	s.publish(ctx, events.BookingCancelled, existing, opts.Actor, opts.RequestID)
	return existing, nil
}

func (s *bookingService) CompletePast(ctx context.Context, now time.Time) (int, error) {
	policy, err := s.evaluator.Policy(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := civil.DateOf(now).AddDays(1).Start()
	candidates, err := s.repo.FindBookedBefore(ctx, cutoff, completionBatchSize)
	if err != nil {
		return 0, apperrors.DependencyUnavailable("booking store", err)
	}

	completed := 0
	for _, b := range candidates {
		if !b.IsActive() || b.StartAt().Add(policy.Duration).After(now) {
			continue
		}
		if err := s.repo.UpdateStatus(ctx, b.ID, model.StatusBooked, model.StatusCompleted); err != nil {
			if errors.Is(err, bookingserrors.ErrStatusChanged) {
				continue
			}
			return completed, apperrors.DependencyUnavailable("booking store", err)
		}
		b.Status = model.StatusCompleted
		completed++
		s.publish(ctx, events.BookingCompleted, b, systemActor, "")
	}

	if completed > 0 {
		s.cfg.Log.Info("Completed past bookings", "count", completed, "scanned", len(candidates))
	}
	return completed, nil
}

// --- Helpers ---

// withVenueLocks runs fn while holding the advisory lock of every venue in
// venues. Locks are taken in sorted order so concurrent writers touching
// overlapping venue sets cannot deadlock. Bypass bookings take no locks.
func (s *bookingService) withVenueLocks(ctx context.Context, venues *venue.Set, fn func() error) error {
	if venues.AnyBypass() {
		return fn()
	}

	byID := make(map[string]string, venues.Len())
	for _, key := range venues.Keys() {
		id := model.VenueLockID(key)
		if _, ok := byID[id]; !ok {
			byID[id] = key
		}
	}
	lockIDs := make([]string, 0, len(byID))
	for id := range byID {
		lockIDs = append(lockIDs, id)
	}
	sort.Strings(lockIDs)

	owner := uuid.NewString()
	held := make([]string, 0, len(lockIDs))
	defer func() {
		releaseCtx := context.WithoutCancel(ctx)
		for _, id := range held {
			if err := s.lockRepo.Release(releaseCtx, id, owner); err != nil {
				s.cfg.Log.Warn("Failed to release venue lock", "lock_id", id, "error", err)
			}
		}
	}()

	now := time.Now().UTC()
	for _, id := range lockIDs {
		lock := &model.VenueLock{
			ID:        id,
			VenueKey:  byID[id],
			Owner:     owner,
			ExpiresAt: now.Add(s.cfg.VenueLockTTL),
			CreatedAt: now,
		}
		if err := s.lockRepo.Acquire(ctx, lock); err != nil {
			if errors.Is(err, bookingserrors.ErrVenueLocked) {
				return apperrors.Conflict("venue is being booked by another request, please retry").
					WithDetails(map[string]any{"venue": byID[id], "retryable": true})
			}
			return apperrors.DependencyUnavailable("booking store", err)
		}
		held = append(held, id)
	}

	return fn()
}

// admit rejects hard conflicts always and soft conflicts unless the caller
// accepted them.
func admit(result *model.ConflictResult, allowBuffer bool) error {
	if !result.HasConflict() {
		return nil
	}
	if allowBuffer && result.ConflictType == model.ConflictSoft {
		return nil
	}
	return conflictError(result)
}

func conflictError(result *model.ConflictResult) *apperrors.AppError {
	return apperrors.Conflict(result.ConflictMessage).WithDetails(map[string]any{
		"conflictType":      result.ConflictType,
		"conflictMessage":   result.ConflictMessage,
		"occupiedVenues":    result.OccupiedVenues,
		"availableVenues":   result.AvailableVenues,
		"bufferOverridable": result.ConflictType == model.ConflictSoft,
	})
}

func (s *bookingService) publish(ctx context.Context, eventType events.Type, booking *model.Booking, actor, requestID string) {
	event := events.Event{
		Type:          eventType,
		Booking:       booking,
		Actor:         actor,
		OccurredAt:    time.Now().UTC(),
		CorrelationID: requestID,
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"id", booking.ID,
			"error", err,
		)
	}
}

func (s *bookingService) mapFindError(id string, err error) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error("Failed to retrieve booking", "id", id, "error", err)
	return apperrors.DependencyUnavailable("booking store", err)
}

// logWriteFailure logs rejections at Info and store failures at Error.
func (s *bookingService) logWriteFailure(msg string, err error, keysAndValues ...any) {
	keysAndValues = append(keysAndValues, "error", err)
	if apperrors.HasCode(err, apperrors.CodeConflict) {
		s.cfg.Log.Info(msg, keysAndValues...)
		return
	}
	s.cfg.Log.Error(msg, keysAndValues...)
}

func parseSearch(query SearchQuery) (repository.SearchFilter, error) {
	var filter repository.SearchFilter
	var err error

	if strings.TrimSpace(query.From) != "" {
		if filter.From, err = civil.ParseDate(query.From); err != nil {
			return filter, apperrors.InvalidInput("from: " + err.Error())
		}
	}
	if strings.TrimSpace(query.To) != "" {
		if filter.To, err = civil.ParseDate(query.To); err != nil {
			return filter, apperrors.InvalidInput("to: " + err.Error())
		}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return filter, apperrors.InvalidInput("from must not be after to")
	}
	filter.VenueKey = venue.Key(query.Venue)
	if status := strings.ToUpper(strings.TrimSpace(query.Status)); status != "" {
		filter.Status = model.BookingStatus(status)
		if !filter.Status.IsValid() {
			return filter, apperrors.InvalidInput("status must be one of BOOKED, CANCELLED, COMPLETED")
		}
	}
	return filter, nil
}

func sanitizeRequest(req *model.BookingRequest) {
	req.Title = sanitizer.NormalizeText(req.Title)
	req.HostName = sanitizer.NormalizeText(req.HostName)
	req.Notes = strings.TrimSpace(req.Notes)
}

func sanitizeUpdate(u *model.BookingUpdate) {
	if u.Title != nil {
		title := sanitizer.NormalizeText(*u.Title)
		u.Title = &title
	}
	if u.HostName != nil {
		host := sanitizer.NormalizeText(*u.HostName)
		u.HostName = &host
	}
	if u.Notes != nil {
		notes := strings.TrimSpace(*u.Notes)
		u.Notes = &notes
	}
}
