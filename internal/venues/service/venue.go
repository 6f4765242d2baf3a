package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/venues/cache"
	venueserrors "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/venues/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/venues/repository"
	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/sanitizer"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/validation"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/venue"

	"github.com/go-playground/validator/v10"
)

type VenueService interface {
	List(ctx context.Context) ([]*model.Venue, error)
	Create(ctx context.Context, req *model.VenueRequest) (*model.Venue, error)
	Delete(ctx context.Context, id string) error
	// ListNames returns catalog display names in catalog order.
	ListNames(ctx context.Context) ([]string, error)
}

type venueService struct {
	repo     repository.VenueRepository
	cache    cache.NameCache
	validate *validator.Validate
	log      *logger.Logger
}

func NewVenueService(repo repository.VenueRepository, nameCache cache.NameCache, log *logger.Logger) VenueService {
	if nameCache == nil {
		nameCache = cache.NewNoopNameCache()
	}
	return &venueService{
		repo:     repo,
		cache:    nameCache,
		validate: validation.New(),
		log:      log,
	}
}

func (s *venueService) List(ctx context.Context) ([]*model.Venue, error) {
	venues, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("failed to list venues", "error", err)
		return nil, apperrors.DependencyUnavailable("venue catalog", err)
	}
	return venues, nil
}

func (s *venueService) ListNames(ctx context.Context) ([]string, error) {
	names, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warn("venue cache unavailable, reading from database", "error", err)
	}
	if ok {
		return names, nil
	}

	venues, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	names = make([]string, 0, len(venues))
	for _, v := range venues {
		names = append(names, v.Name)
	}
	names = sanitizer.NormalizeVenueNames(names)

	if err := s.cache.Set(ctx, names); err != nil {
		s.log.Warn("failed to populate venue cache", "error", err)
	}
	return names, nil
}

func (s *venueService) Create(ctx context.Context, req *model.VenueRequest) (*model.Venue, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("venue is required")
	}
	req.Name = sanitizer.CollapseSpace(req.Name)

	if err := validation.Struct(s.validate, req); err != nil {
		return nil, validation.ToAppError(err)
	}

	v := &model.Venue{
		Name:     req.Name,
		Key:      venue.Key(req.Name),
		Capacity: req.Capacity,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		if errors.Is(err, venueserrors.ErrDuplicate) {
			return nil, apperrors.Conflict(fmt.Sprintf("venue %q already exists", req.Name))
		}
		s.log.Error("failed to create venue", "name", req.Name, "error", err)
		return nil, apperrors.DependencyUnavailable("venue catalog", err)
	}

	s.invalidate(ctx)
	s.log.Info("venue created", "venue_id", v.ID, "name", v.Name)
	return v, nil
}

func (s *venueService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, venueserrors.ErrInvalidID):
			return apperrors.InvalidInput(fmt.Sprintf("invalid venue id: %s", id))
		case errors.Is(err, venueserrors.ErrNotFound):
			return apperrors.NotFoundWithID("Venue", id)
		}
		s.log.Error("failed to delete venue", "venue_id", id, "error", err)
		return apperrors.DependencyUnavailable("venue catalog", err)
	}

	s.invalidate(ctx)
	s.log.Info("venue deleted", "venue_id", id)
	return nil
}

func (s *venueService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("failed to invalidate venue cache", "error", err)
	}
}
