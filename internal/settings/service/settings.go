package service

import (
	"context"
	"errors"

	settingserrors "github.com/mediasezsec-droid/jamat-inventory-sub001/internal/settings/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/internal/settings/repository"
	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type SettingsService interface {
	// Get returns the effective settings, defaults included.
	Get(ctx context.Context) (*model.ConflictSettings, error)
	Update(ctx context.Context, update *model.ConflictSettingsUpdate, updatedBy string) (*model.ConflictSettings, error)
	// ConflictSettings returns the stored document as is, or
	// settingserrors.ErrNotFound.
	ConflictSettings(ctx context.Context) (*model.ConflictSettings, error)
}

type settingsService struct {
	repo     repository.SettingsRepository
	validate *validator.Validate
	log      *logger.Logger
}

func NewSettingsService(repo repository.SettingsRepository, log *logger.Logger) SettingsService {
	return &settingsService{
		repo:     repo,
		validate: validation.New(),
		log:      log,
	}
}

func (s *settingsService) ConflictSettings(ctx context.Context) (*model.ConflictSettings, error) {
	return s.repo.GetConflictSettings(ctx)
}

func (s *settingsService) Get(ctx context.Context) (*model.ConflictSettings, error) {
	settings, err := s.repo.GetConflictSettings(ctx)
	if errors.Is(err, settingserrors.ErrNotFound) {
		return model.DefaultConflictSettings(), nil
	}
	if err != nil {
		s.log.Error("failed to load conflict settings", "error", err)
		return nil, apperrors.DependencyUnavailable("settings store", err)
	}
	return withDefaults(settings), nil
}

func (s *settingsService) Update(ctx context.Context, update *model.ConflictSettingsUpdate, updatedBy string) (*model.ConflictSettings, error) {
	if update == nil || (update.EventDurationMinutes == nil && update.BufferMinutes == nil) {
		return nil, apperrors.InvalidInput("at least one of eventDurationMinutes or bufferMinutes is required")
	}
	if err := validation.Struct(s.validate, update); err != nil {
		return nil, validation.ToAppError(err)
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if update.EventDurationMinutes != nil {
		current.EventDurationMinutes = *update.EventDurationMinutes
	}
	if update.BufferMinutes != nil {
		buffer := *update.BufferMinutes
		current.BufferMinutes = &buffer
	}
	current.UpdatedBy = updatedBy

	if err := s.repo.UpsertConflictSettings(ctx, current); err != nil {
		s.log.Error("failed to save conflict settings", "error", err)
		return nil, apperrors.DependencyUnavailable("settings store", err)
	}

	s.log.Info("conflict settings updated",
		"event_duration_minutes", current.EventDurationMinutes,
		"buffer_minutes", *current.BufferMinutes,
		"updated_by", updatedBy,
	)
	return current, nil
}

// withDefaults fills fields that were never set so callers always see the
// effective policy.
func withDefaults(s *model.ConflictSettings) *model.ConflictSettings {
	out := *s
	if out.EventDurationMinutes <= 0 {
		out.EventDurationMinutes = model.DefaultEventDurationMinutes
	}
	if out.BufferMinutes == nil {
		buffer := model.DefaultBufferMinutes
		out.BufferMinutes = &buffer
	}
	return &out
}
