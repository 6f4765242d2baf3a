package validator

import (
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/civil"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/model"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	log.Debug("Booking validator initialized")
	return &BookingValidator{
		validate: validation.New(),
		logger:   log,
	}
}

// ValidateRequest checks field rules and that the date and time parse.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	if err := validation.Struct(v.validate, req); err != nil {
		return err
	}
	return checkOccasion(&req.OccasionDate, &req.OccasionTime)
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := validation.Struct(v.validate, update); err != nil {
		return err
	}
	return checkOccasion(update.OccasionDate, update.OccasionTime)
}

// Validate checks a fully assembled booking before it is written.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := validation.Struct(v.validate, booking); err != nil {
		return err
	}

	var errs validation.ValidationErrors
	if booking.OccasionDate.IsZero() {
		errs = append(errs, validation.ValidationError{Field: "occasionDate", Message: "occasionDate is required"})
	}
	if len(booking.VenueKeys) != len(booking.Venues) {
		errs = append(errs, validation.ValidationError{Field: "venues", Message: "venues contain duplicate entries"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkOccasion(date, clock *string) error {
	var errs validation.ValidationErrors
	if date != nil {
		if _, err := civil.ParseDate(*date); err != nil {
			errs = append(errs, validation.ValidationError{Field: "occasionDate", Message: err.Error()})
		}
	}
	if clock != nil {
		if _, err := civil.ParseClock(*clock); err != nil {
			errs = append(errs, validation.ValidationError{Field: "occasionTime", Message: err.Error()})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
