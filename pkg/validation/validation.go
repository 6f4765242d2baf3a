// Package validation wraps go-playground/validator with the error shape used
// by every service: a list of field/message pairs reported under the JSON
// field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/venue"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// AppError converts the list into a 422 AppError whose details map each field
// to its message.
func (v ValidationErrors) AppError() *apperrors.AppError {
	details := make(map[string]any, len(v))
	for _, e := range v {
		details[e.Field] = e.Message
	}
	return apperrors.Validation(v.Error(), details)
}

// New returns a validator that reports fields by their json name and knows the
// venue_name and not_bypass rules.
func New() *validator.Validate {
	v := validator.New()
	mustRegister(v, "venue_name", validateVenueName)
	mustRegister(v, "not_bypass", validateNotBypass)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

func validateVenueName(fl validator.FieldLevel) bool {
	_, err := venue.New(fl.Field().String())
	return err == nil
}

func validateNotBypass(fl validator.FieldLevel) bool {
	return !venue.IsBypass(fl.Field().String())
}

// Struct validates s and returns ValidationErrors for rule violations.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return Translate(validationErrs)
		}
		return err
	}
	return nil
}

func Translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "venue_name":
			message = fmt.Sprintf("%s must be a non-blank venue name", err.Field())
		case "not_bypass":
			message = fmt.Sprintf("%s cannot be a reserved venue name (na, others, house, self)", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldPath(err),
			Message: message,
		})
	}

	return validationErrors
}

// fieldPath drops the top-level struct name from the namespace so nested and
// slice fields read as "venues[1]".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}

// ToAppError maps validation failures onto a 422 AppError and leaves other
// errors unchanged.
func ToAppError(err error) error {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.AppError()
	}
	return err
}
