package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeTimeout      = "TIMEOUT"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInvalidInput = "INVALID_INPUT"
	CodeTooMany      = "RATE_LIMITED"
)

// AppError is the error every layer above the repositories speaks. Err holds
// the cause for logs and is never serialized.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) StatusCode() int { return e.HTTPStatus }

func (e *AppError) Response() ErrorResponse {
	return ErrorResponse{Code: e.Code, Message: e.Message, Details: e.Details}
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(e.Response())
	return data
}

// WithDetails replaces the details map and returns e for chaining.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func NotFoundWithID(resource, id string) *AppError {
	return New(CodeNotFound, resource+" not found", http.StatusNotFound).
		WithDetails(map[string]any{"resource": resource, "id": id})
}

// Validation is a well-formed request that breaks a field rule.
func Validation(message string, details map[string]any) *AppError {
	return New(CodeValidation, message, http.StatusUnprocessableEntity).WithDetails(details)
}

// InvalidInput is a request that is missing required fields or cannot be
// parsed at all.
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

func Internal(message string, err error) *AppError {
	e := New(CodeInternal, message, http.StatusInternalServerError)
	e.Err = err
	return e
}

func Timeout(message string) *AppError {
	return New(CodeTimeout, message, http.StatusGatewayTimeout)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooMany, message, http.StatusTooManyRequests)
}

// DependencyUnavailable reports that a collaborator the request depends on
// failed to answer. The caller may retry; the server does not.
func DependencyUnavailable(dependency string, err error) *AppError {
	e := New(CodeUnavailable, dependency+" is temporarily unavailable, please try again", http.StatusServiceUnavailable).
		WithDetails(map[string]any{"dependency": dependency})
	e.Err = err
	return e
}

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError returns the AppError in err's chain, or an opaque internal error
// wrapping err when there is none.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
