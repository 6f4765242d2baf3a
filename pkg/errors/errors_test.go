package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "booking not found"},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestConstructorsStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFoundWithID("Booking", "1"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("no"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("taken"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"dependency", DependencyUnavailable("booking store", nil), CodeUnavailable, http.StatusServiceUnavailable},
		{"rate limited", TooManyRequests("slow down"), CodeTooMany, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}

func TestDependencyUnavailableWrapsCause(t *testing.T) {
	cause := errors.New("server selection timeout")
	err := DependencyUnavailable("booking store", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "booking store", err.Details["dependency"])
	assert.Contains(t, err.Message, "try again")
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "12345")

	assert.Equal(t, "Booking not found", err.Message)
	assert.Equal(t, "12345", err.Details["id"])
	assert.Equal(t, "Booking", err.Details["resource"])
}

func TestAsAppErrorUnwrapsChains(t *testing.T) {
	appErr := Conflict("venue is being booked by another request")
	wrapped := fmt.Errorf("create booking: %w", appErr)

	assert.True(t, IsAppError(wrapped))
	assert.Same(t, appErr, AsAppError(wrapped))
	assert.True(t, HasCode(wrapped, CodeConflict))
	assert.False(t, HasCode(wrapped, CodeNotFound))

	plain := errors.New("regular error")
	assert.False(t, IsAppError(plain))
	result := AsAppError(plain)
	assert.Equal(t, CodeInternal, result.Code)
	assert.Same(t, plain, result.Err)
}

func TestAppError_ToJSON(t *testing.T) {
	err := NotFoundWithID("Booking", "12345")

	data := err.ToJSON()
	require.NotEmpty(t, data)
	assert.JSONEq(t,
		`{"code":"NOT_FOUND","message":"Booking not found","details":{"resource":"Booking","id":"12345"}}`,
		string(data))
}
