package errors

import "errors"

var (
	ErrNotFound = errors.New("conflict settings not found")

	ErrInvalidDuration = errors.New("event duration is out of range")

	ErrInvalidBuffer = errors.New("buffer is out of range")
)
