package errors

import "errors"

var (
	ErrNotFound = errors.New("venue not found")

	ErrInvalidID = errors.New("invalid venue ID format")

	ErrDuplicate = errors.New("venue already exists")
)
