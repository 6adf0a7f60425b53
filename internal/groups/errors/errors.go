package errors

import "errors"

var (
	ErrNotFound = errors.New("group not found")

	ErrInvalidID = errors.New("invalid group ID format")
)
