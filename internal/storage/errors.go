package storage

import "errors"

var (
	// ErrNotFound is returned when a key has never been written or was cleared.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for empty or malformed keys.
	ErrInvalidInput = errors.New("invalid input")
)
