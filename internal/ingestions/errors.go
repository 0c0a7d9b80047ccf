package ingestions

import "errors"

var (
	// ErrNotFound indicates the ingestion job does not exist.
	ErrNotFound = errors.New("ingestion job not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
