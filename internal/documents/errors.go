package documents

import "errors"

var (
	// ErrNotFound indicates the document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingFile is returned when a create request carries no file part.
	ErrMissingFile = errors.New("document file is required")

	// ErrUploaderNotFound is returned when the authenticated uploader no longer exists.
	ErrUploaderNotFound = errors.New("user no longer exists")
)
