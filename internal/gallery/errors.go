package gallery

import "errors"

var (
	// ErrUnsupportedMediaType signals that the uploaded bytes are not a supported image.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrInvalidInput signals a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrFileTooLarge signals that the upload exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrStore wraps any object store failure.
	ErrStore = errors.New("object store failure")
)
