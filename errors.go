package questionbank

import "errors"

var (
	// ErrUnsupportedFormat is returned when no pipeline matches the
	// declared document format.
	ErrUnsupportedFormat = errors.New("questionbank: unsupported document format")

	// ErrDocumentUnreadable is returned when the source file cannot be
	// opened or read at all.
	ErrDocumentUnreadable = errors.New("questionbank: document unreadable")

	// ErrEmptyDocument is returned when a document yields no text.
	ErrEmptyDocument = errors.New("questionbank: document contains no text")

	// ErrNoAreas is returned when area extraction is requested with an
	// empty area list.
	ErrNoAreas = errors.New("questionbank: no areas given")

	// ErrRecognitionUnavailable is returned when the text-recognition
	// service produced nothing usable for an entire request.
	ErrRecognitionUnavailable = errors.New("questionbank: recognition service unavailable")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("questionbank: invalid configuration")
)
