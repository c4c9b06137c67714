package document

import "errors"

// Errors returned by document operations.
var (
	// ErrEmptyDocument is returned when the source has no readable text.
	ErrEmptyDocument = errors.New("document has no text")

	// ErrForeignPosition is returned when a position belongs to another document.
	ErrForeignPosition = errors.New("position belongs to a different document")

	// ErrPositionOutOfRange is returned when a position lies outside the document.
	ErrPositionOutOfRange = errors.New("position out of range")
)
