package editor

import "errors"

// Errors returned by session operations.
var (
	// ErrUnresolvedPointer indicates a pointer that names no segment of the
	// current index.
	ErrUnresolvedPointer = errors.New("pointer does not resolve")

	// ErrPositionOutOfRange indicates a position outside the segment index.
	ErrPositionOutOfRange = errors.New("position out of range")
)
