package format

import (
	"errors"
	"fmt"
)

// Standard errors returned by the format package.
var (
	// ErrUnknownFormat indicates a format name that is not recognized.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrWriteUnsupported indicates a format that can only be read.
	ErrWriteUnsupported = errors.New("format is read-only")

	// ErrSyntax indicates malformed input.
	ErrSyntax = errors.New("syntax error")
)

// SyntaxError describes input a parser could not map onto the document model.
type SyntaxError struct {
	Format  Format // Format being parsed
	Element string // Offending element or construct, if known
	Msg     string // Description
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("%s: <%s>: %s", e.Format, e.Element, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Msg)
}

// Unwrap returns ErrSyntax so callers can match with errors.Is.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// PathError records the file operation that failed.
type PathError struct {
	Op   string // Operation that failed (read, write, parse)
	Path string // File path
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}
