package config

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a value fails validation.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnknownKey indicates a key that no setting uses.
	ErrUnknownKey = errors.New("unknown configuration key")
)

// FieldError describes one invalid setting.
type FieldError struct {
	// Path is the dotted setting path, e.g. "editor.wrap_width".
	Path string
	// Rule is the failed validation rule, e.g. "gte".
	Rule string
	// Param is the rule's parameter, e.g. "1".
	Param string
	// Value is the rejected value.
	Value any
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s=%v fails %s=%s", e.Path, e.Value, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s=%v fails %s", e.Path, e.Value, e.Rule)
}

// ValidationError lists every invalid setting of a configuration.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
