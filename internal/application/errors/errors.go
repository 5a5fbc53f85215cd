// Package apperrors defines application-level error types.
package apperrors

import (
	"fmt"
)

// FormatError indicates a document could not be parsed at all.
type FormatError struct {
	Cause  error
	Path   string
	Line   int
	Column int
	Hint   string
}

func (e *FormatError) Error() string {
	where := e.Path
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
	}
	msg := fmt.Sprintf("%s is not a valid document: %v", where, e.Cause)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// QuotingHint is attached to syntax errors, most of which come from
// unquoted values containing ':' or '#'.
const QuotingHint = `values containing ":" or "#" must be wrapped in double quotes`

// NewFormatError creates a new format error.
func NewFormatError(path string, line, column int, cause error) *FormatError {
	return &FormatError{
		Path:   path,
		Line:   line,
		Column: column,
		Cause:  cause,
		Hint:   QuotingHint,
	}
}

// NotFoundError indicates a file or named resource does not exist.
type NotFoundError struct {
	Kind string // "file", "theme"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// ValidationError indicates a request (not a document) was malformed.
type ValidationError struct {
	Field   string   // Field that failed validation
	Message string   // Error message
	Details []string // Additional details
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s (%d issues)", e.Field, e.Message, len(e.Details))
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, details ...string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Details: details,
	}
}

// RenderError indicates a valid document failed to render.
type RenderError struct {
	Cause   error
	Format  string
	Message string
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rendering %s failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("rendering %s failed: %s", e.Format, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new render error.
func NewRenderError(format, message string, cause error) *RenderError {
	return &RenderError{
		Format:  format,
		Message: message,
		Cause:   cause,
	}
}

// ConfigurationError indicates system config or setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}
