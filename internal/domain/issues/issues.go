// Package issues defines the located errors produced while validating a
// document and the Report that aggregates them.
package issues

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/vitae-cv/vitae/internal/domain/dates"
	"github.com/vitae-cv/vitae/internal/domain/values"
)

// Kind classifies an issue.
type Kind string

// Issue kinds.
const (
	KindField      Kind = "field"
	KindStructural Kind = "structural"
	KindAmbiguous  Kind = "ambiguous_entry"
	KindOther      Kind = "error"
)

// Issue is the flattened, display-ready view of one problem.
type Issue struct {
	Kind     Kind            `json:"kind" yaml:"kind"`
	Severity values.Severity `json:"severity" yaml:"severity"`
	Location string          `json:"location" yaml:"location"`
	Input    string          `json:"input" yaml:"input"`
	Message  string          `json:"message" yaml:"message"`
}

// Located is implemented by every error type in this package.
type Located interface {
	error
	Issue() Issue
}

// FieldError is a single field failing its type or constraint check.
type FieldError struct {
	Location string
	Input    any
	Message  string
}

// NewFieldError creates a field error at a dotted location.
func NewFieldError(location string, input any, message string) *FieldError {
	return &FieldError{Location: location, Input: input, Message: message}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// Issue implements Located.
func (e *FieldError) Issue() Issue {
	return Issue{Kind: KindField, Severity: values.SevError, Location: e.Location, Input: FormatInput(e.Input), Message: e.Message}
}

// StructuralError is a violated cross-field invariant: date ordering,
// duplicate titles, an unknown section in an ordering override, or a
// custom theme missing files.
type StructuralError struct {
	Location string
	Input    any
	Message  string
	Cause    error
}

// NewStructuralError creates a structural error.
func NewStructuralError(location string, input any, message string, cause error) *StructuralError {
	return &StructuralError{Location: location, Input: input, Message: message, Cause: cause}
}

func (e *StructuralError) Error() string {
	if e.Location == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

func (e *StructuralError) Unwrap() error {
	return e.Cause
}

// Issue implements Located.
func (e *StructuralError) Issue() Issue {
	return Issue{Kind: KindStructural, Severity: values.SevError, Location: e.Location, Input: FormatInput(e.Input), Message: e.Message}
}

// AmbiguousEntryError means no entry variant matched a record.
type AmbiguousEntryError struct {
	Location string
	Keys     []string
}

func (e *AmbiguousEntryError) Error() string {
	msg := fmt.Sprintf("cannot determine the entry type from keys [%s]", strings.Join(e.Keys, ", "))
	if e.Location == "" {
		return msg
	}
	return e.Location + ": " + msg
}

// Issue implements Located.
func (e *AmbiguousEntryError) Issue() Issue {
	return Issue{
		Kind:     KindAmbiguous,
		Severity: values.SevError,
		Location: e.Location,
		Message: fmt.Sprintf("cannot determine the entry type from keys [%s]; "+
			"add a field that identifies the entry (for example institution, company, label or bullet)",
			strings.Join(e.Keys, ", ")),
	}
}

// SectionError wraps the failures of the entries of one section with the
// variant that was inferred for it.
type SectionError struct {
	Location  string
	Title     string
	EntryType string
	Errors    []error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %q (detected as %s from its first entry): %d problem(s)", e.Title, e.EntryType, len(e.Errors))
}

func (e *SectionError) Unwrap() []error {
	return e.Errors
}

// Issues flattens the nested entry errors, adding the inferred variant to
// each message.
func (e *SectionError) Issues() []Issue {
	var out []Issue
	for _, err := range e.Errors {
		for _, is := range flatten(err) {
			is.Message = fmt.Sprintf("%s (section %q was detected as %s)", is.Message, e.Title, e.EntryType)
			out = append(out, is)
		}
	}
	return out
}

// FormatInput renders an offending value for display. Nested structures
// are redacted to the empty string.
func FormatInput(v any) string {
	if v == nil {
		return ""
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return ""
	}
	return dates.Text(v)
}
