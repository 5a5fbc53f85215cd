package values

import (
	"fmt"
	"strings"
)

// Severity is the weight of one reported issue. Only errors make a
// document invalid; warnings and notes are informational.
type Severity struct {
	value SeverityLevel
}

// SeverityLevel is the internal representation
type SeverityLevel int

const (
	SeverityUnknown SeverityLevel = 0
	SeverityNote    SeverityLevel = 1
	SeverityWarning SeverityLevel = 2
	SeverityError   SeverityLevel = 3
)

// Predefined severity values
var (
	SevUnknown = Severity{SeverityUnknown}
	SevNote    = Severity{SeverityNote}
	SevWarning = Severity{SeverityWarning}
	SevError   = Severity{SeverityError}
)

// NewSeverity creates a Severity from string
func NewSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "note":
		return SevNote, nil
	case "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	case "":
		return SevUnknown, nil
	default:
		return Severity{}, fmt.Errorf("invalid severity: %s", s)
	}
}

// String returns the string representation. It doubles as the SARIF level.
func (s Severity) String() string {
	switch s.value {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return ""
	}
}

// IsBlocking reports whether an issue of this severity invalidates a document.
func (s Severity) IsBlocking() bool {
	return s.value >= SeverityError
}

// IsHigherOrEqual returns true if this severity is higher or equal to the other
func (s Severity) IsHigherOrEqual(other Severity) bool {
	return s.value >= other.value
}

// Equals checks if two severities are equal
func (s Severity) Equals(other Severity) bool {
	return s.value == other.value
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(data []byte) error {
	sev, err := NewSeverity(string(data))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
