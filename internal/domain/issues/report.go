package issues

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vitae-cv/vitae/internal/domain/values"
)

// Report accumulates every problem found in one validation pass.
// It is an error; Unwrap exposes the individual errors.
type Report struct {
	errs     []error
	warnings []Issue
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add records an error. Nil errors and nested reports are handled.
func (r *Report) Add(err error) {
	if err == nil {
		return
	}
	var nested *Report
	if errors.As(err, &nested) && nested != r {
		r.Merge(nested)
		return
	}
	r.errs = append(r.errs, err)
}

// Merge appends every error and warning of other.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.errs = append(r.errs, other.errs...)
	r.warnings = append(r.warnings, other.warnings...)
}

// Warn records a non-blocking issue.
func (r *Report) Warn(location, message string) {
	r.warnings = append(r.warnings, Issue{Kind: KindOther, Severity: values.SevWarning, Location: location, Message: message})
}

// HasErrors reports whether any blocking issue was recorded.
func (r *Report) HasErrors() bool {
	return len(r.errs) > 0
}

// Len returns the number of errors.
func (r *Report) Len() int {
	return len(r.errs)
}

// Err returns r if it holds errors, nil otherwise.
func (r *Report) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return r
}

func (r *Report) Error() string {
	lines := make([]string, 0, len(r.errs)+1)
	lines = append(lines, fmt.Sprintf("document is invalid: %d problem(s)", len(r.Issues())-len(r.warnings)))
	for _, is := range r.Issues() {
		if !is.Severity.IsBlocking() {
			continue
		}
		if is.Location == "" {
			lines = append(lines, "  - "+is.Message)
			continue
		}
		lines = append(lines, fmt.Sprintf("  - %s: %s", is.Location, is.Message))
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (r *Report) Unwrap() []error {
	return r.errs
}

// Issues returns the flattened errors followed by the warnings.
func (r *Report) Issues() []Issue {
	var out []Issue
	for _, err := range r.errs {
		out = append(out, flatten(err)...)
	}
	return append(out, r.warnings...)
}

// Warnings returns only the non-blocking issues.
func (r *Report) Warnings() []Issue {
	return append([]Issue(nil), r.warnings...)
}

// IssuesOf flattens any error into display-ready issues. Errors that do not
// carry a location become a single issue with an empty location.
func IssuesOf(err error) []Issue {
	if err == nil {
		return nil
	}
	var rep *Report
	if errors.As(err, &rep) {
		return rep.Issues()
	}
	return flatten(err)
}

func flatten(err error) []Issue {
	switch e := err.(type) {
	case *SectionError:
		return e.Issues()
	case Located:
		return []Issue{e.Issue()}
	}
	var loc Located
	if errors.As(err, &loc) {
		is := loc.Issue()
		is.Message = err.Error()
		return []Issue{is}
	}
	return []Issue{{Kind: KindOther, Severity: values.SevError, Message: err.Error()}}
}
