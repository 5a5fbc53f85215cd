package dto

import (
	"time"

	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/issues"
	"github.com/vitae-cv/vitae/internal/domain/values"
)

// ValidationReport is the outcome of one validation run, ready for a
// report formatter.
type ValidationReport struct {
	RunID    values.RunID   `json:"run_id" yaml:"run_id"`
	Source   string         `json:"source" yaml:"source"`
	Valid    bool           `json:"valid" yaml:"valid"`
	Issues   []issues.Issue `json:"issues" yaml:"issues"`
	Summary  ReportSummary  `json:"summary" yaml:"summary"`
	Duration time.Duration  `json:"-" yaml:"-"`
}

// ReportSummary counts what a valid document contains, or the problems of
// an invalid one.
type ReportSummary struct {
	Errors   int `json:"errors" yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
	Sections int `json:"sections" yaml:"sections"`
	Entries  int `json:"entries" yaml:"entries"`
}

// ValidateResponse contains the result of validating a document.
type ValidateResponse struct {
	// Document is nil when Report.Valid is false.
	Document *entities.Document
	Report   *ValidationReport
	Metadata ResponseMetadata
}

// RenderResponse contains the result of rendering a document.
type RenderResponse struct {
	Validation *ValidateResponse
	Files      []RenderedFile
	Metadata   ResponseMetadata
}

// RenderedFile is one file produced by a render run.
type RenderedFile struct {
	Format string `json:"format"`
	Path   string `json:"path"`
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// RequestID from the original request
	RequestID string

	// ProcessedAt is when the request was processed
	ProcessedAt time.Time

	// Duration is how long the request took
	Duration time.Duration
}
