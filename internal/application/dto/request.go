// Package dto contains data transfer objects for application layer use cases.
package dto

// ValidateRequest encapsulates all inputs needed to validate a document.
type ValidateRequest struct {
	// DocumentPath is read when Content is empty.
	DocumentPath string

	// Content is an in-memory document, e.g. an HTTP request body.
	Content []byte
	// ContentFormat is "yaml" or "json" and only applies to Content.
	ContentFormat string

	Options  ValidateOptions
	Metadata RequestMetadata
}

// ValidateOptions tunes how a validation report is produced.
type ValidateOptions struct {
	// RedactPersonal hides the email and phone of the CV owner in
	// reported inputs.
	RedactPersonal bool

	// Today overrides the clock, formatted YYYY-MM-DD. settings.date in
	// the document still takes precedence.
	Today string
}

// RenderRequest encapsulates all inputs needed to render a document.
type RenderRequest struct {
	Validate ValidateRequest

	// OutputDir overrides settings.render.output_dir.
	OutputDir string
	// Formats overrides settings.render.formats.
	Formats []string
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
}

// Source names where a request's document came from.
func (r ValidateRequest) Source() string {
	if len(r.Content) > 0 {
		return "<request body>"
	}
	return r.DocumentPath
}
