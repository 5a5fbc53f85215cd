// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"
	"io"

	"github.com/vitae-cv/vitae/internal/application/dto"
	"github.com/vitae-cv/vitae/internal/domain/entities"
)

// DocumentLoader reads a CV document into an untyped, order-preserving tree.
type DocumentLoader interface {
	// Load reads the file at path. Unsupported extensions are rejected
	// before the file is opened.
	Load(path string) (map[string]any, error)

	// LoadBytes parses data as the given format ("yaml" or "json").
	LoadBytes(data []byte, format string) (map[string]any, error)
}

// Renderer produces one output format for a validated document.
type Renderer interface {
	// Format is the name used in settings.render.formats.
	Format() string

	// Render writes the rendered document to w.
	Render(ctx context.Context, doc *entities.Document, w io.Writer) error
}

// DocumentRenderer renders a document into every requested format.
type DocumentRenderer interface {
	RenderAll(ctx context.Context, doc *entities.Document, outputDir string, formats []string) ([]dto.RenderedFile, error)
}

// ReportFormatter writes a validation report to an output stream.
type ReportFormatter interface {
	Format(report *dto.ValidationReport) error
}

// Redactor scrubs secret-looking values before they are shown.
type Redactor interface {
	Redact(input string) string

	// WithValues returns a redactor that additionally hides the given
	// literal values. The receiver is not modified.
	WithValues(values ...string) Redactor
}
