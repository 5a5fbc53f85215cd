package render

import (
	"context"
	"fmt"
	"io"
	texttemplate "text/template"

	"github.com/vitae-cv/vitae/internal/domain/entities"
)

// FormatMarkdown is the settings.render.formats name of MarkdownRenderer.
const FormatMarkdown = "markdown"

// MarkdownRenderer renders a document as Markdown. Custom themes only
// affect HTML and PDF output; Markdown always uses the built-in templates.
type MarkdownRenderer struct {
	tmpl *texttemplate.Template
}

// NewMarkdownRenderer parses the embedded Markdown templates.
func NewMarkdownRenderer() (*MarkdownRenderer, error) {
	tmpl, err := parseMarkdown()
	if err != nil {
		return nil, err
	}
	return &MarkdownRenderer{tmpl: tmpl}, nil
}

// Format implements ports.Renderer.
func (r *MarkdownRenderer) Format() string { return FormatMarkdown }

// Render implements ports.Renderer.
func (r *MarkdownRenderer) Render(ctx context.Context, doc *entities.Document, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmpl, err := r.tmpl.Clone()
	if err != nil {
		return fmt.Errorf("cloning markdown template: %w", err)
	}
	tmpl.Funcs(texttemplate.FuncMap{"bold": markdownBold(doc.Settings.BoldKeywords)})

	if err := tmpl.ExecuteTemplate(w, rootTemplate, newDocumentView(doc)); err != nil {
		return fmt.Errorf("executing markdown template: %w", err)
	}
	return nil
}
