package render

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"io"

	"github.com/vitae-cv/vitae/internal/domain/entities"
)

// FormatHTML is the settings.render.formats name of HTMLRenderer.
const FormatHTML = "html"

// HTMLRenderer renders a standalone HTML page. A custom theme replaces
// every role template with the <Role>.tmpl file from its directory.
type HTMLRenderer struct {
	tmpl *htmltemplate.Template
}

// NewHTMLRenderer parses the embedded HTML templates.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := parseHTML()
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Format implements ports.Renderer.
func (r *HTMLRenderer) Format() string { return FormatHTML }

// Render implements ports.Renderer.
func (r *HTMLRenderer) Render(ctx context.Context, doc *entities.Document, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmpl, err := r.tmpl.Clone()
	if err != nil {
		return fmt.Errorf("cloning html template: %w", err)
	}
	tmpl.Funcs(htmltemplate.FuncMap{"bold": htmlBold(doc.Settings.BoldKeywords)})

	if custom, ok := doc.Design.(*entities.CustomThemeOptions); ok {
		if err := overrideRoles(tmpl, custom.Dir); err != nil {
			return err
		}
	}

	if err := tmpl.ExecuteTemplate(w, rootTemplate, newDocumentView(doc)); err != nil {
		return fmt.Errorf("executing html template: %w", err)
	}
	return nil
}
