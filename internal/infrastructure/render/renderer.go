package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"

	"github.com/vitae-cv/vitae/internal/application/dto"
	apperrors "github.com/vitae-cv/vitae/internal/application/errors"
	"github.com/vitae-cv/vitae/internal/application/ports"
	"github.com/vitae-cv/vitae/internal/domain/entities"
)

var extensions = map[string]string{
	FormatMarkdown: ".md",
	FormatHTML:     ".html",
	FormatPDF:      ".pdf",
}

// DocumentRenderer writes one file per requested format, rendering the
// formats concurrently.
type DocumentRenderer struct {
	renderers map[string]ports.Renderer
	logger    *slog.Logger
}

// NewDocumentRenderer creates a document renderer over renderers, keyed by
// their Format().
func NewDocumentRenderer(logger *slog.Logger, renderers ...ports.Renderer) *DocumentRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	byFormat := make(map[string]ports.Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &DocumentRenderer{renderers: byFormat, logger: logger}
}

// Renderer returns the renderer for format.
func (d *DocumentRenderer) Renderer(format string) (ports.Renderer, bool) {
	r, ok := d.renderers[format]
	return r, ok
}

// FileName returns the base output name for a format, derived from the
// CV owner's name.
func FileName(doc *entities.Document, format string) string {
	base := slug.Make(doc.CV.Name)
	if base == "" {
		base = "cv"
	} else {
		base += "-cv"
	}
	return base + extensions[format]
}

// RenderAll implements ports.DocumentRenderer. Files appear in the order
// of formats. Nothing is written for a format whose rendering fails.
func (d *DocumentRenderer) RenderAll(ctx context.Context, doc *entities.Document, outputDir string, formats []string) ([]dto.RenderedFile, error) {
	for _, f := range formats {
		if _, ok := d.renderers[f]; !ok {
			return nil, apperrors.NewRenderError(f, "unsupported output format", nil)
		}
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, apperrors.NewRenderError("output", "cannot create directory "+outputDir, err)
	}

	files := make([]dto.RenderedFile, len(formats))
	g, gCtx := errgroup.WithContext(ctx)
	for i, format := range formats {
		g.Go(func() error {
			path := filepath.Join(outputDir, FileName(doc, format))
			if err := d.renderFile(gCtx, doc, format, path); err != nil {
				return err
			}
			files[i] = dto.RenderedFile{Format: format, Path: path}
			d.logger.Debug("rendered", "format", format, "path", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (d *DocumentRenderer) renderFile(ctx context.Context, doc *entities.Document, format, path string) error {
	var buf bytes.Buffer
	if err := d.renderers[format].Render(ctx, doc, &buf); err != nil {
		return apperrors.NewRenderError(format, "rendering failed", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return apperrors.NewRenderError(format, fmt.Sprintf("cannot write %s", path), err)
	}
	return nil
}
