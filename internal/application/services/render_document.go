package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vitae-cv/vitae/internal/application/dto"
	apperrors "github.com/vitae-cv/vitae/internal/application/errors"
	"github.com/vitae-cv/vitae/internal/application/ports"
)

// Defaults used when neither the request nor the document names them.
const (
	DefaultOutputDir = "vitae_output"
)

// DefaultFormats are rendered when nothing else is requested. PDF needs a
// Chrome binary and is opt-in.
var DefaultFormats = []string{"markdown", "html"}

// RenderDocumentUseCase validates a document and renders it.
type RenderDocumentUseCase struct {
	validate       *ValidateDocumentUseCase
	renderer       ports.DocumentRenderer
	defaultDir     string
	defaultFormats []string
	logger         *slog.Logger
}

// NewRenderDocumentUseCase creates a new render use case.
func NewRenderDocumentUseCase(validate *ValidateDocumentUseCase, renderer ports.DocumentRenderer, logger *slog.Logger) *RenderDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderDocumentUseCase{
		validate:       validate,
		renderer:       renderer,
		defaultDir:     DefaultOutputDir,
		defaultFormats: DefaultFormats,
		logger:         logger,
	}
}

// WithDefaults replaces the output directory and formats used when neither
// the request nor the document names them. Empty values keep the current
// defaults.
func (uc *RenderDocumentUseCase) WithDefaults(outputDir string, formats []string) *RenderDocumentUseCase {
	if outputDir != "" {
		uc.defaultDir = outputDir
	}
	if len(formats) > 0 {
		uc.defaultFormats = formats
	}
	return uc
}

// Execute validates and renders. An invalid document yields an
// *InvalidDocumentError together with a response carrying the report.
func (uc *RenderDocumentUseCase) Execute(ctx context.Context, req dto.RenderRequest) (*dto.RenderResponse, error) {
	startTime := time.Now()

	vresp, err := uc.validate.Execute(ctx, req.Validate)
	if err != nil {
		return nil, err
	}
	resp := &dto.RenderResponse{Validation: vresp}

	doc, err := Compiled(vresp)
	if err != nil {
		return resp, err
	}

	outputDir := firstNonEmpty(req.OutputDir, doc.Settings.Render.OutputDir, uc.defaultDir)
	formats := req.Formats
	if len(formats) == 0 {
		formats = doc.Settings.Render.Formats
	}
	if len(formats) == 0 {
		formats = uc.defaultFormats
	}

	uc.logger.Info("rendering document", "run_id", vresp.Report.RunID.String(), "output_dir", outputDir, "formats", formats)

	files, err := uc.renderer.RenderAll(ctx, doc, outputDir, formats)
	if err != nil {
		var renderErr *apperrors.RenderError
		if !errors.As(err, &renderErr) {
			err = apperrors.NewRenderError("document", "rendering failed", err)
		}
		return resp, err
	}

	for _, f := range files {
		uc.logger.Debug("file written", "format", f.Format, "path", f.Path)
	}

	resp.Files = files
	resp.Metadata = dto.ResponseMetadata{
		RequestID:   req.Validate.Metadata.RequestID,
		ProcessedAt: time.Now(),
		Duration:    time.Since(startTime),
	}
	return resp, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
