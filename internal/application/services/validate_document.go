// Package services contains application use cases.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitae-cv/vitae/internal/application/dto"
	apperrors "github.com/vitae-cv/vitae/internal/application/errors"
	"github.com/vitae-cv/vitae/internal/application/ports"
	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/issues"
	"github.com/vitae-cv/vitae/internal/domain/services"
	"github.com/vitae-cv/vitae/internal/domain/values"
)

// ValidateDocumentUseCase loads a CV document and compiles it into the
// typed model, producing a report either way.
type ValidateDocumentUseCase struct {
	loader   ports.DocumentLoader
	compiler *services.DocumentCompiler
	redactor ports.Redactor
	now      func() time.Time
	logger   *slog.Logger
}

// NewValidateDocumentUseCase creates a new validate use case. redactor may
// be nil, in which case inputs are reported verbatim.
func NewValidateDocumentUseCase(
	loader ports.DocumentLoader,
	compiler *services.DocumentCompiler,
	redactor ports.Redactor,
	logger *slog.Logger,
) *ValidateDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &ValidateDocumentUseCase{
		loader:   loader,
		compiler: compiler,
		redactor: redactor,
		now:      time.Now,
		logger:   logger,
	}
}

// Execute validates one document.
//
// An invalid document is not an error: the response carries a report with
// Valid set to false. Errors are returned when the document cannot be read
// or parsed at all.
func (uc *ValidateDocumentUseCase) Execute(ctx context.Context, req dto.ValidateRequest) (*dto.ValidateResponse, error) {
	startTime := time.Now()
	run := values.NewRunID()
	log := uc.logger.With("run_id", run.String(), "source", req.Source())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := uc.load(req)
	if err != nil {
		return nil, err
	}
	log.Debug("document loaded", "top_level_keys", len(raw))

	now := uc.now()
	if req.Options.Today != "" {
		now, err = time.Parse("2006-01-02", req.Options.Today)
		if err != nil {
			return nil, apperrors.NewValidationError("today", fmt.Sprintf("%q is not a YYYY-MM-DD date", req.Options.Today))
		}
	}

	report := &dto.ValidationReport{RunID: run, Source: req.Source()}
	doc, err := uc.compiler.CompileAt(raw, now)
	if err != nil {
		var rep *issues.Report
		if !errors.As(err, &rep) {
			return nil, fmt.Errorf("failed to compile document: %w", err)
		}
		report.Issues = uc.redact(raw, req.Options, rep.Issues())
		report.Summary.Errors = len(rep.Issues()) - len(rep.Warnings())
		report.Summary.Warnings = len(rep.Warnings())
		log.Info("document is invalid", "errors", report.Summary.Errors)
	} else {
		report.Valid = true
		report.Issues = []issues.Issue{}
		report.Summary.Sections = doc.SectionCount()
		report.Summary.Entries = doc.EntryCount()
		log.Info("document is valid",
			"theme", doc.Design.ThemeName(),
			"sections", report.Summary.Sections,
			"entries", report.Summary.Entries)
	}
	report.Duration = time.Since(startTime)

	return &dto.ValidateResponse{
		Document: doc,
		Report:   report,
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    report.Duration,
		},
	}, nil
}

func (uc *ValidateDocumentUseCase) load(req dto.ValidateRequest) (map[string]any, error) {
	if len(req.Content) > 0 {
		return uc.loader.LoadBytes(req.Content, req.ContentFormat)
	}
	if req.DocumentPath == "" {
		return nil, apperrors.NewValidationError("document", "no document path or content given")
	}
	return uc.loader.Load(req.DocumentPath)
}

// redact scrubs reported inputs. With RedactPersonal the owner's email and
// phone are hidden wherever they appear.
func (uc *ValidateDocumentUseCase) redact(raw map[string]any, opts dto.ValidateOptions, in []issues.Issue) []issues.Issue {
	if uc.redactor == nil {
		return in
	}
	r := uc.redactor
	if opts.RedactPersonal {
		r = r.WithValues(personalValues(raw)...)
	}

	out := make([]issues.Issue, len(in))
	for i, is := range in {
		is.Input = r.Redact(is.Input)
		is.Message = r.Redact(is.Message)
		out[i] = is
	}
	return out
}

func personalValues(raw map[string]any) []string {
	cv, _ := raw["cv"].(map[string]any)
	var out []string
	for _, key := range []string{"email", "phone"} {
		if s, ok := cv[key].(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Compiled is a convenience for callers that only want a valid document.
// It returns the report as an error when the document is invalid.
func Compiled(resp *dto.ValidateResponse) (*entities.Document, error) {
	if resp.Report.Valid {
		return resp.Document, nil
	}
	return nil, &InvalidDocumentError{Report: resp.Report}
}

// InvalidDocumentError is returned by operations that need a valid document.
type InvalidDocumentError struct {
	Report *dto.ValidationReport
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("%s is invalid: %d error(s)", e.Report.Source, e.Report.Summary.Errors)
}
