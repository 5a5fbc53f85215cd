// Package httpapi exposes validation and rendering over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vitae-cv/vitae/internal/application/dto"
	apperrors "github.com/vitae-cv/vitae/internal/application/errors"
	"github.com/vitae-cv/vitae/internal/application/ports"
	"github.com/vitae-cv/vitae/internal/application/services"
	"github.com/vitae-cv/vitae/internal/version"
)

// RequestIDHeader carries the caller's request ID; one is generated when
// absent.
const RequestIDHeader = "X-Request-ID"

// Options configures a Server.
type Options struct {
	// BodyLimit is the largest accepted request body in bytes.
	BodyLimit int
	// RedactPersonal is the default of the redact_personal query parameter.
	RedactPersonal bool
	// Schema returns the document JSON Schema.
	Schema func() ([]byte, error)
	Logger *slog.Logger
}

// Server is the HTTP surface of vitae.
type Server struct {
	app            *fiber.App
	validate       *services.ValidateDocumentUseCase
	markdown       ports.Renderer
	schema         func() ([]byte, error)
	redactPersonal bool
	logger         *slog.Logger
}

// NewServer creates a server and registers its routes.
func NewServer(validate *services.ValidateDocumentUseCase, markdown ports.Renderer, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		validate:       validate,
		markdown:       markdown,
		schema:         opts.Schema,
		redactPersonal: opts.RedactPersonal,
		logger:         opts.Logger,
	}

	cfg := fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	}
	if opts.BodyLimit > 0 {
		cfg.BodyLimit = opts.BodyLimit
	}
	s.app = fiber.New(cfg)

	s.app.Use(s.requestID)
	s.app.Get("/healthz", s.health)
	v1 := s.app.Group("/v1")
	v1.Post("/validate", s.validateDocument)
	v1.Post("/render/markdown", s.renderMarkdown)
	v1.Get("/schema", s.getSchema)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()
	s.logger.Info("listening", "address", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		return s.app.ShutdownWithTimeout(10 * time.Second)
	}
}

func (s *Server) requestID(c *fiber.Ctx) error {
	id := c.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(RequestIDHeader, id)
	c.Set(RequestIDHeader, id)
	return c.Next()
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": version.Get()})
}

func (s *Server) getSchema(c *fiber.Ctx) error {
	if s.schema == nil {
		return fiber.ErrNotFound
	}
	out, err := s.schema()
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(out)
}

func (s *Server) validateDocument(c *fiber.Ctx) error {
	resp, err := s.validate.Execute(c.UserContext(), s.validateRequest(c))
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if !resp.Report.Valid {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(resp.Report)
}

func (s *Server) renderMarkdown(c *fiber.Ctx) error {
	resp, err := s.validate.Execute(c.UserContext(), s.validateRequest(c))
	if err != nil {
		return err
	}
	doc, err := services.Compiled(resp)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(resp.Report)
	}

	var buf bytes.Buffer
	if err := s.markdown.Render(c.UserContext(), doc, &buf); err != nil {
		return apperrors.NewRenderError(s.markdown.Format(), "rendering failed", err)
	}
	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) validateRequest(c *fiber.Ctx) dto.ValidateRequest {
	format := "yaml"
	if strings.Contains(c.Get(fiber.HeaderContentType), "json") {
		format = "json"
	}
	id, _ := c.Locals(RequestIDHeader).(string)

	// The body buffer is reused once the handler returns; the use case
	// finishes before that.
	return dto.ValidateRequest{
		Content:       c.Body(),
		ContentFormat: format,
		Options: dto.ValidateOptions{
			RedactPersonal: c.QueryBool("redact_personal", s.redactPersonal),
			Today:          c.Query("today"),
		},
		Metadata: dto.RequestMetadata{RequestID: id},
	}
}

// errorBody is the JSON shape of every non-report error response.
type errorBody struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	Hint   string `json:"hint,omitempty"`
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var (
		fe       *apperrors.FormatError
		ve       *apperrors.ValidationError
		nf       *apperrors.NotFoundError
		re       *apperrors.RenderError
		fiberErr *fiber.Error
		status   = fiber.StatusInternalServerError
		body     = errorBody{Error: err.Error()}
	)

	switch {
	case errors.As(err, &fe):
		status = fiber.StatusBadRequest
		body = errorBody{Error: fe.Cause.Error(), Line: fe.Line, Column: fe.Column, Hint: fe.Hint}
	case errors.As(err, &ve):
		status = fiber.StatusBadRequest
	case errors.As(err, &nf):
		status = fiber.StatusNotFound
	case errors.As(err, &re):
		status = fiber.StatusInternalServerError
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
	}

	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "request_id", c.Locals(RequestIDHeader), "error", err)
	}
	return c.Status(status).JSON(body)
}
