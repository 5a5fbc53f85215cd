// Package container provides dependency injection for the application.
package container

import (
	"fmt"
	"log/slog"

	"github.com/vitae-cv/vitae/internal/application/ports"
	"github.com/vitae-cv/vitae/internal/application/services"
	domainservices "github.com/vitae-cv/vitae/internal/domain/services"
	"github.com/vitae-cv/vitae/internal/infrastructure/config"
	"github.com/vitae-cv/vitae/internal/infrastructure/httpapi"
	"github.com/vitae-cv/vitae/internal/infrastructure/redaction"
	"github.com/vitae-cv/vitae/internal/infrastructure/render"
	"github.com/vitae-cv/vitae/internal/infrastructure/schema"
	"github.com/vitae-cv/vitae/internal/infrastructure/system"
	"github.com/vitae-cv/vitae/internal/infrastructure/themes"
	"github.com/vitae-cv/vitae/internal/version"
)

// Ensure adapters implement ports at compile time
var (
	_ ports.DocumentLoader   = (*config.DocumentLoader)(nil)
	_ ports.Redactor         = (*redaction.Redactor)(nil)
	_ ports.Renderer         = (*render.MarkdownRenderer)(nil)
	_ ports.Renderer         = (*render.HTMLRenderer)(nil)
	_ ports.Renderer         = (*render.PDFRenderer)(nil)
	_ ports.DocumentRenderer = (*render.DocumentRenderer)(nil)
)

// Container holds all application dependencies.
type Container struct {
	systemCfg       *system.Config
	locator         *themes.Locator
	markdown        *render.MarkdownRenderer
	validateUseCase *services.ValidateDocumentUseCase
	renderUseCase   *services.RenderDocumentUseCase
	logger          *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger
	// SystemConfigPath defaults to ~/.vitae/config.yaml.
	SystemConfigPath string
	// SystemConfig, when set, is used instead of reading SystemConfigPath.
	SystemConfig *system.Config
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	systemCfg := opts.SystemConfig
	if systemCfg == nil {
		path := opts.SystemConfigPath
		if path == "" {
			path = system.DefaultPath()
		}
		cfg, err := system.NewConfigLoader().Load(path)
		if err != nil {
			return nil, err
		}
		systemCfg = cfg
	}

	redactor, err := redaction.New(redaction.Config{
		Patterns:        systemCfg.Redaction.Patterns,
		HashMode:        systemCfg.Redaction.HashMode.Enabled,
		Salt:            systemCfg.Redaction.HashMode.Salt,
		DisableGitleaks: systemCfg.Redaction.DisableGitleaks,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid redaction config: %w", err)
	}

	// Custom themes are looked up next to where vitae runs first.
	locator := themes.NewLocator(append([]string{"."}, systemCfg.Themes.Dirs...)...)
	compiler := domainservices.NewDocumentCompiler(
		domainservices.WithThemeLocator(locator, version.Get().Version),
	)

	markdown, err := render.NewMarkdownRenderer()
	if err != nil {
		return nil, err
	}
	html, err := render.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}
	pdf := render.NewPDFRenderer(html, systemCfg.Render.ChromePath, systemCfg.Render.PDFTimeoutDuration())
	documentRenderer := render.NewDocumentRenderer(opts.Logger, markdown, html, pdf)

	validateUseCase := services.NewValidateDocumentUseCase(
		config.NewDocumentLoader(),
		compiler,
		redactor,
		opts.Logger,
	)
	renderUseCase := services.NewRenderDocumentUseCase(validateUseCase, documentRenderer, opts.Logger).
		WithDefaults(systemCfg.Render.OutputDir, systemCfg.Render.Formats)

	return &Container{
		systemCfg:       systemCfg,
		locator:         locator,
		markdown:        markdown,
		validateUseCase: validateUseCase,
		renderUseCase:   renderUseCase,
		logger:          opts.Logger,
	}, nil
}

// ValidateUseCase returns the validate document use case.
func (c *Container) ValidateUseCase() *services.ValidateDocumentUseCase {
	return c.validateUseCase
}

// RenderUseCase returns the render document use case.
func (c *Container) RenderUseCase() *services.RenderDocumentUseCase {
	return c.renderUseCase
}

// ThemeLocator returns the custom theme locator.
func (c *Container) ThemeLocator() *themes.Locator {
	return c.locator
}

// HTTPServer builds the HTTP surface over the container's use cases.
func (c *Container) HTTPServer() *httpapi.Server {
	return httpapi.NewServer(c.validateUseCase, c.markdown, httpapi.Options{
		BodyLimit:      c.systemCfg.Server.BodyLimit,
		RedactPersonal: c.systemCfg.Redaction.Personal,
		Schema:         schema.Generate,
		Logger:         c.logger,
	})
}

// SystemConfig returns the system configuration.
func (c *Container) SystemConfig() *system.Config {
	return c.systemCfg
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
