package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vitae-cv/vitae/internal/application/dto"
	"github.com/vitae-cv/vitae/internal/application/services"
	"github.com/vitae-cv/vitae/internal/infrastructure/output"
)

// renderOptions holds the flags of the render command.
type renderOptions struct {
	OutputDir      string
	Formats        []string
	Today          string
	RedactPersonal bool
}

var renderOpts renderOptions

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <cv.yaml>",
	Short: "Render a CV to Markdown, HTML or PDF",
	Long: `Validate a CV document and, when it is valid, render it into every
requested format. Flags override settings.render in the document, which in
turn overrides the system configuration.

PDF output needs a local Chrome or Chromium.`,
	Example: `  vitae render cv.yaml
  vitae render cv.yaml --format pdf --output-dir build`,
	Args: cobra.ExactArgs(1),
	RunE: withContainer(func(cc *CommandContext, cmd *cobra.Command, args []string) error {
		return runRenderAction(cc, args[0], renderOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}),
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderOpts.OutputDir, "output-dir", "", "Directory to write rendered files to")
	renderCmd.Flags().StringSliceVar(&renderOpts.Formats, "format", nil, "Output formats: markdown, html, pdf (comma-separated)")
	renderCmd.Flags().StringVar(&renderOpts.Today, "today", "", "Date to treat as today, YYYY-MM-DD")
	renderCmd.Flags().BoolVar(&renderOpts.RedactPersonal, "redact-personal", false, "Hide the CV owner's email and phone in the report")
}

// runRenderAction renders the document and lists the written files on out.
// An invalid document has its report written to errOut.
func runRenderAction(cc *CommandContext, path string, opts renderOptions, out, errOut io.Writer) error {
	resp, err := cc.Container.RenderUseCase().Execute(cc.Context, dto.RenderRequest{
		Validate: dto.ValidateRequest{
			DocumentPath: path,
			Options:      validateOptionsFor(cc, opts.RedactPersonal, opts.Today),
		},
		OutputDir: opts.OutputDir,
		Formats:   opts.Formats,
	})

	var invalid *services.InvalidDocumentError
	if errors.As(err, &invalid) {
		if ferr := output.NewTableFormatter(errOut).Format(invalid.Report); ferr != nil {
			cc.Logger.Warn("failed to print report", "error", ferr)
		}
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}

	for _, f := range resp.Files {
		fmt.Fprintf(out, "%-8s %s\n", f.Format, f.Path)
	}
	return nil
}
