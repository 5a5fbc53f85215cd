package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vitae-cv/vitae/internal/application/dto"
	"github.com/vitae-cv/vitae/internal/application/services"
	"github.com/vitae-cv/vitae/internal/infrastructure/output"
)

// validateOptions holds the flags of the validate command.
type validateOptions struct {
	Format         string
	Output         string
	Today          string
	Dump           bool
	RedactPersonal bool
}

var validateOpts = validateOptions{Format: "table"}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <cv.yaml>",
	Short: "Check a CV against the data model",
	Long: `Load a CV document and report every problem found in it. Each problem
names the field it was found at, the offending value and what is expected
instead. The command exits non-zero when the document is invalid.

With --dump the normalized document is printed instead of the report when
the document is valid.`,
	Example: `  vitae validate Jane_Doe_CV.yaml
  vitae validate cv.yaml --format sarif -o vitae.sarif
  vitae validate cv.yaml --today 2024-05-15 --dump`,
	Args: cobra.ExactArgs(1),
	RunE: withContainer(func(cc *CommandContext, cmd *cobra.Command, args []string) error {
		w, closeOutput, err := openOutput(validateOpts.Output, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeOutput()
		return runValidateAction(cc, args[0], validateOpts, w)
	}),
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateOpts.Format, "format", validateOpts.Format, "Report format: table, json, yaml, junit, sarif")
	validateCmd.Flags().StringVarP(&validateOpts.Output, "output", "o", "", "Output file path (default: stdout)")
	validateCmd.Flags().StringVar(&validateOpts.Today, "today", "", "Date to treat as today, YYYY-MM-DD")
	validateCmd.Flags().BoolVar(&validateOpts.Dump, "dump", false, "Print the normalized document when it is valid")
	validateCmd.Flags().BoolVar(&validateOpts.RedactPersonal, "redact-personal", false, "Hide the CV owner's email and phone in the report")
}

// runValidateAction implements the core logic for the validate command.
func runValidateAction(cc *CommandContext, path string, opts validateOptions, w io.Writer) error {
	// Fail on a bad --format before doing any work.
	formatter, err := output.NewFormatterFactory().Create(opts.Format, w, output.FormatterOptions{Indent: true})
	if err != nil {
		return err
	}

	slog.Info("validating document", "path", path)
	resp, err := cc.Container.ValidateUseCase().Execute(cc.Context, dto.ValidateRequest{
		DocumentPath: path,
		Options:      validateOptionsFor(cc, opts.RedactPersonal, opts.Today),
	})
	if err != nil {
		return fmt.Errorf("failed to validate %s: %w", path, err)
	}

	if opts.Dump && resp.Report.Valid {
		data, err := output.DocumentYAML(resp.Document)
		if err != nil {
			return fmt.Errorf("failed to dump document: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		return nil
	}

	if err := formatter.Format(resp.Report); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if _, err := services.Compiled(resp); err != nil {
		return err
	}
	return nil
}

// validateOptionsFor merges command flags with the system config.
func validateOptionsFor(cc *CommandContext, redactPersonal bool, today string) dto.ValidateOptions {
	return dto.ValidateOptions{
		RedactPersonal: redactPersonal || cc.Container.SystemConfig().Redaction.Personal,
		Today:          today,
	}
}
