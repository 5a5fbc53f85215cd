// Package output provides formatters for vitae validation reports.
package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/vitae-cv/vitae/internal/application/dto"
	"github.com/vitae-cv/vitae/internal/version"
)

// SARIFFormatter formats validation reports as SARIF 2.1.0 JSON.
// Each issue kind is a rule; each issue is a result located in the source
// document, with its dotted location as a property.
//
// Usage:
//
//	formatter := output.NewSARIFFormatter(os.Stdout)
//	if err := formatter.Format(report); err != nil {
//	    log.Fatal(err)
//	}
type SARIFFormatter struct {
	writer io.Writer
}

// NewSARIFFormatter creates a new SARIF formatter.
func NewSARIFFormatter(writer io.Writer) *SARIFFormatter {
	return &SARIFFormatter{
		writer: writer,
	}
}

// Format writes the report as SARIF 2.1.0 JSON.
// Returns error if SARIF creation or marshaling fails.
func (f *SARIFFormatter) Format(report *dto.ValidationReport) error {
	sarifReport := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("vitae", "https://github.com/vitae-cv/vitae")
	v := version.Get().Version
	run.Tool.Driver.Version = &v

	mapper := newSARIFMapper(report)
	mapper.mapToRun(run)

	sarifReport.AddRun(run)

	if err := sarifReport.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

func ptrString(s string) *string {
	return &s
}

func ptrBool(b bool) *bool {
	return &b
}
