package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/vitae-cv/vitae/internal/application/dto"
	"github.com/vitae-cv/vitae/internal/domain/issues"
	"github.com/vitae-cv/vitae/internal/domain/values"
)

// ruleDescriptions describes the rule behind each issue kind.
var ruleDescriptions = map[issues.Kind]string{
	issues.KindField:      "A field has the wrong type or violates a constraint",
	issues.KindStructural: "The document violates a cross-field rule",
	issues.KindAmbiguous:  "An entry does not match any entry type",
	issues.KindOther:      "The document could not be validated",
}

var ruleOrder = []issues.Kind{issues.KindField, issues.KindStructural, issues.KindAmbiguous, issues.KindOther}

type sarifMapper struct {
	report *dto.ValidationReport
	cwd    string // Current working directory
}

func newSARIFMapper(report *dto.ValidationReport) *sarifMapper {
	cwd, _ := os.Getwd() // Best effort, ignore error
	return &sarifMapper{
		report: report,
		cwd:    cwd,
	}
}

// mapToRun populates the SARIF run with rules, results, artifacts, and invocations.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addArtifacts(run)
	m.addInvocation(run)
}

// addRules declares one rule per issue kind.
func (m *sarifMapper) addRules(run *sarif.Run) {
	for _, kind := range ruleOrder {
		desc := ruleDescriptions[kind]
		rule := sarif.NewReportingDescriptor().WithID(string(kind))
		rule.WithName(string(kind))
		rule.WithShortDescription(&sarif.MultiformatMessageString{
			Text: ptrString(desc),
		})
		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: values.SevError.String(),
		})
		run.Tool.Driver.AddRule(rule)
	}
}

// addResults converts issues to SARIF results.
func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, is := range m.report.Issues {
		run.AddResult(m.mapIssue(is))
	}
}

func (m *sarifMapper) mapIssue(is issues.Issue) *sarif.Result {
	result := sarif.NewRuleResult(string(is.Kind))
	result.Level = is.Severity.String()
	result.Kind = "fail"

	msg := is.Message
	if is.Location != "" {
		msg = is.Location + ": " + msg
	}
	result.Message = sarif.NewTextMessage(msg)

	if m.hasArtifact() {
		pLoc := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.report.Source)))
		result.Locations = []*sarif.Location{sarif.NewLocation().WithPhysicalLocation(pLoc)}
	}

	props := sarif.NewPropertyBag()
	props.Add("location", is.Location)
	if is.Input != "" {
		props.Add("input", is.Input)
	}
	result.WithProperties(props)

	return result
}

// hasArtifact reports whether the source is a file rather than an
// in-memory document.
func (m *sarifMapper) hasArtifact() bool {
	return m.report.Source != "" && !strings.HasPrefix(m.report.Source, "<")
}

func (m *sarifMapper) addArtifacts(run *sarif.Run) {
	if !m.hasArtifact() {
		return
	}
	artifact := sarif.NewArtifact().
		WithLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.report.Source)))
	run.AddArtifact(artifact)
}

// normalizeURI converts a file path to a SARIF-compliant URI.
func (m *sarifMapper) normalizeURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path) // Fallback to original
	}

	// Try to make relative to CWD
	if m.cwd != "" {
		if rel, err := filepath.Rel(m.cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}

	// Use absolute file:// URI
	return "file://" + filepath.ToSlash(abs)
}

// addInvocation adds run metadata.
func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()
	invocation.ExecutionSuccessful = ptrBool(true)

	if m.cwd != "" {
		cwd := "file://" + filepath.ToSlash(m.cwd)
		invocation.WorkingDirectory = sarif.NewArtifactLocation().WithURI(cwd)
	}

	props := sarif.NewPropertyBag()
	props.Add("runId", m.report.RunID.String())
	props.Add("valid", m.report.Valid)
	props.Add("summary", m.report.Summary)
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}
