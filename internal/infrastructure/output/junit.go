package output

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/vitae-cv/vitae/internal/application/dto"
	"github.com/vitae-cv/vitae/internal/domain/issues"
	"github.com/vitae-cv/vitae/internal/domain/values"
)

// JUnitFormatter formats validation reports as JUnit XML, one test case per
// issue, so CI systems can display CV problems like failing tests.
type JUnitFormatter struct {
	writer io.Writer
}

// NewJUnitFormatter creates a new JUnit formatter.
func NewJUnitFormatter(w io.Writer) *JUnitFormatter {
	return &JUnitFormatter{
		writer: w,
	}
}

// JUnitTestSuites JUnit XML structures
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// Format writes the report as JUnit XML. A valid document is a single
// passing test case; warnings are reported as skipped cases.
func (f *JUnitFormatter) Format(report *dto.ValidationReport) error {
	suite := JUnitTestSuite{
		Name: report.Source,
		Time: report.Duration.Seconds(),
		Properties: []JUnitProperty{
			{Name: "run_id", Value: report.RunID.String()},
		},
	}

	if report.Valid {
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Name:      "document",
			ClassName: report.Source,
			Time:      report.Duration.Seconds(),
		})
	}

	for _, is := range report.Issues {
		c := JUnitTestCase{
			Name:      caseName(is),
			ClassName: string(is.Kind),
		}
		if is.Severity.IsBlocking() {
			c.Failure = &JUnitFailure{
				Message: is.Message,
				Type:    string(is.Kind),
				Content: failureContent(is),
			}
			suite.Failures++
		} else {
			c.Skipped = &JUnitSkipped{Message: is.Message}
			suite.Skipped++
		}
		suite.TestCases = append(suite.TestCases, c)
	}
	suite.Tests = len(suite.TestCases)

	suites := JUnitTestSuites{
		Name:       "vitae validation",
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Time:       suite.Time,
		TestSuites: []JUnitTestSuite{suite},
	}

	_, err := f.writer.Write([]byte(xml.Header))
	if err != nil {
		return err
	}

	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}

	_, err = f.writer.Write([]byte("\n"))
	return err
}

func caseName(is issues.Issue) string {
	if is.Location == "" {
		return "document"
	}
	return is.Location
}

func failureContent(is issues.Issue) string {
	out := fmt.Sprintf("Location: %s\n", caseName(is))
	if is.Input != "" {
		out += fmt.Sprintf("Input: %s\n", is.Input)
	}
	if is.Severity != values.SevError {
		out += fmt.Sprintf("Severity: %s\n", is.Severity)
	}
	return out + is.Message + "\n"
}
