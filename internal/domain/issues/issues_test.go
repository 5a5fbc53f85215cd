package issues

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitae-cv/vitae/internal/domain/values"
)

func TestFormatInput_RedactsNestedValues(t *testing.T) {
	assert.Equal(t, "2020-13", FormatInput("2020-13"))
	assert.Equal(t, "42", FormatInput(42))
	assert.Equal(t, "", FormatInput(nil))
	assert.Equal(t, "", FormatInput(map[string]any{"a": 1}))
	assert.Equal(t, "", FormatInput([]any{"x"}))
}

func TestReport_AccumulatesAndUnwraps(t *testing.T) {
	r := NewReport()
	assert.NoError(t, r.Err())

	notFound := errors.New("directory mytheme not found")
	r.Add(NewFieldError("cv.email", "nope", "this is not a valid email address"))
	r.Add(NewStructuralError("design.theme", "mytheme", "theme directory not found", notFound))
	r.Add(nil)
	r.Warn("design", "no theme.yaml found")

	require.Error(t, r.Err())
	assert.Equal(t, 2, r.Len())
	assert.ErrorIs(t, r, notFound)

	var structural *StructuralError
	require.ErrorAs(t, r, &structural)
	assert.Equal(t, "design.theme", structural.Location)

	all := r.Issues()
	require.Len(t, all, 3)
	assert.Equal(t, KindField, all[0].Kind)
	assert.Equal(t, "nope", all[0].Input)
	assert.True(t, all[2].Severity.Equals(values.SevWarning))
	assert.Len(t, r.Warnings(), 1)

	assert.Contains(t, r.Error(), "2 problem(s)")
	assert.Contains(t, r.Error(), "cv.email: this is not a valid email address")
}

func TestReport_AddMergesNestedReports(t *testing.T) {
	inner := NewReport()
	inner.Add(NewFieldError("a", nil, "bad"))

	outer := NewReport()
	outer.Add(fmt.Errorf("wrapped: %w", inner))
	assert.Equal(t, 1, outer.Len())
}

func TestSectionError_AddsInferredType(t *testing.T) {
	se := &SectionError{
		Location:  "cv.sections.education",
		Title:     "Education",
		EntryType: "EducationEntry",
		Errors: []error{
			NewFieldError("cv.sections.education.1.institution", nil, "this field is required"),
		},
	}

	got := IssuesOf(se)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, `section "Education" was detected as EducationEntry`)
	assert.Equal(t, "cv.sections.education.1.institution", got[0].Location)
}

func TestAmbiguousEntryError_ListsKeys(t *testing.T) {
	err := &AmbiguousEntryError{Location: "cv.sections.misc.0", Keys: []string{"foo", "bar"}}
	assert.Contains(t, err.Error(), "[foo, bar]")
	assert.Equal(t, KindAmbiguous, err.Issue().Kind)
}

func TestIssuesOf_PlainError(t *testing.T) {
	got := IssuesOf(errors.New("boom"))
	require.Len(t, got, 1)
	assert.Equal(t, "boom", got[0].Message)
	assert.Empty(t, got[0].Location)
}
