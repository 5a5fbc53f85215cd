package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vitae-cv/vitae/internal/application/errors"
	"github.com/vitae-cv/vitae/internal/domain/entities"
)

const sampleCV = `
cv:
  name: John Doe
  sections:
    welcome:
      - Hello there
    education:
      - institution: Princeton University
        area: Computer Science
        start_date: 2015-09
        end_date: 2020-06-01
    experience:
      - company: Acme
        position: Engineer
design:
  theme: classic
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDocumentLoader_Load(t *testing.T) {
	path := writeFile(t, "cv.yaml", sampleCV)

	doc, err := NewDocumentLoader().Load(path)
	require.NoError(t, err)

	cv, ok := doc["cv"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "John Doe", cv["name"])

	sections, ok := cv["sections"].(entities.RawSections)
	require.True(t, ok, "sections keep their order")
	require.Len(t, sections, 3)
	assert.Equal(t, "welcome", sections[0].Key)
	assert.Equal(t, "education", sections[1].Key)
	assert.Equal(t, "experience", sections[2].Key)

	edu, ok := sections[1].Entries[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2015-09", edu["start_date"])
	assert.Equal(t, "2020-06-01", edu["end_date"], "timestamps are kept as dates")
}

func TestDocumentLoader_JSONKeepsOrder(t *testing.T) {
	path := writeFile(t, "cv.json", `{
  "cv": {
    "name": "Jane",
    "sections": {"zeta": ["a"], "alpha": ["b"]}
  },
  "design": {"theme": "sb2nov"}
}`)

	doc, err := NewDocumentLoader().Load(path)
	require.NoError(t, err)

	sections := doc["cv"].(map[string]any)["sections"].(entities.RawSections)
	require.Len(t, sections, 2)
	assert.Equal(t, "zeta", sections[0].Key)
	assert.Equal(t, "alpha", sections[1].Key)
}

func TestDocumentLoader_RejectsExtensionBeforeReading(t *testing.T) {
	_, err := NewDocumentLoader().Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), `".toml"`)
}

func TestDocumentLoader_MissingFile(t *testing.T) {
	_, err := NewDocumentLoader().Load(filepath.Join(t.TempDir(), "cv.yaml"))

	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "file", nf.Kind)

	_, err = NewDocumentLoader().Load(filepath.Join(t.TempDir(), "no-such-dir", "cv.yaml"))
	require.ErrorAs(t, err, &nf)
}

func TestDocumentLoader_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unbalanced flow", "cv: [[["},
		{"duplicate key", "cv:\n  name: a\n  name: b\n"},
		{"unterminated quote", "cv:\n  name: \"John\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocumentLoader().Load(writeFile(t, "cv.yml", tt.content))

			var fe *apperrors.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, apperrors.QuotingHint, fe.Hint)
		})
	}
}

func TestDocumentLoader_TopLevelMustBeMapping(t *testing.T) {
	for _, content := range []string{"", "- a\n- b\n", "just text"} {
		_, err := NewDocumentLoader().LoadBytes([]byte(content), FormatYAML)

		var fe *apperrors.FormatError
		require.ErrorAs(t, err, &fe, "content %q", content)
	}
}

func TestDocumentLoader_LoadBytes(t *testing.T) {
	doc, err := NewDocumentLoader().LoadBytes([]byte(sampleCV), "")
	require.NoError(t, err)
	assert.Contains(t, doc, "design")

	_, err = NewDocumentLoader().LoadBytes([]byte(sampleCV), "toml")
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestFormatForPath(t *testing.T) {
	for path, want := range map[string]string{"a.yaml": FormatYAML, "a.YML": FormatYAML, "dir/a.json": FormatJSON} {
		got, err := FormatForPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := FormatForPath("a.txt")
	assert.Error(t, err)
}
