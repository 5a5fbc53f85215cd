package render

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vitae-cv/vitae/internal/application/errors"
	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/services"
	"github.com/vitae-cv/vitae/internal/infrastructure/config"
	"github.com/vitae-cv/vitae/internal/infrastructure/themes"
)

const sampleCV = `
cv:
  name: Jane Doe
  email: jane@example.com
  website: https://janedoe.dev/
  sections:
    summary:
      - I build <reliable> systems in Go and C++.
    experience:
      - company: Acme
        position: Engineer
        location: Berlin
        start_date: 2020-01
        end_date: 2022-06
        highlights:
          - Rewrote the billing pipeline in Go
    consulting:
      - client: Globex
        position: Architect
        consultancy: Initech
        start_date: 2023
        end_date: present
        engagements:
          - name: Data platform
            highlights: [Cut costs by half]
    education:
      - institution: MIT
        area: Computer Science
        degree: BS
        gpa: "3.9"
        date: 2019
    publications:
      - title: On Widgets
        authors: [Jane Doe, John Roe]
        doi: 10.1000/xyz123
        date: 2021-04
    skills:
      - label: Languages
        details: Go, C++, Python
design:
  theme: classic
  show_timespan_in: [Experience]
settings:
  bold_keywords: [Go, C++]
`

var today = time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)

func compile(t *testing.T, src string, opts ...services.CompilerOption) *entities.Document {
	t.Helper()
	raw, err := config.NewDocumentLoader().LoadBytes([]byte(src), config.FormatYAML)
	require.NoError(t, err)
	doc, err := services.NewDocumentCompiler(opts...).CompileAt(raw, today)
	require.NoError(t, err)
	return doc
}

func TestMarkdownRenderer(t *testing.T) {
	r, err := NewMarkdownRenderer()
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, r.Format())

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), compile(t, sampleCV), &buf))
	out := buf.String()

	assert.Contains(t, out, "# Jane Doe")
	assert.Contains(t, out, "[jane@example.com](mailto:jane@example.com)")
	assert.Contains(t, out, "## Experience")
	assert.Contains(t, out, "### Engineer, Acme")
	assert.Contains(t, out, "*Berlin, Jan 2020 – June 2022, 2 years 5 months*")
	assert.Contains(t, out, "- Rewrote the billing pipeline in **Go**")
	assert.Contains(t, out, "I build <reliable> systems in **Go** and **C++**.")
	assert.Contains(t, out, "### Architect, Initech, Globex")
	assert.Contains(t, out, "#### Data platform")
	assert.Contains(t, out, "BS in Computer Science (GPA: 3.9)")
	assert.Contains(t, out, "[On Widgets](https://doi.org/10.1000/xyz123)")
	assert.Contains(t, out, "- **Languages:** **Go**, **C++**, Python")
	assert.Contains(t, out, "last updated May 2024")

	// Sections keep document order.
	assert.Less(t, strings.Index(out, "## Summary"), strings.Index(out, "## Experience"))
	assert.Less(t, strings.Index(out, "## Experience"), strings.Index(out, "## Skills"))
}

func TestMarkdownRenderer_TimespanOnlyInListedSections(t *testing.T) {
	r, err := NewMarkdownRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), compile(t, sampleCV), &buf))

	// Consulting is not in show_timespan_in.
	assert.Contains(t, buf.String(), "*2023 – present*")
}

func TestHTMLRenderer(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, r.Format())

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), compile(t, sampleCV), &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Jane Doe</title>")
	assert.Contains(t, out, `<a href="mailto:jane@example.com">jane@example.com</a>`)
	assert.Contains(t, out, "<h2>Experience</h2>")
	assert.Contains(t, out, "I build &lt;reliable&gt; systems in <strong>Go</strong> and <strong>C++</strong>.")
	assert.Contains(t, out, "size: a4")
	assert.Contains(t, out, "Last updated in May 2024")
	assert.NotContains(t, out, "<reliable>")
}

func TestHTMLRenderer_CustomTheme(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "plain")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, role := range entities.TemplateRoles() {
		content := ""
		switch role {
		case "Header":
			content = `<h1 class="custom">{{ .Name }}</h1>`
		case "ExperienceEntry":
			content = `<p class="job">{{ .Subtitle }} at {{ .Title }} ({{ .Date }}, {{ .TimeSpan }})</p>`
		case "Preamble":
			content = `<style>body { color: {{ index .Options "ink" }}; }</style>`
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, role+".tmpl"), []byte(content), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, themes.ManifestFile), []byte(`
options_schema:
  type: object
  properties:
    ink: {type: string}
defaults:
  ink: black
`), 0o600))

	src := strings.Replace(sampleCV, "theme: classic\n  show_timespan_in: [Experience]", "theme: plain", 1)
	doc := compile(t, src, services.WithThemeLocator(themes.NewLocator(root), "dev"))

	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), doc, &buf))
	out := buf.String()

	assert.Contains(t, out, `<h1 class="custom">Jane Doe</h1>`)
	assert.Contains(t, out, `<p class="job">Engineer at Acme (Jan 2020 – June 2022, 2 years 5 months)</p>`)
	assert.Contains(t, out, "color: black")
	// Roles the theme leaves empty render nothing.
	assert.NotContains(t, out, "<h2>")

	// The shared templates are untouched for the next document.
	buf.Reset()
	require.NoError(t, r.Render(context.Background(), compile(t, sampleCV), &buf))
	assert.NotContains(t, buf.String(), `class="custom"`)
}

func TestKeywordPattern(t *testing.T) {
	assert.Nil(t, keywordPattern(nil))
	assert.Nil(t, keywordPattern([]string{" ", ""}))

	bold := markdownBold([]string{"Go", "Golang"})
	assert.Equal(t, "**Golang** and **Go**, not Google", bold("Golang and Go, not Google"))

	assert.Equal(t, "a &lt;b&gt; <strong>c</strong>", string(htmlBold([]string{"c"})("a <b> c")))
}

type stubRenderer struct {
	format string
	err    error
}

func (s stubRenderer) Format() string { return s.format }

func (s stubRenderer) Render(_ context.Context, doc *entities.Document, w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, s.format+":"+doc.CV.Name)
	return err
}

func TestDocumentRenderer_RenderAll(t *testing.T) {
	doc := compile(t, sampleCV)
	dir := filepath.Join(t.TempDir(), "out")

	d := NewDocumentRenderer(nil, stubRenderer{format: FormatMarkdown}, stubRenderer{format: FormatHTML})
	files, err := d.RenderAll(context.Background(), doc, dir, []string{FormatHTML, FormatMarkdown})
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, FormatHTML, files[0].Format)
	assert.Equal(t, filepath.Join(dir, "jane-doe-cv.html"), files[0].Path)
	assert.Equal(t, filepath.Join(dir, "jane-doe-cv.md"), files[1].Path)

	content, err := os.ReadFile(files[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "markdown:Jane Doe", string(content))
}

func TestDocumentRenderer_Errors(t *testing.T) {
	doc := compile(t, sampleCV)

	t.Run("unsupported format", func(t *testing.T) {
		d := NewDocumentRenderer(nil, stubRenderer{format: FormatMarkdown})
		_, err := d.RenderAll(context.Background(), doc, t.TempDir(), []string{"docx"})
		var renderErr *apperrors.RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, "docx", renderErr.Format)
	})

	t.Run("renderer failure", func(t *testing.T) {
		dir := t.TempDir()
		d := NewDocumentRenderer(nil, stubRenderer{format: FormatPDF, err: errors.New("chrome not found")})
		_, err := d.RenderAll(context.Background(), doc, dir, []string{FormatPDF})
		require.ErrorContains(t, err, "chrome not found")

		_, statErr := os.Stat(filepath.Join(dir, "jane-doe-cv.pdf"))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestFileName(t *testing.T) {
	doc := &entities.Document{CV: entities.Curriculum{Name: "José Álvarez"}}
	assert.Equal(t, "jose-alvarez-cv.pdf", FileName(doc, FormatPDF))

	doc.CV.Name = "???"
	assert.Equal(t, "cv.md", FileName(doc, FormatMarkdown))
}

func TestPDFRenderer(t *testing.T) {
	chrome := ""
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			chrome = p
			break
		}
	}
	if chrome == "" {
		t.Skip("no Chrome binary on PATH")
	}

	html, err := NewHTMLRenderer()
	require.NoError(t, err)
	r := NewPDFRenderer(html, chrome, time.Minute)
	assert.Equal(t, FormatPDF, r.Format())

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), compile(t, sampleCV), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestPageSize(t *testing.T) {
	doc := compile(t, strings.Replace(sampleCV, "theme: classic", "theme: engineeringresumes", 1))
	assert.Equal(t, paperSizes["letter"], pageSize(doc))
}
