// Package render turns validated CV documents into Markdown, HTML and PDF.
package render

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	texttemplate "text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/vitae-cv/vitae/internal/domain/entities"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

const rootTemplate = "document"

// loadTemplate returns the embedded template file for a format.
func loadTemplate(name string) (string, error) {
	content, err := builtinTemplates.ReadFile("templates/" + name + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", name, err)
	}
	return string(content), nil
}

func parseMarkdown() (*texttemplate.Template, error) {
	content, err := loadTemplate("markdown")
	if err != nil {
		return nil, err
	}
	funcs := sprig.TxtFuncMap()
	funcs["bold"] = func(s string) string { return s }

	tmpl, err := texttemplate.New(rootTemplate).Option("missingkey=error").Funcs(funcs).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing template markdown: %w", err)
	}
	return tmpl, nil
}

func parseHTML() (*htmltemplate.Template, error) {
	content, err := loadTemplate("html")
	if err != nil {
		return nil, err
	}
	funcs := sprig.FuncMap()
	funcs["bold"] = func(s string) htmltemplate.HTML { return htmltemplate.HTML(htmltemplate.HTMLEscapeString(s)) }

	tmpl, err := htmltemplate.New(rootTemplate).Option("missingkey=error").Funcs(funcs).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing template html: %w", err)
	}
	return tmpl, nil
}

// overrideRoles parses the <Role>.tmpl files of a custom theme into tmpl,
// replacing the built-in definitions of those roles.
func overrideRoles(tmpl *htmltemplate.Template, dir string) error {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return fmt.Errorf("failed to open theme directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	for _, role := range entities.TemplateRoles() {
		file := role + ".tmpl"
		content, err := readAll(root, file)
		if err != nil {
			return err
		}
		if strings.TrimSpace(content) == "" {
			// An empty definition would not replace the built-in one.
			content = `{{ "" }}`
		}
		if _, err := tmpl.New(role).Parse(content); err != nil {
			return fmt.Errorf("parsing theme template %s: %w", file, err)
		}
	}
	return nil
}

func readAll(root *os.Root, name string) (string, error) {
	f, err := root.Open(name)
	if err != nil {
		return "", fmt.Errorf("failed to open theme template: %w", err)
	}
	defer func() {
		_ = f.Close() // Best-effort cleanup
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read theme template %s: %w", name, err)
	}
	return string(data), nil
}

var wordChar = regexp.MustCompile(`^\w$`)

// keywordPattern matches any of keywords as a whole word, longest first.
// Word boundaries are only required next to word characters, so "C++"
// still matches. It returns nil when there is nothing to match.
func keywordPattern(keywords []string) *regexp.Regexp {
	kws := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			kws = append(kws, k)
		}
	}
	if len(kws) == 0 {
		return nil
	}
	sort.SliceStable(kws, func(i, j int) bool { return len(kws[i]) > len(kws[j]) })

	alts := make([]string, len(kws))
	for i, k := range kws {
		alt := regexp.QuoteMeta(k)
		if wordChar.MatchString(k[:1]) {
			alt = `\b` + alt
		}
		if wordChar.MatchString(k[len(k)-1:]) {
			alt += `\b`
		}
		alts[i] = alt
	}
	return regexp.MustCompile(`(?:` + strings.Join(alts, "|") + `)`)
}

// markdownBold wraps keywords in ** markers.
func markdownBold(keywords []string) func(string) string {
	re := keywordPattern(keywords)
	return func(s string) string {
		if re == nil {
			return s
		}
		return re.ReplaceAllString(s, "**$0**")
	}
}

// htmlBold escapes s and wraps keywords in <strong>.
func htmlBold(keywords []string) func(string) htmltemplate.HTML {
	re := keywordPattern(keywords)
	return func(s string) htmltemplate.HTML {
		if re == nil {
			return htmltemplate.HTML(htmltemplate.HTMLEscapeString(s))
		}
		var b strings.Builder
		last := 0
		for _, loc := range re.FindAllStringIndex(s, -1) {
			b.WriteString(htmltemplate.HTMLEscapeString(s[last:loc[0]]))
			b.WriteString("<strong>")
			b.WriteString(htmltemplate.HTMLEscapeString(s[loc[0]:loc[1]]))
			b.WriteString("</strong>")
			last = loc[1]
		}
		b.WriteString(htmltemplate.HTMLEscapeString(s[last:]))
		return htmltemplate.HTML(b.String()) //nolint:gosec // every piece is escaped above
	}
}
