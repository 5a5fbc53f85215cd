package services

import (
	"fmt"
	"maps"
	"sort"
	"strconv"
	"time"

	"github.com/mohae/deepcopy"

	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/issues"
	"github.com/vitae-cv/vitae/internal/domain/locale"
	"github.com/vitae-cv/vitae/internal/domain/values"
)

var topLevelKeys = []string{"cv", "design", "locale", "settings"}

// DocumentCompiler transforms a raw document into a validated Document.
// This is the domain service that owns the document schema.
//
// Compilation steps:
//  1. Deep copy the raw document (the input is never mutated)
//  2. Decode and check every block, accumulating field errors
//  3. Cross-field checks on blocks that decoded cleanly: dates, usernames,
//     connections, theme resolution
//  4. Duplicate titles in the section order override
//  5. Materialize sections in their final order
type DocumentCompiler struct {
	decoder   *FieldDecoder
	assembler *SectionAssembler
	themes    *ThemeValidator
	now       func() time.Time
}

// CompilerOption configures a DocumentCompiler.
type CompilerOption func(*DocumentCompiler)

// WithClock sets the source of "today". Defaults to time.Now.
func WithClock(now func() time.Time) CompilerOption {
	return func(c *DocumentCompiler) {
		c.now = now
	}
}

// WithThemeLocator enables custom themes.
func WithThemeLocator(locator ThemeLocator, runningVersion string) CompilerOption {
	return func(c *DocumentCompiler) {
		c.themes = NewThemeValidator(c.decoder, locator, runningVersion)
	}
}

// NewDocumentCompiler creates a document compiler.
func NewDocumentCompiler(opts ...CompilerOption) *DocumentCompiler {
	decoder := NewFieldDecoder()
	c := &DocumentCompiler{
		decoder:   decoder,
		assembler: NewSectionAssembler(NewEntryTypeResolver(), decoder),
		themes:    NewThemeValidator(decoder, nil, ""),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile validates raw and returns the document. On failure the error is
// an *issues.Report listing every problem found.
//
// The input map is NOT modified.
func (c *DocumentCompiler) Compile(raw map[string]any) (*entities.Document, error) {
	return c.CompileAt(raw, c.now())
}

// CompileAt is Compile with an explicit "today". settings.date in the
// document still takes precedence over now.
func (c *DocumentCompiler) CompileAt(raw map[string]any, now time.Time) (*entities.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("cannot compile nil document")
	}

	doc, _ := deepcopy.Copy(raw).(map[string]any)
	report := issues.NewReport()
	out := &entities.Document{}

	c.checkTopLevel(doc, report)

	settingsRaw, settingsOK := c.block(doc, "settings", false, report)
	extensions := make(map[string]any)
	renderExtra := c.compileSettings(settingsRaw, settingsOK, &out.Settings, report)

	out.Today = resolveToday(out.Settings, now)

	localeRaw, localeOK := c.block(doc, "locale", false, report)
	cat, localeExtra := c.compileLocale(localeRaw, localeOK, report)
	out.Locale = cat

	// Locale first, then render options; later keys win.
	maps.Copy(extensions, localeExtra)
	maps.Copy(extensions, renderExtra)
	if len(extensions) > 0 {
		out.Extensions = extensions
	}

	if cvRaw, ok := c.block(doc, "cv", true, report); ok {
		c.compileCurriculum(cvRaw, out, report)
	}

	if designRaw, ok := c.block(doc, "design", true, report); ok {
		opts, errs := c.themes.Resolve(designRaw, "design")
		for _, err := range errs {
			report.Add(err)
		}
		out.Design = opts
	}

	if report.HasErrors() {
		return nil, report
	}

	// Ordering problems surface only once sections are materialized.
	if err := c.materializeSections(out); err != nil {
		report.Add(err)
		return nil, report
	}

	return out, nil
}

func (c *DocumentCompiler) checkTopLevel(doc map[string]any, report *issues.Report) {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		known := false
		for _, tk := range topLevelKeys {
			if k == tk {
				known = true
				break
			}
		}
		if !known {
			report.Add(issues.NewFieldError(k, doc[k], "this field is not allowed"))
		}
	}
}

// block extracts a mapping-valued top-level key.
func (c *DocumentCompiler) block(doc map[string]any, key string, required bool, report *issues.Report) (map[string]any, bool) {
	v, present := doc[key]
	if !present || v == nil {
		if required {
			report.Add(issues.NewFieldError(key, nil, "this field is required"))
		}
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		report.Add(issues.NewFieldError(key, v, "expected a mapping of keys to values"))
		return nil, false
	}
	return m, true
}

func (c *DocumentCompiler) compileSettings(raw map[string]any, ok bool, out *entities.Settings, report *issues.Report) map[string]any {
	if !ok {
		return nil
	}

	renderRaw, hasRender := raw["render"]
	rest := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "render" {
			rest[k] = v
		}
	}
	addAll(report, c.decoder.DecodeAndValidate("settings", rest, out))

	if !hasRender || renderRaw == nil {
		return nil
	}
	renderMap, isMap := renderRaw.(map[string]any)
	if !isMap {
		report.Add(issues.NewFieldError("settings.render", renderRaw, "expected a mapping of keys to values"))
		return nil
	}
	extra, errs := c.decoder.DecodeOpen("settings.render", renderMap, &out.Render)
	if len(errs) == 0 {
		errs = c.decoder.Validate("settings.render", renderMap, &out.Render)
	}
	addAll(report, errs)
	return extra
}

func (c *DocumentCompiler) compileLocale(raw map[string]any, ok bool, report *issues.Report) (locale.Catalog, map[string]any) {
	base := locale.English()
	if !ok {
		return base, nil
	}

	var override locale.Catalog
	extra, errs := c.decoder.DecodeOpen("locale", raw, &override)
	if len(errs) > 0 {
		addAll(report, errs)
		return base, extra
	}
	merged := base.Merge(override)
	addAll(report, c.decoder.Validate("locale", raw, &merged))
	return merged, extra
}

func (c *DocumentCompiler) compileCurriculum(raw map[string]any, out *entities.Document, report *issues.Report) {
	sectionsRaw, hasSections := raw["sections"]
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "sections" {
			fields[k] = v
		}
	}

	cv := &out.CV
	errs := c.decoder.DecodeAndValidate("cv", fields, cv)
	addAll(report, errs)

	usernamesOK := true
	for i, sn := range cv.SocialNetworks {
		if !sn.Network.IsValid() {
			continue
		}
		if err := values.ValidateUsername(sn.Network, sn.Username); err != nil {
			usernamesOK = false
			loc := JoinPath("cv.social_networks", strconv.Itoa(i), "username")
			report.Add(issues.NewFieldError(loc, sn.Username, err.Error()))
		}
	}

	if len(errs) == 0 && usernamesOK {
		cv.Connections = Connections(*cv, out.Locale)
	}

	if !hasSections || sectionsRaw == nil {
		return
	}
	rawSections, err := toRawSections(sectionsRaw)
	if err != nil {
		report.Add(issues.NewFieldError("cv.sections", sectionsRaw, err.Error()))
		return
	}
	sections, sectionReport := c.assembler.Assemble(rawSections, "cv.sections", out.Today)
	report.Merge(sectionReport)
	cv.Sections = sections
}

// materializeSections applies settings.section_order. Titles listed there
// come first in that order, the rest keep document order.
func (c *DocumentCompiler) materializeSections(doc *entities.Document) error {
	order := doc.Settings.SectionOrder
	if len(order) == 0 {
		return nil
	}

	report := issues.NewReport()
	seen := make(map[string]int, len(order))
	ordered := make(entities.Sections, 0, len(doc.CV.Sections))
	used := make(map[string]bool, len(order))

	for i, key := range order {
		loc := JoinPath("settings.section_order", strconv.Itoa(i))
		title := values.NormalizeTitle(key)
		if prev, dup := seen[title]; dup {
			report.Add(issues.NewStructuralError(loc, key,
				fmt.Sprintf("duplicate section title %q (already listed at position %d)", title, prev), nil))
			continue
		}
		seen[title] = i

		sec, ok := doc.CV.Sections.Find(title)
		if !ok {
			report.Add(issues.NewStructuralError(loc, key,
				fmt.Sprintf("there is no section titled %q", title), nil))
			continue
		}
		ordered = append(ordered, *sec)
		used[title] = true
	}
	if report.HasErrors() {
		return report
	}

	for _, sec := range doc.CV.Sections {
		if !used[sec.Title] {
			ordered = append(ordered, sec)
		}
	}
	doc.CV.Sections = ordered
	return nil
}

func resolveToday(s entities.Settings, now time.Time) time.Time {
	if s.Date != "" {
		if t, err := time.Parse("2006-01-02", s.Date); err == nil {
			return t
		}
	}
	return now
}

// toRawSections accepts the ordered form produced by the loader, or a plain
// map whose keys are then sorted for a stable order.
func toRawSections(v any) (entities.RawSections, error) {
	switch s := v.(type) {
	case entities.RawSections:
		return s, nil
	case map[string]any:
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(entities.RawSections, 0, len(keys))
		for _, k := range keys {
			out = append(out, entities.NewRawSection(k, s[k]))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a mapping of section titles to lists of entries")
	}
}

func addAll(report *issues.Report, errs []error) {
	for _, err := range errs {
		report.Add(err)
	}
}
