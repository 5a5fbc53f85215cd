// Package entities contains the domain model of a CV document.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"time"

	"github.com/vitae-cv/vitae/internal/domain/locale"
)

// Document is a fully validated CV document. It is the aggregate root
// produced by the DocumentCompiler and consumed by renderers.
//
// Aggregate Boundary:
// - Document is the root
// - Sections and their entries are owned by value
// - Locale travels with the document and is passed to every formatter
type Document struct {
	CV       Curriculum     `yaml:"cv" json:"cv"`
	Design   ThemeOptions   `yaml:"design" json:"design"`
	Locale   locale.Catalog `yaml:"locale" json:"locale"`
	Settings Settings       `yaml:"settings,omitempty" json:"settings,omitempty"`

	// Extensions collects keys of the open extension points (locale and
	// settings.render) that have no typed field, last write wins.
	Extensions map[string]any `yaml:"-" json:"extensions,omitempty"`

	// Today is the date "present" resolved against.
	Today time.Time `yaml:"-" json:"-"`
}

// Settings is the optional "settings" block.
type Settings struct {
	// Date overrides today's date, YYYY-MM-DD.
	Date         string         `yaml:"date,omitempty" json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BoldKeywords []string       `yaml:"bold_keywords,omitempty" json:"bold_keywords,omitempty" validate:"dive,required"`
	SectionOrder []string       `yaml:"section_order,omitempty" json:"section_order,omitempty" validate:"dive,required"`
	Render       RenderSettings `yaml:"render,omitempty" json:"render,omitempty"`
}

// RenderSettings are the typed keys of settings.render. Any other key is
// accepted and lands in Document.Extensions.
type RenderSettings struct {
	OutputDir string   `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	Formats   []string `yaml:"formats,omitempty" json:"formats,omitempty" validate:"dive,oneof=markdown html pdf"`
}

// Section returns the section with the given display title.
func (d *Document) Section(title string) (*Section, bool) {
	return d.CV.Sections.Find(title)
}

// SectionCount returns the number of sections.
func (d *Document) SectionCount() int {
	return len(d.CV.Sections)
}

// EntryCount returns the number of entries across all sections.
func (d *Document) EntryCount() int {
	n := 0
	for _, s := range d.CV.Sections {
		n += len(s.Entries)
	}
	return n
}
