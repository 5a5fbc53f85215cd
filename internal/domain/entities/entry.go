package entities

import (
	"github.com/vitae-cv/vitae/internal/domain/dates"
)

// EntryType identifies one variant of the closed Entry union.
type EntryType int

// Entry variants in declaration order. The resolver tries them in this
// order, so it is part of the contract.
const (
	EntryTypeOneLine EntryType = iota + 1
	EntryTypeNormal
	EntryTypeExperience
	EntryTypeConsulting
	EntryTypeEducation
	EntryTypePublication
	EntryTypeBullet
	EntryTypeText
)

// EntryTypes returns every variant in declaration order.
func EntryTypes() []EntryType {
	return []EntryType{
		EntryTypeOneLine, EntryTypeNormal, EntryTypeExperience, EntryTypeConsulting,
		EntryTypeEducation, EntryTypePublication, EntryTypeBullet, EntryTypeText,
	}
}

// String returns the variant name, which is also the template role name.
func (t EntryType) String() string {
	switch t {
	case EntryTypeOneLine:
		return "OneLineEntry"
	case EntryTypeNormal:
		return "NormalEntry"
	case EntryTypeExperience:
		return "ExperienceEntry"
	case EntryTypeConsulting:
		return "ConsultingEntry"
	case EntryTypeEducation:
		return "EducationEntry"
	case EntryTypePublication:
		return "PublicationEntry"
	case EntryTypeBullet:
		return "BulletEntry"
	case EntryTypeText:
		return "TextEntry"
	default:
		return "UnknownEntry"
	}
}

// MarshalText implements encoding.TextMarshaler
func (t EntryType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// New returns a pointer to an empty record of this variant, ready to be
// decoded into. It returns nil for Text, which is a bare string.
func (t EntryType) New() Entry {
	switch t {
	case EntryTypeOneLine:
		return &OneLineEntry{}
	case EntryTypeNormal:
		return &NormalEntry{}
	case EntryTypeExperience:
		return &ExperienceEntry{}
	case EntryTypeConsulting:
		return &ConsultingEntry{}
	case EntryTypeEducation:
		return &EducationEntry{}
	case EntryTypePublication:
		return &PublicationEntry{}
	case EntryTypeBullet:
		return &BulletEntry{}
	default:
		return nil
	}
}

// Entry is one item of a CV section. The set of implementations is closed;
// switch on Type() to handle every variant.
type Entry interface {
	Type() EntryType
	entry()
}

// Dated is implemented by entries that carry date information.
type Dated interface {
	Entry
	// RawDates returns the user-supplied start_date, end_date and date.
	RawDates() (start, end, date any)
	// ApplyDates stores the normalized range and rewrites the raw fields to
	// their canonical form.
	ApplyDates(r dates.Range)
	DateRange() dates.Range
}

// DateFields is the start/end/date triple shared by dated entries.
type DateFields struct {
	Date      any `yaml:"date,omitempty" json:"date,omitempty" jsonschema:"oneof_type=string;integer"`
	StartDate any `yaml:"start_date,omitempty" json:"start_date,omitempty" jsonschema:"oneof_type=string;integer"`
	EndDate   any `yaml:"end_date,omitempty" json:"end_date,omitempty" jsonschema:"oneof_type=string;integer"`

	dates dates.Range
}

// RawDates implements Dated.
func (d *DateFields) RawDates() (start, end, date any) {
	return d.StartDate, d.EndDate, d.Date
}

// ApplyDates implements Dated.
func (d *DateFields) ApplyDates(r dates.Range) {
	d.dates = r
	d.Date = nonEmpty(r.Date)
	d.StartDate = nonEmpty(r.StartDate())
	d.EndDate = nonEmpty(r.EndDate())
}

// DateRange implements Dated.
func (d *DateFields) DateRange() dates.Range {
	return d.dates
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// OneLineEntry is a single labelled line, such as a skills row.
type OneLineEntry struct {
	Label   string `yaml:"label" json:"label" validate:"required"`
	Details string `yaml:"details" json:"details" validate:"required"`
}

// NormalEntry is the generic fallback for projects and other items.
type NormalEntry struct {
	Name       string `yaml:"name" json:"name" validate:"required"`
	Location   string `yaml:"location,omitempty" json:"location,omitempty"`
	DateFields `yaml:",inline"`
	URL        string   `yaml:"url,omitempty" json:"url,omitempty" validate:"omitempty,url"`
	Summary    string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	Highlights []string `yaml:"highlights,omitempty" json:"highlights,omitempty" validate:"dive,required"`
}

// ExperienceEntry is a position held at a company.
type ExperienceEntry struct {
	Company    string `yaml:"company" json:"company" validate:"required"`
	Position   string `yaml:"position" json:"position" validate:"required"`
	Location   string `yaml:"location,omitempty" json:"location,omitempty"`
	DateFields `yaml:",inline"`
	Summary    string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	Highlights []string `yaml:"highlights,omitempty" json:"highlights,omitempty" validate:"dive,required"`
}

// Engagement is one sub-project of a consulting entry.
type Engagement struct {
	Name       string   `yaml:"name" json:"name" validate:"required"`
	Summary    string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	Highlights []string `yaml:"highlights,omitempty" json:"highlights,omitempty" validate:"dive,required"`
}

// ConsultingEntry is an experience entry with an explicit client and
// optional engagements.
type ConsultingEntry struct {
	Client      string       `yaml:"client" json:"client" validate:"required"`
	Position    string       `yaml:"position" json:"position" validate:"required"`
	Consultancy string       `yaml:"consultancy,omitempty" json:"consultancy,omitempty"`
	Engagements []Engagement `yaml:"engagements,omitempty" json:"engagements,omitempty" validate:"dive"`
	Location    string       `yaml:"location,omitempty" json:"location,omitempty"`
	DateFields  `yaml:",inline"`
	Summary     string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	Highlights  []string `yaml:"highlights,omitempty" json:"highlights,omitempty" validate:"dive,required"`
}

// EducationEntry is a degree or course of study.
type EducationEntry struct {
	Institution   string `yaml:"institution" json:"institution" validate:"required"`
	Area          string `yaml:"area" json:"area" validate:"required"`
	Degree        string `yaml:"degree,omitempty" json:"degree,omitempty"`
	GPA           string `yaml:"gpa,omitempty" json:"gpa,omitempty"`
	TranscriptURL string `yaml:"transcript_url,omitempty" json:"transcript_url,omitempty" validate:"omitempty,url"`
	Location      string `yaml:"location,omitempty" json:"location,omitempty"`
	DateFields    `yaml:",inline"`
	Summary       string   `yaml:"summary,omitempty" json:"summary,omitempty"`
	Highlights    []string `yaml:"highlights,omitempty" json:"highlights,omitempty" validate:"dive,required"`
}

// PublicationEntry is a paper or article. Authors keep their order.
type PublicationEntry struct {
	Title   string   `yaml:"title" json:"title" validate:"required"`
	Authors []string `yaml:"authors" json:"authors" validate:"required,min=1,dive,required"`
	Date    any      `yaml:"date,omitempty" json:"date,omitempty" jsonschema:"oneof_type=string;integer"`
	Journal string   `yaml:"journal,omitempty" json:"journal,omitempty"`
	DOI     string   `yaml:"doi,omitempty" json:"doi,omitempty" validate:"omitempty,doi"`
	URL     string   `yaml:"url,omitempty" json:"url,omitempty" validate:"omitempty,url"`

	dates dates.Range
}

// RawDates implements Dated. Publications only carry a single date.
func (p *PublicationEntry) RawDates() (start, end, date any) {
	return nil, nil, p.Date
}

// ApplyDates implements Dated.
func (p *PublicationEntry) ApplyDates(r dates.Range) {
	p.dates = r
	p.Date = nonEmpty(r.Date)
}

// DateRange implements Dated.
func (p *PublicationEntry) DateRange() dates.Range {
	return p.dates
}

// DOIURL returns the resolver link for the DOI, or "".
func (p *PublicationEntry) DOIURL() string {
	if p.DOI == "" {
		return ""
	}
	return "https://doi.org/" + p.DOI
}

// BulletEntry is a single highlight line.
type BulletEntry struct {
	Bullet string `yaml:"bullet" json:"bullet" validate:"required"`
}

// TextEntry is a bare paragraph.
type TextEntry string

func (*OneLineEntry) Type() EntryType     { return EntryTypeOneLine }
func (*NormalEntry) Type() EntryType      { return EntryTypeNormal }
func (*ExperienceEntry) Type() EntryType  { return EntryTypeExperience }
func (*ConsultingEntry) Type() EntryType  { return EntryTypeConsulting }
func (*EducationEntry) Type() EntryType   { return EntryTypeEducation }
func (*PublicationEntry) Type() EntryType { return EntryTypePublication }
func (*BulletEntry) Type() EntryType      { return EntryTypeBullet }
func (TextEntry) Type() EntryType         { return EntryTypeText }

func (*OneLineEntry) entry()     {}
func (*NormalEntry) entry()      {}
func (*ExperienceEntry) entry()  {}
func (*ConsultingEntry) entry()  {}
func (*EducationEntry) entry()   {}
func (*PublicationEntry) entry() {}
func (*BulletEntry) entry()      {}
func (TextEntry) entry()         {}
