// Package locale holds the strings and formatting styles used when dates,
// time spans and phone numbers are turned into display text.
//
// A Catalog is a plain value. Validation of a document produces a new
// Catalog and hands it to formatters explicitly; nothing in the validation
// pipeline writes to the process-wide default.
package locale

import (
	"strings"
	"sync/atomic"
	"time"
)

// PhoneFormat selects how phone numbers are displayed.
type PhoneFormat string

// Supported phone number display styles.
const (
	PhoneNational      PhoneFormat = "national"
	PhoneInternational PhoneFormat = "international"
	PhoneE164          PhoneFormat = "E164"
)

// Catalog is the set of locale strings consumed by the date normalizer and
// the derived-field computer.
type Catalog struct {
	Language           string      `yaml:"language" json:"language" validate:"required,language_tag"`
	PhoneNumberFormat  PhoneFormat `yaml:"phone_number_format" json:"phone_number_format" validate:"oneof=national international E164"`
	DateTemplate       string      `yaml:"date_template" json:"date_template" validate:"required"`
	Month              string      `yaml:"month" json:"month" validate:"required"`
	Months             string      `yaml:"months" json:"months" validate:"required"`
	Year               string      `yaml:"year" json:"year" validate:"required"`
	Years              string      `yaml:"years" json:"years" validate:"required"`
	Present            string      `yaml:"present" json:"present" validate:"required"`
	To                 string      `yaml:"to" json:"to" validate:"required"`
	MonthAbbreviations []string    `yaml:"abbreviations_for_months" json:"abbreviations_for_months" validate:"len=12,dive,required"`
	MonthNames         []string    `yaml:"full_names_of_months" json:"full_names_of_months" validate:"len=12,dive,required"`
}

// English returns the built-in English catalog.
func English() Catalog {
	return Catalog{
		Language:          "en",
		PhoneNumberFormat: PhoneNational,
		DateTemplate:      "MONTH_ABBREVIATION YEAR",
		Month:             "month",
		Months:            "months",
		Year:              "year",
		Years:             "years",
		Present:           "present",
		To:                "–",
		MonthAbbreviations: []string{
			"Jan", "Feb", "Mar", "Apr", "May", "June",
			"July", "Aug", "Sept", "Oct", "Nov", "Dec",
		},
		MonthNames: []string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
	}
}

// MonthAbbreviation returns the abbreviated name of m.
func (c Catalog) MonthAbbreviation(m time.Month) string {
	if m < time.January || m > time.December || len(c.MonthAbbreviations) != 12 {
		return ""
	}
	return c.MonthAbbreviations[m-1]
}

// MonthName returns the full name of m.
func (c Catalog) MonthName(m time.Month) string {
	if m < time.January || m > time.December || len(c.MonthNames) != 12 {
		return ""
	}
	return c.MonthNames[m-1]
}

// ParseMonth maps a full or abbreviated month name back to its number.
// Matching is case-insensitive.
func (c Catalog) ParseMonth(name string) (time.Month, bool) {
	name = strings.TrimSpace(name)
	for i := range 12 {
		if i < len(c.MonthNames) && strings.EqualFold(c.MonthNames[i], name) {
			return time.Month(i + 1), true
		}
		if i < len(c.MonthAbbreviations) && strings.EqualFold(c.MonthAbbreviations[i], name) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// Merge returns a copy of c with every non-zero field of override applied.
func (c Catalog) Merge(override Catalog) Catalog {
	out := c.Clone()
	setIf := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setIf(&out.Language, override.Language)
	setIf(&out.DateTemplate, override.DateTemplate)
	setIf(&out.Month, override.Month)
	setIf(&out.Months, override.Months)
	setIf(&out.Year, override.Year)
	setIf(&out.Years, override.Years)
	setIf(&out.Present, override.Present)
	setIf(&out.To, override.To)
	if override.PhoneNumberFormat != "" {
		out.PhoneNumberFormat = override.PhoneNumberFormat
	}
	if len(override.MonthAbbreviations) > 0 {
		out.MonthAbbreviations = append([]string(nil), override.MonthAbbreviations...)
	}
	if len(override.MonthNames) > 0 {
		out.MonthNames = append([]string(nil), override.MonthNames...)
	}
	return out
}

// Clone returns a deep copy of c.
func (c Catalog) Clone() Catalog {
	out := c
	out.MonthAbbreviations = append([]string(nil), c.MonthAbbreviations...)
	out.MonthNames = append([]string(nil), c.MonthNames...)
	return out
}

var current atomic.Pointer[Catalog]

func init() {
	en := English()
	current.Store(&en)
}

// Default returns a copy of the process-wide default catalog.
func Default() Catalog {
	return current.Load().Clone()
}

// SetDefault replaces the process-wide default with a copy of c.
// Later changes to c do not leak into the stored default.
func SetDefault(c Catalog) {
	cp := c.Clone()
	current.Store(&cp)
}

// ResetDefault restores the built-in English catalog as the default.
func ResetDefault() {
	SetDefault(English())
}
