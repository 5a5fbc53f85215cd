package entities

import (
	"bytes"
	"encoding/json"

	"github.com/vitae-cv/vitae/internal/domain/values"
)

// Curriculum is the "cv" block: the person and their sections.
//
// Invariants enforced by the compiler:
// - section titles are unique after normalization
// - every entry of a section has the section's variant
type Curriculum struct {
	Name           string          `yaml:"name" json:"name" validate:"required"`
	Location       string          `yaml:"location,omitempty" json:"location,omitempty"`
	Email          string          `yaml:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone          string          `yaml:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,phone"`
	Website        string          `yaml:"website,omitempty" json:"website,omitempty" validate:"omitempty,http_url"`
	SocialNetworks []SocialNetwork `yaml:"social_networks,omitempty" json:"social_networks,omitempty" validate:"dive"`
	Sections       Sections        `yaml:"sections,omitempty" json:"sections,omitempty"`

	// Connections is derived from the contact fields and social networks.
	Connections []Connection `yaml:"-" json:"connections,omitempty"`
}

// SocialNetwork is one profile link.
type SocialNetwork struct {
	Network  values.Network `yaml:"network" json:"network" validate:"required,network"`
	Username string         `yaml:"username" json:"username" validate:"required"`
}

// URL returns the profile URL.
func (s SocialNetwork) URL() string {
	return values.SocialNetworkURL(s.Network, s.Username)
}

// Connection is one item of the contact line under the name.
type Connection struct {
	Icon        string `yaml:"icon" json:"icon"`
	URL         string `yaml:"url,omitempty" json:"url,omitempty"`
	CleanURL    string `yaml:"clean_url,omitempty" json:"clean_url,omitempty"`
	Placeholder string `yaml:"placeholder" json:"placeholder"`
}

// Section is a titled list of entries that all share one variant.
type Section struct {
	Title     string    `json:"title"`
	EntryType EntryType `json:"entry_type"`
	Entries   []Entry   `json:"entries"`
}

// Sections keeps sections in document order.
type Sections []Section

// Find returns the section with the given display title.
func (s Sections) Find(title string) (*Section, bool) {
	for i := range s {
		if s[i].Title == title {
			return &s[i], true
		}
	}
	return nil, false
}

// Titles returns the section titles in order.
func (s Sections) Titles() []string {
	out := make([]string, len(s))
	for i, sec := range s {
		out[i] = sec.Title
	}
	return out
}

// MarshalJSON writes sections as an ordered title → entries object, the
// same shape they are read in.
func (s Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sec.Title)
		if err != nil {
			return nil, err
		}
		entries, err := json.Marshal(sec.Entries)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(entries)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RawSection is one unvalidated section as read from the document.
type RawSection struct {
	Key     string
	Entries []any
	// Value holds the original value when it was not a list.
	Value any
}

// NewRawSection wraps the value of one "sections" key.
func NewRawSection(key string, v any) RawSection {
	if entries, ok := v.([]any); ok {
		return RawSection{Key: key, Entries: entries}
	}
	return RawSection{Key: key, Value: v}
}

// RawSections keeps the document order of the "sections" mapping.
type RawSections []RawSection
