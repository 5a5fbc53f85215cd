package entities

import (
	"encoding/json"
	"maps"
	"slices"
)

// Built-in theme names.
const (
	ThemeClassic            = "classic"
	ThemeSB2nov             = "sb2nov"
	ThemeModernCV           = "moderncv"
	ThemeEngineeringResumes = "engineeringresumes"
)

// BuiltinThemes lists the built-in theme names.
func BuiltinThemes() []string {
	return []string{ThemeClassic, ThemeSB2nov, ThemeModernCV, ThemeEngineeringResumes}
}

// IsBuiltinTheme reports whether name is one of the built-in themes.
func IsBuiltinTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// TemplateRoles is the fixed checklist of templates a theme provides,
// one file per role.
func TemplateRoles() []string {
	roles := []string{"Preamble", "Header", "SectionBeginning", "SectionEnding"}
	for _, t := range EntryTypes() {
		roles = append(roles, t.String())
	}
	return roles
}

// ThemeOptions is the resolved "design" block.
type ThemeOptions interface {
	ThemeName() string
	// Base returns the options shared by built-in themes, or nil for a
	// custom theme.
	Base() *BaseThemeOptions
}

// PageMargins are the outer page margins.
type PageMargins struct {
	Top    string `yaml:"top" json:"top" validate:"dimension"`
	Bottom string `yaml:"bottom" json:"bottom" validate:"dimension"`
	Left   string `yaml:"left" json:"left" validate:"dimension"`
	Right  string `yaml:"right" json:"right" validate:"dimension"`
}

// SectionTitleMargins surround section titles.
type SectionTitleMargins struct {
	Top    string `yaml:"top" json:"top" validate:"dimension"`
	Bottom string `yaml:"bottom" json:"bottom" validate:"dimension"`
}

// EntryAreaMargins control spacing around entries.
type EntryAreaMargins struct {
	LeftAndRightMargin string `yaml:"left_and_right_margin" json:"left_and_right_margin" validate:"dimension"`
	VerticalBetween    string `yaml:"vertical_between" json:"vertical_between" validate:"dimension"`
}

// Margins groups every margin setting.
type Margins struct {
	Page         PageMargins         `yaml:"page" json:"page"`
	SectionTitle SectionTitleMargins `yaml:"section_title" json:"section_title"`
	EntryArea    EntryAreaMargins    `yaml:"entry_area" json:"entry_area"`
}

// BaseThemeOptions are shared by every built-in theme.
type BaseThemeOptions struct {
	Theme                string   `yaml:"theme" json:"theme" validate:"required"`
	PageSize             string   `yaml:"page_size" json:"page_size" validate:"oneof=a4 a5 letter legal"`
	Color                string   `yaml:"color" json:"color" validate:"hexcolor"`
	Font                 string   `yaml:"font" json:"font" validate:"required"`
	FontSize             string   `yaml:"font_size" json:"font_size" validate:"dimension"`
	TextAlignment        string   `yaml:"text_alignment" json:"text_alignment" validate:"oneof=left justified"`
	DisablePageNumbering bool     `yaml:"disable_page_numbering" json:"disable_page_numbering"`
	ShowLastUpdatedDate  bool     `yaml:"show_last_updated_date" json:"show_last_updated_date"`
	ShowTimespanIn       []string `yaml:"show_timespan_in" json:"show_timespan_in"`
	Margins              Margins  `yaml:"margins" json:"margins"`
}

// ThemeName implements ThemeOptions.
func (b *BaseThemeOptions) ThemeName() string { return b.Theme }

// Base implements ThemeOptions.
func (b *BaseThemeOptions) Base() *BaseThemeOptions { return b }

// ShowsTimespanIn reports whether time spans are displayed in the section.
func (b *BaseThemeOptions) ShowsTimespanIn(title string) bool {
	return slices.Contains(b.ShowTimespanIn, title)
}

func defaultBase(theme string) BaseThemeOptions {
	return BaseThemeOptions{
		Theme:               theme,
		PageSize:            "a4",
		Color:               "#004f90",
		Font:                "Source Sans 3",
		FontSize:            "10pt",
		TextAlignment:       "justified",
		ShowLastUpdatedDate: true,
		ShowTimespanIn:      []string{},
		Margins: Margins{
			Page:         PageMargins{Top: "2cm", Bottom: "2cm", Left: "2cm", Right: "2cm"},
			SectionTitle: SectionTitleMargins{Top: "0.3cm", Bottom: "0.2cm"},
			EntryArea:    EntryAreaMargins{LeftAndRightMargin: "0.2cm", VerticalBetween: "0.2cm"},
		},
	}
}

// ClassicThemeOptions configure the "classic" theme.
type ClassicThemeOptions struct {
	BaseThemeOptions            `yaml:",inline"`
	HeaderFontSize              string `yaml:"header_font_size" json:"header_font_size" validate:"dimension"`
	UseIconsForConnections      bool   `yaml:"use_icons_for_connections" json:"use_icons_for_connections"`
	SeparatorBetweenConnections string `yaml:"separator_between_connections" json:"separator_between_connections"`
}

// SB2novThemeOptions configure the "sb2nov" theme.
type SB2novThemeOptions struct {
	BaseThemeOptions     `yaml:",inline"`
	DateAndLocationWidth string `yaml:"date_and_location_width" json:"date_and_location_width" validate:"dimension"`
}

// ModernCVThemeOptions configure the "moderncv" theme.
type ModernCVThemeOptions struct {
	BaseThemeOptions `yaml:",inline"`
	ShowOnlyYears    bool `yaml:"show_only_years" json:"show_only_years"`
}

// EngineeringResumesThemeOptions configure the "engineeringresumes" theme.
type EngineeringResumesThemeOptions struct {
	BaseThemeOptions            `yaml:",inline"`
	HeaderFontSize              string `yaml:"header_font_size" json:"header_font_size" validate:"dimension"`
	SeparatorBetweenConnections string `yaml:"separator_between_connections" json:"separator_between_connections"`
}

// DefaultThemeOptions returns the defaults of a built-in theme, or nil if
// the name is not built in.
func DefaultThemeOptions(theme string) ThemeOptions {
	switch theme {
	case ThemeClassic:
		return &ClassicThemeOptions{
			BaseThemeOptions:       defaultBase(theme),
			HeaderFontSize:         "30pt",
			UseIconsForConnections: true,
		}
	case ThemeSB2nov:
		base := defaultBase(theme)
		base.Color = "#000000"
		base.Font = "New Computer Modern"
		return &SB2novThemeOptions{BaseThemeOptions: base, DateAndLocationWidth: "4.1cm"}
	case ThemeModernCV:
		base := defaultBase(theme)
		base.Font = "Fontin"
		return &ModernCVThemeOptions{BaseThemeOptions: base}
	case ThemeEngineeringResumes:
		base := defaultBase(theme)
		base.PageSize = "letter"
		base.Color = "#000000"
		base.Font = "XCharter"
		base.TextAlignment = "left"
		return &EngineeringResumesThemeOptions{
			BaseThemeOptions:            base,
			HeaderFontSize:              "25pt",
			SeparatorBetweenConnections: "|",
		}
	default:
		return nil
	}
}

// CustomThemeOptions is the design block of a theme loaded from disk.
// Options holds every key except "theme", with manifest defaults applied.
type CustomThemeOptions struct {
	Theme   string
	Dir     string
	Options map[string]any
}

// ThemeName implements ThemeOptions.
func (c *CustomThemeOptions) ThemeName() string { return c.Theme }

// Base implements ThemeOptions.
func (c *CustomThemeOptions) Base() *BaseThemeOptions { return nil }

// Flatten returns the design block as it is written in a document.
func (c *CustomThemeOptions) Flatten() map[string]any {
	out := make(map[string]any, len(c.Options)+1)
	maps.Copy(out, c.Options)
	out["theme"] = c.Theme
	return out
}

// MarshalJSON writes the options flattened next to "theme".
func (c *CustomThemeOptions) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Flatten())
}

// MarshalYAML writes the options flattened next to "theme".
func (c *CustomThemeOptions) MarshalYAML() (any, error) {
	return c.Flatten(), nil
}
