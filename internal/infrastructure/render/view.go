package render

import (
	"strings"

	"github.com/vitae-cv/vitae/internal/domain/dates"
	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/locale"
)

// documentView is the data handed to the Preamble and Header templates.
type documentView struct {
	Name        string
	Connections []entities.Connection
	Sections    []sectionView
	LastUpdated string

	Theme     string
	Color     string
	Font      string
	FontSize  string
	PageSize  string
	Alignment string
	Margins   entities.Margins
	Separator string
	// Options are the design options of a custom theme.
	Options    map[string]any
	Extensions map[string]any
	Language   string
}

// sectionView is the data of SectionBeginning and SectionEnding.
type sectionView struct {
	Title   string
	Type    string
	Entries []entryView
}

// entryView flattens the common parts of every entry variant. Variant
// specific fields stay reachable through Entry.
type entryView struct {
	Type       string
	Title      string
	Subtitle   string
	Location   string
	Date       string
	TimeSpan   string
	URL        string
	Summary    string
	Highlights []string
	Entry      entities.Entry
}

func newDocumentView(doc *entities.Document) documentView {
	v := documentView{
		Name:        doc.CV.Name,
		Connections: doc.CV.Connections,
		Theme:       doc.Design.ThemeName(),
		Extensions:  doc.Extensions,
		Language:    doc.Locale.Language,
		Separator:   "|",
	}

	base := doc.Design.Base()
	onlyYears := false
	switch d := doc.Design.(type) {
	case *entities.CustomThemeOptions:
		v.Options = d.Options
	case *entities.ModernCVThemeOptions:
		onlyYears = d.ShowOnlyYears
	case *entities.ClassicThemeOptions:
		if d.SeparatorBetweenConnections != "" {
			v.Separator = d.SeparatorBetweenConnections
		}
	case *entities.EngineeringResumesThemeOptions:
		if d.SeparatorBetweenConnections != "" {
			v.Separator = d.SeparatorBetweenConnections
		}
	}

	if base != nil {
		v.Color = base.Color
		v.Font = base.Font
		v.FontSize = base.FontSize
		v.PageSize = base.PageSize
		v.Alignment = base.TextAlignment
		v.Margins = base.Margins
		if base.ShowLastUpdatedDate && !doc.Today.IsZero() {
			v.LastUpdated = lastUpdated(doc)
		}
	}

	for _, s := range doc.CV.Sections {
		sv := sectionView{Title: s.Title, Type: s.EntryType.String()}
		// Custom themes decide for themselves whether to print spans.
		showSpan := base == nil || base.ShowsTimespanIn(s.Title)
		for _, e := range s.Entries {
			ev := newEntryView(e, doc.Locale, onlyYears)
			if !showSpan {
				ev.TimeSpan = ""
			}
			sv.Entries = append(sv.Entries, ev)
		}
		v.Sections = append(v.Sections, sv)
	}
	return v
}

func lastUpdated(doc *entities.Document) string {
	d := dates.CalendarDate{
		Year:      doc.Today.Year(),
		Month:     doc.Today.Month(),
		Day:       1,
		Precision: dates.PrecisionMonth,
	}
	return dates.FormatDisplay(d, doc.Locale.DateTemplate, doc.Locale)
}

func newEntryView(e entities.Entry, cat locale.Catalog, onlyYears bool) entryView {
	v := entryView{Type: e.Type().String(), Entry: e}

	if dated, ok := e.(entities.Dated); ok {
		r := dated.DateRange()
		if onlyYears {
			v.Date = r.DateStringOnlyYears(cat)
		} else {
			v.Date = r.DateString(cat)
		}
		v.TimeSpan = r.TimeSpanString(cat)
	}

	switch x := e.(type) {
	case *entities.OneLineEntry:
		v.Title, v.Summary = x.Label, x.Details
	case *entities.NormalEntry:
		v.Title, v.Location, v.URL = x.Name, x.Location, x.URL
		v.Summary, v.Highlights = x.Summary, x.Highlights
	case *entities.ExperienceEntry:
		v.Title, v.Subtitle, v.Location = x.Company, x.Position, x.Location
		v.Summary, v.Highlights = x.Summary, x.Highlights
	case *entities.ConsultingEntry:
		v.Title, v.Subtitle, v.Location = x.Client, x.Position, x.Location
		if x.Consultancy != "" {
			v.Subtitle += ", " + x.Consultancy
		}
		v.Summary, v.Highlights = x.Summary, x.Highlights
	case *entities.EducationEntry:
		v.Title, v.Location, v.URL = x.Institution, x.Location, x.TranscriptURL
		v.Subtitle = x.Area
		if x.Degree != "" {
			v.Subtitle = x.Degree + " in " + x.Area
		}
		v.Summary, v.Highlights = x.Summary, x.Highlights
	case *entities.PublicationEntry:
		v.Title, v.Subtitle, v.Location = x.Title, strings.Join(x.Authors, ", "), x.Journal
		v.URL = x.DOIURL()
		if v.URL == "" {
			v.URL = x.URL
		}
	case *entities.BulletEntry:
		v.Summary = x.Bullet
	case entities.TextEntry:
		v.Summary = string(x)
	}
	return v
}
