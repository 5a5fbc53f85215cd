package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/vitae-cv/vitae/internal/domain/dates"
	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/issues"
	"github.com/vitae-cv/vitae/internal/domain/values"
)

// SectionAssembler validates the raw "sections" mapping into typed sections.
//
// The first entry of a section decides the section's variant; every other
// entry is decoded against that variant, so a heterogeneous section fails
// on its first mismatching entry with the inferred variant in the message.
type SectionAssembler struct {
	resolver *EntryTypeResolver
	decoder  *FieldDecoder
}

// NewSectionAssembler creates a section assembler.
func NewSectionAssembler(resolver *EntryTypeResolver, decoder *FieldDecoder) *SectionAssembler {
	return &SectionAssembler{resolver: resolver, decoder: decoder}
}

// Assemble validates every section under path (normally "cv.sections").
// today resolves "present" end dates.
func (a *SectionAssembler) Assemble(raw entities.RawSections, path string, today time.Time) (entities.Sections, *issues.Report) {
	report := issues.NewReport()
	sections := make(entities.Sections, 0, len(raw))
	seen := make(map[string]string, len(raw))

	for _, rs := range raw {
		loc := JoinPath(path, rs.Key)
		title := values.NormalizeTitle(rs.Key)

		if first, dup := seen[title]; dup {
			report.Add(issues.NewStructuralError(loc, rs.Key,
				fmt.Sprintf("duplicate section title %q (also used by %q)", title, first), nil))
			continue
		}
		seen[title] = rs.Key

		if rs.Entries == nil && rs.Value != nil {
			report.Add(issues.NewFieldError(loc, rs.Value, "a section must be a list of entries"))
			continue
		}
		if len(rs.Entries) == 0 {
			report.Add(issues.NewFieldError(loc, nil, "a section must contain at least one entry"))
			continue
		}

		entryType, err := a.resolver.Resolve(rs.Entries[0])
		if err != nil {
			var amb *issues.AmbiguousEntryError
			if errors.As(err, &amb) {
				amb.Location = JoinPath(loc, "0")
			}
			report.Add(err)
			continue
		}

		section := entities.Section{Title: title, EntryType: entryType}
		var entryErrs []error
		for i, rawEntry := range rs.Entries {
			entry, errs := a.decodeEntry(entryType, rawEntry, JoinPath(loc, strconv.Itoa(i)), today)
			if len(errs) > 0 {
				entryErrs = append(entryErrs, errs...)
				continue
			}
			section.Entries = append(section.Entries, entry)
		}
		if len(entryErrs) > 0 {
			report.Add(&issues.SectionError{
				Location:  loc,
				Title:     title,
				EntryType: entryType.String(),
				Errors:    entryErrs,
			})
			continue
		}
		sections = append(sections, section)
	}

	return sections, report
}

func (a *SectionAssembler) decodeEntry(t entities.EntryType, raw any, loc string, today time.Time) (entities.Entry, []error) {
	if t == entities.EntryTypeText {
		s, ok := raw.(string)
		if !ok {
			return nil, []error{issues.NewFieldError(loc, raw, "expected a text entry like the first entry of this section")}
		}
		return entities.TextEntry(s), nil
	}

	record, ok := raw.(map[string]any)
	if !ok {
		return nil, []error{issues.NewFieldError(loc, raw, fmt.Sprintf("expected a %s like the first entry of this section", t))}
	}

	entry := t.New()
	if errs := a.decoder.DecodeAndValidate(loc, record, entry); len(errs) > 0 {
		return nil, errs
	}

	if dated, ok := entry.(entities.Dated); ok {
		if errs := normalizeDates(dated, record, loc, today); len(errs) > 0 {
			return nil, errs
		}
	}
	return entry, nil
}

// normalizeDates runs after the entry's fields decoded cleanly, so the
// ordering check only ever sees well-typed inputs. Both bounds are reported
// when both are malformed.
func normalizeDates(e entities.Dated, record map[string]any, loc string, today time.Time) []error {
	start, end, date := e.RawDates()
	r, err := dates.Normalize(start, end, date, today)
	if err == nil {
		e.ApplyDates(r)
		return nil
	}

	var out []error
	for _, cause := range unjoin(err) {
		var formatErr *dates.InvalidDateFormatError
		if !errors.As(cause, &formatErr) {
			continue
		}
		msg := "this is not a valid date; use YYYY-MM-DD, YYYY-MM, or YYYY, or \"present\""
		if formatErr.PresentNotAllowed {
			msg = "\"present\" is only allowed in end_date"
		}
		out = append(out, issues.NewFieldError(JoinPath(loc, formatErr.Field), record[formatErr.Field], msg))
	}
	if len(out) > 0 {
		return out
	}

	var orderErr *dates.DateOrderingError
	if errors.As(err, &orderErr) {
		return []error{issues.NewStructuralError(JoinPath(loc, "start_date"), record["start_date"],
			fmt.Sprintf("start_date (%s) must be before end_date (%s)", orderErr.Start, orderErr.End), err)}
	}
	return []error{issues.NewFieldError(loc, nil, err.Error())}
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
