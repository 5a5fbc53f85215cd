package dates

import (
	"errors"
	"strings"
	"time"

	"github.com/vitae-cv/vitae/internal/domain/locale"
)

// Range is the normalized date information of one entry.
//
// When Date is set it supersedes Start and End, which are then zero.
type Range struct {
	Start CalendarDate
	End   CalendarDate
	// Date is the free-form single date as written by the user.
	Date string

	// date is Date parsed strictly, when it parses.
	date CalendarDate
}

// IsZero reports whether the entry carries no date information at all.
func (r Range) IsZero() bool {
	return r.Date == "" && r.Start.IsZero() && r.End.IsZero()
}

// HasSpan reports whether the range has both bounds.
func (r Range) HasSpan() bool {
	return r.Date == "" && !r.Start.IsZero() && !r.End.IsZero()
}

// Normalize resolves the start_date / end_date / date triple of an entry.
//
// Given bounds are checked first, even when date supersedes them: each must
// be a day, month or year, and only the end may be "present". A non-empty
// date then wins and clears both bounds. A lone end date is treated as a
// single date. A lone start date gets "present" as its end. Concrete bounds
// must be ordered; a "present" end is never compared.
func Normalize(start, end, date any, today time.Time) (Range, error) {
	var (
		s, e             CalendarDate
		startErr, endErr error
	)
	if !isEmpty(start) {
		s, startErr = Parse(start, today)
		if startErr == nil && s.Present {
			startErr = &InvalidDateFormatError{Value: start, PresentNotAllowed: true}
		}
		startErr = withField(startErr, "start_date")
	}
	if !isEmpty(end) {
		e, endErr = Parse(end, today)
		endErr = withField(endErr, "end_date")
	}
	if err := errors.Join(startErr, endErr); err != nil {
		return Range{}, err
	}

	if !isEmpty(date) {
		return singleDate(Text(date), today), nil
	}

	switch {
	case isEmpty(start) && isEmpty(end):
		return Range{}, nil
	case isEmpty(start):
		return singleDate(Text(end), today), nil
	case isEmpty(end):
		e = Today(today)
		e.Present = true
	}

	if !e.Present && s.Compare(e) > 0 {
		return Range{}, &DateOrderingError{Start: s.String(), End: e.String()}
	}

	return Range{Start: s, End: e}, nil
}

func singleDate(text string, today time.Time) Range {
	r := Range{Date: text}
	if d, err := Parse(text, today); err == nil {
		r.date = d
	}
	return r
}

func withField(err error, field string) error {
	var e *InvalidDateFormatError
	if errors.As(err, &e) {
		e.Field = field
	}
	return err
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

// DateString is the display form of the range, e.g. "Sept 2015 – June 2020".
func (r Range) DateString(cat locale.Catalog) string {
	if r.Date != "" {
		switch {
		case r.date.Present:
			return cat.Present
		case !r.date.IsZero():
			return FormatDisplay(r.date, cat.DateTemplate, cat)
		default:
			return r.Date
		}
	}
	if !r.HasSpan() {
		return ""
	}
	return r.join(FormatDisplay(r.Start, cat.DateTemplate, cat), r.endDisplay(cat, func(d CalendarDate) string {
		return FormatDisplay(d, cat.DateTemplate, cat)
	}), cat)
}

// DateStringOnlyYears is DateString restricted to years, e.g. "2015 – 2020".
func (r Range) DateStringOnlyYears(cat locale.Catalog) string {
	yearOf := func(d CalendarDate) string { return CalendarDate{Year: d.Year, Precision: PrecisionYear}.String() }

	if r.Date != "" {
		switch {
		case r.date.Present:
			return cat.Present
		case !r.date.IsZero():
			return yearOf(r.date)
		default:
			return r.Date
		}
	}
	if !r.HasSpan() {
		return ""
	}
	return r.join(yearOf(r.Start), r.endDisplay(cat, yearOf), cat)
}

// TimeSpanString is the duration of the range, e.g. "4 years 9 months".
// Single dates and open ranges have no span.
func (r Range) TimeSpanString(cat locale.Catalog) string {
	if !r.HasSpan() {
		return ""
	}
	return TimeSpan(r.Start, r.End, cat)
}

// StartDate returns the canonical start bound, or "".
func (r Range) StartDate() string { return r.Start.String() }

// EndDate returns the canonical end bound ("present" included), or "".
func (r Range) EndDate() string { return r.End.String() }

func (r Range) endDisplay(cat locale.Catalog, format func(CalendarDate) string) string {
	if r.End.Present {
		return cat.Present
	}
	return format(r.End)
}

func (r Range) join(start, end string, cat locale.Catalog) string {
	return start + " " + cat.To + " " + end
}
