// Package dates parses the loosely-typed date values found in CV documents
// and turns them into display strings and time spans.
//
// Everything here is a pure function: "today" is always passed in, and the
// locale catalog is an explicit argument.
package dates

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Precision records how much of a date the user actually wrote.
type Precision int

// Date precisions, finest first.
const (
	PrecisionDay Precision = iota + 1
	PrecisionMonth
	PrecisionYear
)

// PresentKeyword is the only non-date literal accepted for an end date.
const PresentKeyword = "present"

var (
	dayPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
)

// CalendarDate is a parsed date together with the precision it was given in.
// Month and Day are filled with 1 when the input was coarser.
type CalendarDate struct {
	Year      int
	Month     time.Month
	Day       int
	Precision Precision
	Present   bool
}

// IsZero reports whether d is the zero value (no date).
func (d CalendarDate) IsZero() bool {
	return d.Precision == 0
}

// Time returns d as midnight UTC.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the canonical input form of d, so that parsing the result
// yields d again (except for "present", which re-resolves against today).
func (d CalendarDate) String() string {
	switch {
	case d.IsZero():
		return ""
	case d.Present:
		return PresentKeyword
	case d.Precision == PrecisionYear:
		return fmt.Sprintf("%04d", d.Year)
	case d.Precision == PrecisionMonth:
		return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
	}
}

// Compare orders d and other at the coarser of their two precisions.
// It returns -1, 0 or +1.
func (d CalendarDate) Compare(other CalendarDate) int {
	p := max(d.Precision, other.Precision)
	a, b := d.truncate(p), other.truncate(p)
	return a.Time().Compare(b.Time())
}

func (d CalendarDate) truncate(p Precision) CalendarDate {
	out := d
	if p >= PrecisionMonth {
		out.Day = 1
	}
	if p >= PrecisionYear {
		out.Month = time.January
	}
	return out
}

// Today builds a day-precision date from t.
func Today(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day(), Precision: PrecisionDay}
}

// Parse converts a raw date value into a CalendarDate.
//
// Accepted inputs: an integer year, "YYYY-MM-DD", "YYYY-MM", "YYYY", a
// time.Time, or "present" (resolved to today).
func Parse(v any, today time.Time) (CalendarDate, error) {
	switch x := v.(type) {
	case time.Time:
		return CalendarDate{Year: x.Year(), Month: x.Month(), Day: x.Day(), Precision: PrecisionDay}, nil
	case string:
		return parseString(x, today)
	}

	if year, ok := asInt(v); ok {
		if year < 1 || year > 9999 {
			return CalendarDate{}, &InvalidDateFormatError{Value: v}
		}
		return CalendarDate{Year: year, Month: time.January, Day: 1, Precision: PrecisionYear}, nil
	}

	return CalendarDate{}, &InvalidDateFormatError{Value: v}
}

func parseString(s string, today time.Time) (CalendarDate, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == PresentKeyword:
		d := Today(today)
		d.Present = true
		return d, nil
	case dayPattern.MatchString(s):
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return CalendarDate{}, &InvalidDateFormatError{Value: s}
		}
		return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day(), Precision: PrecisionDay}, nil
	case monthPattern.MatchString(s):
		t, err := time.Parse("2006-01", s)
		if err != nil {
			return CalendarDate{}, &InvalidDateFormatError{Value: s}
		}
		return CalendarDate{Year: t.Year(), Month: t.Month(), Day: 1, Precision: PrecisionMonth}, nil
	case yearPattern.MatchString(s):
		year, _ := strconv.Atoi(s)
		return CalendarDate{Year: year, Month: time.January, Day: 1, Precision: PrecisionYear}, nil
	default:
		return CalendarDate{}, &InvalidDateFormatError{Value: s}
	}
}

// asInt accepts every integer kind a YAML or JSON decoder may produce,
// including integral floats.
func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint:
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case uint64:
		if x > math.MaxInt32 {
			return 0, false
		}
		return int(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	}
	return 0, false
}

// Text renders a raw date value as the string the user wrote.
// Integers become their decimal form; nil becomes "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case time.Time:
		return x.Format("2006-01-02")
	}
	if n, ok := asInt(v); ok {
		return strconv.Itoa(n)
	}
	return fmt.Sprint(v)
}
