package dates

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vitae-cv/vitae/internal/domain/locale"
)

// Placeholders understood by FormatDisplay.
const (
	PlaceholderFullMonthName     = "FULL_MONTH_NAME"
	PlaceholderMonthAbbreviation = "MONTH_ABBREVIATION"
	PlaceholderMonthInTwoDigits  = "MONTH_IN_TWO_DIGITS"
	PlaceholderMonth             = "MONTH"
	PlaceholderYearInTwoDigits   = "YEAR_IN_TWO_DIGITS"
	PlaceholderYear              = "YEAR"
)

// FormatDisplay renders d through a template such as "MONTH_ABBREVIATION YEAR".
//
// Year-only dates always render as the bare year since they carry no month.
func FormatDisplay(d CalendarDate, template string, cat locale.Catalog) string {
	if d.IsZero() {
		return ""
	}
	if d.Precision == PrecisionYear {
		return strconv.Itoa(d.Year)
	}
	if template == "" {
		template = locale.English().DateTemplate
	}

	// Longer placeholders are listed first so that MONTH never shadows
	// MONTH_ABBREVIATION at the same position.
	r := strings.NewReplacer(
		PlaceholderFullMonthName, cat.MonthName(d.Month),
		PlaceholderMonthAbbreviation, cat.MonthAbbreviation(d.Month),
		PlaceholderMonthInTwoDigits, fmt.Sprintf("%02d", int(d.Month)),
		PlaceholderMonth, strconv.Itoa(int(d.Month)),
		PlaceholderYearInTwoDigits, fmt.Sprintf("%02d", d.Year%100),
		PlaceholderYear, strconv.Itoa(d.Year),
	)
	return r.Replace(template)
}

// TimeSpan renders the duration between two dates.
//
// If either bound is year-only the span is counted in whole years, with a
// floor of one. Otherwise days are split into 365-day years and 30-day
// months, months rounding half to even, with a floor of one month.
func TimeSpan(start, end CalendarDate, cat locale.Catalog) string {
	if start.Precision == PrecisionYear || end.Precision == PrecisionYear {
		years := end.Year - start.Year
		if years < 2 {
			return "1 " + cat.Year
		}
		return fmt.Sprintf("%d %s", years, cat.Years)
	}

	days := int(end.Time().Sub(start.Time()).Hours() / 24)
	years := days / 365
	months := int(math.RoundToEven(float64(days%365) / 30))

	var parts []string
	switch {
	case years == 1:
		parts = append(parts, "1 "+cat.Year)
	case years > 1:
		parts = append(parts, fmt.Sprintf("%d %s", years, cat.Years))
	}
	if months <= 1 {
		parts = append(parts, "1 "+cat.Month)
	} else {
		parts = append(parts, fmt.Sprintf("%d %s", months, cat.Months))
	}
	return strings.Join(parts, " ")
}
