package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitae-cv/vitae/internal/domain/locale"
)

var today = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  CalendarDate
	}{
		{"full date", "2020-06-15", CalendarDate{Year: 2020, Month: time.June, Day: 15, Precision: PrecisionDay}},
		{"year and month", "2020-06", CalendarDate{Year: 2020, Month: time.June, Day: 1, Precision: PrecisionMonth}},
		{"year string", "2020", CalendarDate{Year: 2020, Month: time.January, Day: 1, Precision: PrecisionYear}},
		{"year int", 2020, CalendarDate{Year: 2020, Month: time.January, Day: 1, Precision: PrecisionYear}},
		{"year uint64", uint64(1999), CalendarDate{Year: 1999, Month: time.January, Day: 1, Precision: PrecisionYear}},
		{"year float", float64(2001), CalendarDate{Year: 2001, Month: time.January, Day: 1, Precision: PrecisionYear}},
		{"timestamp", time.Date(2019, time.May, 2, 0, 0, 0, 0, time.UTC), CalendarDate{Year: 2019, Month: time.May, Day: 2, Precision: PrecisionDay}},
		{"present", "present", CalendarDate{Year: 2024, Month: time.March, Day: 15, Precision: PrecisionDay, Present: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []any{"20222", "202222-20200", "2022-20-20", "invalid", "2022-13", 2020.5, true} {
		_, err := Parse(input, today)
		require.Error(t, err, "input %v", input)

		var fmtErr *InvalidDateFormatError
		assert.ErrorAs(t, err, &fmtErr)
	}
}

func TestCalendarDate_StringRoundTrips(t *testing.T) {
	for _, input := range []string{"2020-06-15", "2020-06", "2020"} {
		d, err := Parse(input, today)
		require.NoError(t, err)
		assert.Equal(t, input, d.String())
	}
}

func TestNormalize(t *testing.T) {
	t.Run("date supersedes bounds", func(t *testing.T) {
		r, err := Normalize("2020-01", "2021-01", "Fall 2020", today)
		require.NoError(t, err)
		assert.Equal(t, "Fall 2020", r.Date)
		assert.True(t, r.Start.IsZero())
		assert.True(t, r.End.IsZero())
		assert.Empty(t, r.TimeSpanString(locale.English()))
	})

	t.Run("start only becomes open range", func(t *testing.T) {
		r, err := Normalize("2023-05", nil, nil, today)
		require.NoError(t, err)
		assert.True(t, r.End.Present)
		assert.Equal(t, "present", r.EndDate())
	})

	t.Run("end only becomes single date", func(t *testing.T) {
		r, err := Normalize(nil, 2019, nil, today)
		require.NoError(t, err)
		assert.Equal(t, "2019", r.Date)
		assert.False(t, r.HasSpan())
	})

	t.Run("nothing at all", func(t *testing.T) {
		r, err := Normalize(nil, "", nil, today)
		require.NoError(t, err)
		assert.True(t, r.IsZero())
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := Normalize("2021-01-01", "2020-01-01", nil, today)
		var orderErr *DateOrderingError
		require.ErrorAs(t, err, &orderErr)
		assert.Equal(t, "2021-01-01", orderErr.Start)
	})

	t.Run("present end is never compared", func(t *testing.T) {
		_, err := Normalize("2030-01-01", "present", nil, today)
		assert.NoError(t, err)
	})

	t.Run("year end compares at year precision", func(t *testing.T) {
		_, err := Normalize("2020-05", 2020, nil, today)
		assert.NoError(t, err)
	})

	t.Run("invalid start names the field", func(t *testing.T) {
		_, err := Normalize("2022-20-20", "2023", nil, today)
		var fmtErr *InvalidDateFormatError
		require.ErrorAs(t, err, &fmtErr)
		assert.Equal(t, "start_date", fmtErr.Field)
	})

	t.Run("invalid end names the field", func(t *testing.T) {
		_, err := Normalize("2022", "someday", nil, today)
		var fmtErr *InvalidDateFormatError
		require.ErrorAs(t, err, &fmtErr)
		assert.Equal(t, "end_date", fmtErr.Field)
	})

	t.Run("lone invalid end is not turned into a date", func(t *testing.T) {
		_, err := Normalize(nil, "invalid", nil, today)
		var fmtErr *InvalidDateFormatError
		require.ErrorAs(t, err, &fmtErr)
		assert.Equal(t, "end_date", fmtErr.Field)
	})

	t.Run("invalid bounds are reported even when date is set", func(t *testing.T) {
		_, err := Normalize("not a date", "later", "2020", today)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "start_date")
		assert.Contains(t, err.Error(), "end_date")
	})

	t.Run("present is not a start", func(t *testing.T) {
		_, err := Normalize("present", nil, nil, today)
		var fmtErr *InvalidDateFormatError
		require.ErrorAs(t, err, &fmtErr)
		assert.Equal(t, "start_date", fmtErr.Field)
		assert.True(t, fmtErr.PresentNotAllowed)
	})
}

func TestTimeSpan(t *testing.T) {
	en := locale.English()
	tests := []struct {
		start, end string
		want       string
	}{
		{"2020-01-01", "2021-01-01", "1 year 1 month"},
		{"2020-01-01", "2020-02-01", "1 month"},
		{"2020-01-01", "2023-03-02", "3 years 2 months"},
		{"2015-09", "2020-06", "4 years 9 months"},
		{"2020-01-01", "2020-01-01", "1 month"},
		{"2020", "2021", "1 year"},
		{"2018", "2022-05", "4 years"},
		{"2020", "2020", "1 year"},
	}

	for _, tt := range tests {
		t.Run(tt.start+"_"+tt.end, func(t *testing.T) {
			s, err := Parse(tt.start, today)
			require.NoError(t, err)
			e, err := Parse(tt.end, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, TimeSpan(s, e, en))
		})
	}
}

func TestFormatDisplay(t *testing.T) {
	en := locale.English()
	d := CalendarDate{Year: 2020, Month: time.September, Day: 1, Precision: PrecisionMonth}

	tests := map[string]string{
		"MONTH_ABBREVIATION YEAR":    "Sept 2020",
		"FULL_MONTH_NAME YEAR":       "September 2020",
		"MONTH_IN_TWO_DIGITS/YEAR":   "09/2020",
		"MONTH.YEAR_IN_TWO_DIGITS":   "9.20",
		"YEAR-MONTH_IN_TWO_DIGITS":   "2020-09",
		"no placeholders":            "no placeholders",
		"FULL_MONTH_NAME (MONTH)":    "September (9)",
		"YEAR_IN_TWO_DIGITS'MONTH":   "20'9",
		"MONTH_ABBREVIATION, YEAR!!": "Sept, 2020!!",
	}
	for tmpl, want := range tests {
		assert.Equal(t, want, FormatDisplay(d, tmpl, en), tmpl)
	}

	year := CalendarDate{Year: 2020, Month: time.January, Day: 1, Precision: PrecisionYear}
	assert.Equal(t, "2020", FormatDisplay(year, "FULL_MONTH_NAME YEAR", en))
}

func TestRange_DisplayStrings(t *testing.T) {
	en := locale.English()

	r, err := Normalize("2015-09", "2020-06", nil, today)
	require.NoError(t, err)
	assert.Equal(t, "Sept 2015 – June 2020", r.DateString(en))
	assert.Equal(t, "2015 – 2020", r.DateStringOnlyYears(en))
	assert.Equal(t, "4 years 9 months", r.TimeSpanString(en))

	open, err := Normalize("2023-01", "present", nil, today)
	require.NoError(t, err)
	assert.Equal(t, "Jan 2023 – present", open.DateString(en))
	assert.Equal(t, "2023 – present", open.DateStringOnlyYears(en))

	single, err := Normalize(nil, nil, "2021-11", today)
	require.NoError(t, err)
	assert.Equal(t, "Nov 2021", single.DateString(en))
	assert.Equal(t, "2021", single.DateStringOnlyYears(en))

	custom := en
	custom.Present = "heute"
	custom.To = "bis"
	assert.Equal(t, "Jan 2023 bis heute", open.DateString(custom))
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{"2020", "2020-01", "2020-01-01", "present", "20222", "2022-20-20", ""} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		d, err := Parse(s, today)
		if err != nil {
			return
		}
		again, err := Parse(d.String(), today)
		if err != nil {
			t.Fatalf("canonical form %q of %q does not reparse: %v", d.String(), s, err)
		}
		if again != d {
			t.Fatalf("reparse of %q changed %+v to %+v", s, d, again)
		}
	})
}
