package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitae-cv/vitae/internal/domain/dates"
)

func TestEntryType_NewMatchesType(t *testing.T) {
	for _, et := range EntryTypes() {
		e := et.New()
		if et == EntryTypeText {
			assert.Nil(t, e)
			continue
		}
		require.NotNil(t, e, et.String())
		assert.Equal(t, et, e.Type())
	}
	assert.Equal(t, EntryTypeText, TextEntry("hello").Type())
}

func TestTemplateRoles(t *testing.T) {
	roles := TemplateRoles()
	assert.Len(t, roles, 12)
	assert.Equal(t, "Preamble", roles[0])
	assert.Contains(t, roles, "EducationEntry")
	assert.Contains(t, roles, "TextEntry")
}

func TestDefaultThemeOptions(t *testing.T) {
	for _, name := range BuiltinThemes() {
		opts := DefaultThemeOptions(name)
		require.NotNil(t, opts, name)
		assert.Equal(t, name, opts.ThemeName())
		require.NotNil(t, opts.Base())
		assert.NotEmpty(t, opts.Base().Font)
	}
	assert.Nil(t, DefaultThemeOptions("mytheme"))

	classic := DefaultThemeOptions(ThemeClassic).(*ClassicThemeOptions)
	assert.True(t, classic.UseIconsForConnections)
	assert.Equal(t, "#004f90", classic.Color)
}

func TestCustomThemeOptions_Flatten(t *testing.T) {
	c := &CustomThemeOptions{Theme: "mytheme", Options: map[string]any{"accent": "red"}}

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"mytheme","accent":"red"}`, string(data))
	assert.Nil(t, c.Base())
}

func TestSections_MarshalJSONKeepsOrder(t *testing.T) {
	s := Sections{
		{Title: "Zeta", EntryType: EntryTypeText, Entries: []Entry{TextEntry("z")}},
		{Title: "Alpha", EntryType: EntryTypeBullet, Entries: []Entry{&BulletEntry{Bullet: "a"}}},
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":["z"],"Alpha":[{"bullet":"a"}]}`, string(data))

	sec, ok := s.Find("Alpha")
	require.True(t, ok)
	assert.Equal(t, EntryTypeBullet, sec.EntryType)
	assert.Equal(t, []string{"Zeta", "Alpha"}, s.Titles())
}

func TestDateFields_ApplyDatesCanonicalizes(t *testing.T) {
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e := &EducationEntry{Institution: "MIT", Area: "CS"}
	e.StartDate = 2015
	e.EndDate = nil

	start, end, date := e.RawDates()
	r, err := dates.Normalize(start, end, date, today)
	require.NoError(t, err)
	e.ApplyDates(r)

	assert.Equal(t, "2015", e.StartDate)
	assert.Equal(t, "present", e.EndDate)
	assert.Nil(t, e.Date)
	assert.True(t, e.DateRange().HasSpan())
}

func TestDocument_Counts(t *testing.T) {
	d := &Document{CV: Curriculum{Sections: Sections{
		{Title: "A", Entries: []Entry{TextEntry("1"), TextEntry("2")}},
		{Title: "B", Entries: []Entry{TextEntry("3")}},
	}}}
	assert.Equal(t, 2, d.SectionCount())
	assert.Equal(t, 3, d.EntryCount())

	_, ok := d.Section("C")
	assert.False(t, ok)
}
