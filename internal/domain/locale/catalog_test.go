package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_MonthLookups(t *testing.T) {
	c := English()

	assert.Equal(t, "Jan", c.MonthAbbreviation(time.January))
	assert.Equal(t, "December", c.MonthName(time.December))
	assert.Empty(t, c.MonthName(0))

	m, ok := c.ParseMonth("sept")
	assert.True(t, ok)
	assert.Equal(t, time.September, m)

	_, ok = c.ParseMonth("Smarch")
	assert.False(t, ok)
}

func TestCatalog_MergeDoesNotAlias(t *testing.T) {
	base := English()
	override := Catalog{
		Present:    "heute",
		MonthNames: []string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	}

	merged := base.Merge(override)
	assert.Equal(t, "heute", merged.Present)
	assert.Equal(t, "März", merged.MonthName(time.March))
	assert.Equal(t, "years", merged.Years, "unset fields keep their base value")

	override.MonthNames[2] = "changed"
	assert.Equal(t, "März", merged.MonthName(time.March))
	assert.Equal(t, "March", base.MonthName(time.March))
}

func TestDefault_OverrideByValue(t *testing.T) {
	t.Cleanup(ResetDefault)

	custom := English()
	custom.Present = "now"
	SetDefault(custom)

	custom.Present = "mutated after store"
	assert.Equal(t, "now", Default().Present)

	d := Default()
	d.MonthAbbreviations[0] = "XXX"
	assert.Equal(t, "Jan", Default().MonthAbbreviation(time.January))

	ResetDefault()
	assert.Equal(t, "present", Default().Present)
}
