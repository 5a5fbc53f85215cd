package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/issues"
)

func Test_EntryTypeResolver_Resolve(t *testing.T) {
	r := NewEntryTypeResolver()

	tests := []struct {
		name string
		raw  any
		want entities.EntryType
	}{
		{"education", map[string]any{"institution": "MIT", "area": "CS"}, entities.EntryTypeEducation},
		{"experience", map[string]any{"company": "Acme", "position": "Engineer"}, entities.EntryTypeExperience},
		{"one line", map[string]any{"label": "Languages", "details": "Go"}, entities.EntryTypeOneLine},
		{"text", "A paragraph about me.", entities.EntryTypeText},
		{"consulting", map[string]any{"client": "Globex", "position": "Advisor"}, entities.EntryTypeConsulting},
		{"publication", map[string]any{"title": "On Go", "authors": []any{"A"}}, entities.EntryTypePublication},
		{"bullet", map[string]any{"bullet": "Did things"}, entities.EntryTypeBullet},
		{"normal", map[string]any{"name": "Side project", "date": "2020"}, entities.EntryTypeNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_EntryTypeResolver_SharedFieldsNeverDecide(t *testing.T) {
	r := NewEntryTypeResolver()

	_, err := r.Resolve(map[string]any{"date": "2020", "location": "Berlin", "position": "CTO"})
	var amb *issues.AmbiguousEntryError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []string{"date", "location", "position"}, amb.Keys)

	_, err = r.Resolve(42)
	assert.ErrorAs(t, err, &amb)
}

func Test_EntryTypeResolver_CharacteristicAttributes(t *testing.T) {
	r := NewEntryTypeResolver()

	assert.Equal(t, []string{"company"}, r.CharacteristicAttributes(entities.EntryTypeExperience))
	assert.Equal(t, []string{"client", "consultancy", "engagements"}, r.CharacteristicAttributes(entities.EntryTypeConsulting))
	assert.Equal(t, []string{"name"}, r.CharacteristicAttributes(entities.EntryTypeNormal))
	assert.Equal(t, []string{"area", "degree", "gpa", "institution", "transcript_url"}, r.CharacteristicAttributes(entities.EntryTypeEducation))
	assert.Equal(t, []string{"authors", "doi", "journal", "title"}, r.CharacteristicAttributes(entities.EntryTypePublication))
	assert.Empty(t, r.CharacteristicAttributes(entities.EntryTypeText))
}
