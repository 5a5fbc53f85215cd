package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/issues"
)

func completeBundle(manifest *entities.ThemeManifest) *entities.ThemeBundle {
	files := []string{"theme.yaml"}
	for _, role := range entities.TemplateRoles() {
		files = append(files, role+".tmpl")
	}
	return &entities.ThemeBundle{Name: "mytheme", Dir: "/work/mytheme", Files: files, Manifest: manifest}
}

func Test_ThemeValidator_BuiltinOverrides(t *testing.T) {
	v := NewThemeValidator(NewFieldDecoder(), nil, "")

	opts, errs := v.Resolve(map[string]any{
		"theme":   "moderncv",
		"margins": map[string]any{"page": map[string]any{"top": "1cm"}},
	}, "design")
	require.Empty(t, errs)

	base := opts.Base()
	assert.Equal(t, "1cm", base.Margins.Page.Top)
	assert.Equal(t, "2cm", base.Margins.Page.Bottom, "unset nested fields keep defaults")
	assert.Equal(t, "Fontin", base.Font)
}

func Test_ThemeValidator_CustomNames(t *testing.T) {
	v := NewThemeValidator(NewFieldDecoder(), fakeLocator{bundle: completeBundle(nil)}, "")

	_, errs := v.Resolve(map[string]any{"theme": "my-theme2"}, "design")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "may only contain letters")

	_, errs = v.Resolve(map[string]any{}, "design")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "design.theme")
}

func Test_ThemeValidator_MissingTemplates(t *testing.T) {
	bundle := completeBundle(nil)
	bundle.Files = []string{"Preamble.tmpl", "Header.tmpl"}
	v := NewThemeValidator(NewFieldDecoder(), fakeLocator{bundle: bundle}, "")

	_, errs := v.Resolve(map[string]any{"theme": "mytheme"}, "design")
	require.Len(t, errs, len(entities.TemplateRoles())-2)

	var structural *issues.StructuralError
	require.ErrorAs(t, errs[0], &structural)
	assert.Contains(t, structural.Message, "SectionBeginning.tmpl")
}

func Test_ThemeValidator_NoManifestAcceptsOnlyTheme(t *testing.T) {
	v := NewThemeValidator(NewFieldDecoder(), fakeLocator{bundle: completeBundle(nil)}, "")

	opts, errs := v.Resolve(map[string]any{"theme": "mytheme"}, "design")
	require.Empty(t, errs)
	custom := opts.(*entities.CustomThemeOptions)
	assert.Equal(t, "/work/mytheme", custom.Dir)
	assert.Nil(t, custom.Base())

	_, errs = v.Resolve(map[string]any{"theme": "mytheme", "accent": "red"}, "design")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "design.accent")
}

func Test_ThemeValidator_Manifest(t *testing.T) {
	manifest := &entities.ThemeManifest{
		Requires: ">= 1.0.0",
		OptionsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"theme":     map[string]any{"type": "string"},
				"accent":    map[string]any{"enum": []any{"red", "blue"}},
				"font_size": map[string]any{"type": "number"},
			},
			"additionalProperties": false,
		},
		Defaults: map[string]any{"accent": "blue", "font_size": 10},
		Rules: []entities.ThemeRule{
			{Expr: "font_size >= 8", Message: "font_size must be at least 8"},
		},
	}

	t.Run("defaults applied", func(t *testing.T) {
		v := NewThemeValidator(NewFieldDecoder(), fakeLocator{bundle: completeBundle(manifest)}, "1.2.0")
		opts, errs := v.Resolve(map[string]any{"theme": "mytheme", "font_size": 11}, "design")
		require.Empty(t, errs)
		custom := opts.(*entities.CustomThemeOptions)
		assert.Equal(t, "blue", custom.Options["accent"])
		assert.Equal(t, 11, custom.Options["font_size"])
	})

	t.Run("schema errors are located", func(t *testing.T) {
		v := NewThemeValidator(NewFieldDecoder(), fakeLocator{bundle: completeBundle(manifest)}, "1.2.0")
		_, errs := v.Resolve(map[string]any{"theme": "mytheme", "accent": "green"}, "design")
		require.Len(t, errs, 1)
		fe, ok := errs[0].(*issues.FieldError)
		require.True(t, ok)
		assert.Equal(t, "design.accent", fe.Location)
		assert.Equal(t, "green", fe.Input)
	})

	t.Run("rules", func(t *testing.T) {
		v := NewThemeValidator(NewFieldDecoder(), fakeLocator{bundle: completeBundle(manifest)}, "1.2.0")
		_, errs := v.Resolve(map[string]any{"theme": "mytheme", "font_size": 6}, "design")
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "font_size must be at least 8")
	})

	t.Run("version constraint", func(t *testing.T) {
		v := NewThemeValidator(NewFieldDecoder(), fakeLocator{bundle: completeBundle(manifest)}, "0.9.0")
		_, errs := v.Resolve(map[string]any{"theme": "mytheme"}, "design")
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "requires vitae")

		dev := NewThemeValidator(NewFieldDecoder(), fakeLocator{bundle: completeBundle(manifest)}, "dev")
		_, errs = dev.Resolve(map[string]any{"theme": "mytheme"}, "design")
		assert.Empty(t, errs, "unversioned builds skip the check")
	})
}

func Test_mergeDefaults(t *testing.T) {
	got := mergeDefaults(
		map[string]any{"a": 1, "nested": map[string]any{"x": 1, "y": 2}},
		map[string]any{"b": 2, "nested": map[string]any{"y": 3}},
	)
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "nested": map[string]any{"x": 1, "y": 3}}, got)
}
