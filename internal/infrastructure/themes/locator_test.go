package themes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vitae-cv/vitae/internal/application/errors"
	"github.com/vitae-cv/vitae/internal/domain/entities"
)

func writeTheme(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for file, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o600))
	}
	return dir
}

func TestLocator_Locate(t *testing.T) {
	root := t.TempDir()
	dir := writeTheme(t, root, "mytheme", map[string]string{
		"Header.tmpl":   "<h1>{{ .Name }}</h1>",
		"Preamble.tmpl": "",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "assets"), 0o755))

	bundle, err := NewLocator(root).Locate("mytheme")
	require.NoError(t, err)

	assert.Equal(t, "mytheme", bundle.Name)
	assert.Equal(t, dir, bundle.Dir)
	assert.ElementsMatch(t, []string{"Header.tmpl", "Preamble.tmpl"}, bundle.Files)
	assert.Nil(t, bundle.Manifest)
}

func TestLocator_SearchOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeTheme(t, second, "mytheme", map[string]string{"Header.tmpl": ""})

	bundle, err := NewLocator(first, second).Locate("mytheme")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, "mytheme"), bundle.Dir)

	writeTheme(t, first, "mytheme", map[string]string{"Header.tmpl": ""})
	bundle, err = NewLocator(first, second).Locate("mytheme")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(first, "mytheme"), bundle.Dir)
}

func TestLocator_NotFound(t *testing.T) {
	root := t.TempDir()
	// A regular file with the theme's name is not a theme.
	require.NoError(t, os.WriteFile(filepath.Join(root, "mytheme"), nil, 0o600))

	_, err := NewLocator(root).Locate("mytheme")
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "theme", nf.Kind)
	assert.Contains(t, err.Error(), "custom theme directory mytheme not found")
}

func TestLocator_Manifest(t *testing.T) {
	root := t.TempDir()
	writeTheme(t, root, "mytheme", map[string]string{
		ManifestFile: `requires: ">= 1.0.0"
options_schema:
  type: object
  properties:
    accent:
      enum: [blue, red]
defaults:
  accent: blue
rules:
  - expr: accent != "red" || theme == "mytheme"
    message: red needs mytheme
`,
	})

	bundle, err := NewLocator(root).Locate("mytheme")
	require.NoError(t, err)
	require.NotNil(t, bundle.Manifest)

	m := bundle.Manifest
	assert.Equal(t, ">= 1.0.0", m.Requires)
	assert.Equal(t, "object", m.OptionsSchema["type"])
	assert.Equal(t, map[string]any{"accent": "blue"}, m.Defaults)
	assert.Equal(t, []entities.ThemeRule{{Expr: `accent != "red" || theme == "mytheme"`, Message: "red needs mytheme"}}, m.Rules)
}

func TestLocator_InvalidManifest(t *testing.T) {
	root := t.TempDir()
	writeTheme(t, root, "mytheme", map[string]string{ManifestFile: "requires: 1\nunknown_key: true\n"})

	_, err := NewLocator(root).Locate("mytheme")
	var fe *apperrors.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, filepath.Join(root, "mytheme", ManifestFile), fe.Path)
}

func TestNewLocator_Roots(t *testing.T) {
	l := NewLocator("", "themes", ".", "themes")
	assert.Equal(t, []string{".", "themes"}, l.Roots())
}
