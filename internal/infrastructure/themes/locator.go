// Package themes finds custom theme directories on disk.
package themes

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"

	apperrors "github.com/vitae-cv/vitae/internal/application/errors"
	"github.com/vitae-cv/vitae/internal/domain/entities"
)

// ManifestFile is the optional declarative options file of a theme.
const ManifestFile = "theme.yaml"

const maxManifestSize = 1 << 20

// Locator searches a list of root directories, in order, for a directory
// named after the theme.
type Locator struct {
	roots []string
}

// NewLocator creates a locator over roots. An empty root means the
// working directory.
func NewLocator(roots ...string) *Locator {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if r == "" {
			r = "."
		}
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return &Locator{roots: out}
}

// Roots returns the directories searched, in order.
func (l *Locator) Roots() []string {
	return slices.Clone(l.roots)
}

// Locate returns the first directory named name under the roots.
func (l *Locator) Locate(name string) (*entities.ThemeBundle, error) {
	for _, root := range l.roots {
		dir := filepath.Join(root, name)
		info, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to inspect theme directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			continue
		}
		return load(name, dir)
	}

	return nil, fmt.Errorf("custom theme directory %s not found in %v: %w",
		name, l.roots, apperrors.NewNotFoundError("theme", name))
}

func load(name, dir string) (*entities.ThemeBundle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list theme directory %s: %w", dir, err)
	}

	bundle := &entities.ThemeBundle{Name: name, Dir: dir}
	for _, e := range entries {
		if e.Type().IsRegular() {
			bundle.Files = append(bundle.Files, e.Name())
		}
	}

	if slices.Contains(bundle.Files, ManifestFile) {
		m, err := readManifest(dir)
		if err != nil {
			return nil, err
		}
		bundle.Manifest = m
	}
	return bundle, nil
}

func readManifest(dir string) (*entities.ThemeManifest, error) {
	// Security: Use os.OpenRoot to keep reads inside the theme directory
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open theme directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	f, err := root.Open(ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", ManifestFile, err)
	}
	defer func() {
		_ = f.Close() // Best-effort cleanup
	}()

	data, err := io.ReadAll(io.LimitReader(f, maxManifestSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ManifestFile, err)
	}
	if len(data) > maxManifestSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", ManifestFile, maxManifestSize)
	}

	var m entities.ThemeManifest
	if err := yaml.UnmarshalWithOptions(data, &m, yaml.Strict()); err != nil {
		path := filepath.Join(dir, ManifestFile)
		return nil, apperrors.NewFormatError(path, 0, 0, fmt.Errorf("invalid theme manifest: %w", err))
	}
	return &m, nil
}
