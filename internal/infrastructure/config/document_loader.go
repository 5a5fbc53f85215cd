// Package config provides infrastructure for loading CV documents.
// This package handles YAML/JSON parsing and file I/O.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	apperrors "github.com/vitae-cv/vitae/internal/application/errors"
	"github.com/vitae-cv/vitae/internal/domain/entities"
)

// MaxDocumentSize bounds how much of a document file is read.
const MaxDocumentSize = 8 << 20

// Supported document formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var extensions = map[string]string{
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
}

// DocumentLoader reads CV documents into untyped trees, keeping the order
// of cv.sections as written.
type DocumentLoader struct{}

// NewDocumentLoader creates a new document loader.
func NewDocumentLoader() *DocumentLoader {
	return &DocumentLoader{}
}

// FormatForPath returns the document format implied by path's extension.
func FormatForPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extensions[ext]
	if !ok {
		return "", apperrors.NewValidationError("document",
			fmt.Sprintf("unsupported file extension %q; use .yaml, .yml or .json", ext))
	}
	return format, nil
}

// Load reads and parses the document at path.
func (l *DocumentLoader) Load(path string) (map[string]any, error) {
	if _, err := FormatForPath(path); err != nil {
		return nil, err
	}

	// Security: Use os.OpenRoot to prevent path traversal attacks
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("file", path)
		}
		return nil, fmt.Errorf("failed to open document directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("file", path)
		}
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	data, err := io.ReadAll(io.LimitReader(file, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return nil, apperrors.NewValidationError("document", fmt.Sprintf("%s is larger than %d bytes", path, MaxDocumentSize))
	}

	return l.parse(data, path)
}

// LoadBytes parses an in-memory document.
func (l *DocumentLoader) LoadBytes(data []byte, format string) (map[string]any, error) {
	switch format {
	case FormatYAML, FormatJSON:
	case "":
		format = FormatYAML
	default:
		return nil, apperrors.NewValidationError("format", fmt.Sprintf("unsupported document format %q", format))
	}
	return l.parse(data, "<"+format+">")
}

func (l *DocumentLoader) parse(data []byte, source string) (map[string]any, error) {
	var raw any
	// JSON is read with the YAML parser as well, which keeps key order.
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, syntaxError(source, err)
	}

	if raw == nil {
		return nil, apperrors.NewFormatError(source, 0, 0, errors.New("the document is empty"))
	}
	top, ok := raw.(yaml.MapSlice)
	if !ok {
		fe := apperrors.NewFormatError(source, 0, 0, fmt.Errorf("the top level must be a mapping, got %s", kindOf(raw)))
		fe.Hint = ""
		return nil, fe
	}

	doc, err := toMap(top, "")
	if err != nil {
		return nil, apperrors.NewFormatError(source, 0, 0, err)
	}
	return doc, nil
}

func syntaxError(source string, err error) error {
	var yerr yaml.Error
	if errors.As(err, &yerr) {
		if tok := yerr.GetToken(); tok != nil && tok.Position != nil {
			return apperrors.NewFormatError(source, tok.Position.Line, tok.Position.Column, errors.New(yerr.GetMessage()))
		}
	}
	return apperrors.NewFormatError(source, 0, 0, err)
}

// toMap converts an ordered mapping into a plain map. The value at
// cv.sections keeps its order as entities.RawSections.
func toMap(ms yaml.MapSlice, path string) (map[string]any, error) {
	out := make(map[string]any, len(ms))
	for _, item := range ms {
		key := fmt.Sprint(item.Key)
		childPath := joinKey(path, key)
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("duplicate key %q", childPath)
		}

		if childPath == "cv.sections" {
			if sections, ok := item.Value.(yaml.MapSlice); ok {
				rs, err := toSections(sections, childPath)
				if err != nil {
					return nil, err
				}
				out[key] = rs
				continue
			}
		}
		v, err := normalize(item.Value, childPath)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func toSections(ms yaml.MapSlice, path string) (entities.RawSections, error) {
	out := make(entities.RawSections, 0, len(ms))
	seen := make(map[string]bool, len(ms))
	for _, item := range ms {
		key := fmt.Sprint(item.Key)
		if seen[key] {
			return nil, fmt.Errorf("duplicate key %q", joinKey(path, key))
		}
		seen[key] = true

		v, err := normalize(item.Value, joinKey(path, key))
		if err != nil {
			return nil, err
		}
		out = append(out, entities.NewRawSection(key, v))
	}
	return out, nil
}

func normalize(v any, path string) (any, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		return toMap(x, path)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			n, err := normalize(item, joinKey(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case time.Time:
		// Unquoted dates stay in the form the date parser accepts.
		return x.Format("2006-01-02"), nil
	default:
		return v, nil
	}
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func kindOf(v any) string {
	switch v.(type) {
	case []any:
		return "a list"
	case string:
		return "a string"
	default:
		return fmt.Sprintf("%T", v)
	}
}
