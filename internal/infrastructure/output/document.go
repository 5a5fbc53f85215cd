package output

import (
	"fmt"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/vitae-cv/vitae/internal/domain/entities"
)

// DocumentYAML writes a validated document back out as a CV document.
//
// Sections keep their order and dates are in canonical form, so loading
// and compiling the result yields an equal document. Derived fields are
// not written. Extension keys are written under settings.render.
func DocumentYAML(doc *entities.Document) ([]byte, error) {
	cv := doc.CV
	cv.Sections = nil
	cvSlice, err := toMapSlice(cv)
	if err != nil {
		return nil, fmt.Errorf("encoding cv: %w", err)
	}
	if len(doc.CV.Sections) > 0 {
		sections := make(yaml.MapSlice, 0, len(doc.CV.Sections))
		for _, sec := range doc.CV.Sections {
			entries := make([]any, len(sec.Entries))
			for i, e := range sec.Entries {
				entries[i] = e
			}
			sections = append(sections, yaml.MapItem{Key: sec.Title, Value: entries})
		}
		cvSlice = append(cvSlice, yaml.MapItem{Key: "sections", Value: sections})
	}

	top := yaml.MapSlice{
		{Key: "cv", Value: cvSlice},
		{Key: "design", Value: doc.Design},
		{Key: "locale", Value: doc.Locale},
	}

	settings, err := toMapSlice(doc.Settings)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	if len(doc.Extensions) > 0 {
		settings = withExtensions(settings, doc.Extensions)
	}
	if len(settings) > 0 {
		top = append(top, yaml.MapItem{Key: "settings", Value: settings})
	}

	return yaml.MarshalWithOptions(top, yaml.Indent(2))
}

func withExtensions(settings yaml.MapSlice, ext map[string]any) yaml.MapSlice {
	var render yaml.MapSlice
	idx := -1
	for i, item := range settings {
		if item.Key == "render" {
			render, _ = item.Value.(yaml.MapSlice)
			idx = i
		}
	}
	for _, k := range slices.Sorted(maps.Keys(ext)) {
		render = append(render, yaml.MapItem{Key: k, Value: ext[k]})
	}
	if idx >= 0 {
		settings[idx].Value = render
		return settings
	}
	return append(settings, yaml.MapItem{Key: "render", Value: render})
}

// toMapSlice encodes v and reads it back as an ordered mapping.
func toMapSlice(v any) (yaml.MapSlice, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &out, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	return out, nil
}
