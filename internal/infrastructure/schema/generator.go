// Package schema generates the JSON Schema of CV documents from the entity
// types, for editor completion and validation outside vitae.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/locale"
)

// ID is the $id of the generated schema.
const ID = "vitae.schema.json"

var (
	sectionsType     = reflect.TypeOf(entities.Sections{})
	themeOptionsType = reflect.TypeOf((*entities.ThemeOptions)(nil)).Elem()
	catalogType      = reflect.TypeOf(locale.Catalog{})
)

// Generate returns the indented JSON Schema of a CV document.
func Generate() ([]byte, error) {
	reflector := strictReflector()
	reflector.Mapper = mapper

	s := reflector.Reflect(&entities.Document{})
	s.ID = ID
	s.Title = "vitae CV document"

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(raw, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema map: %w", err)
	}
	postProcess(schemaMap)

	out, err := json.MarshalIndent(schemaMap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal processed schema: %w", err)
	}
	return out, nil
}

// strictReflector marks fields without omitempty as required and rejects
// unknown keys, which matches how entries are validated.
func strictReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
}

// looseReflector requires nothing. Design and locale blocks are filled
// from defaults, so every key is optional.
func looseReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
	}
}

func mapper(t reflect.Type) *jsonschema.Schema {
	switch t {
	case sectionsType:
		return sectionsSchema()
	case themeOptionsType:
		return designSchema()
	case catalogType:
		s := looseReflector().Reflect(&locale.Catalog{})
		s.Version, s.ID = "", ""
		s.AdditionalProperties = jsonschema.TrueSchema
		return s
	default:
		return nil
	}
}

// sectionsSchema is an object of title to a list of entries of any variant.
func sectionsSchema() *jsonschema.Schema {
	variants := make([]*jsonschema.Schema, 0, len(entities.EntryTypes()))
	for _, t := range entities.EntryTypes() {
		e := t.New()
		if e == nil {
			variants = append(variants, &jsonschema.Schema{Type: "string", Title: t.String()})
			continue
		}
		s := strictReflector().Reflect(e)
		s.Version, s.ID = "", ""
		s.Title = t.String()
		variants = append(variants, s)
	}

	return &jsonschema.Schema{
		Type: "object",
		AdditionalProperties: &jsonschema.Schema{
			Type:     "array",
			MinItems: ptr(uint64(1)),
			Items:    &jsonschema.Schema{AnyOf: variants},
		},
	}
}

// designSchema is one of the built-in option sets, or a custom theme name
// with free-form options declared by the theme itself.
func designSchema() *jsonschema.Schema {
	var variants []*jsonschema.Schema
	for _, name := range entities.BuiltinThemes() {
		s := looseReflector().Reflect(entities.DefaultThemeOptions(name))
		s.Version, s.ID = "", ""
		s.Title = name
		if theme, ok := s.Properties.Get("theme"); ok {
			theme.Const = name
			theme.Type = ""
		}
		s.Required = []string{"theme"}
		variants = append(variants, s)
	}

	custom := &jsonschema.Schema{
		Type:                 "object",
		Title:                "custom",
		AdditionalProperties: jsonschema.TrueSchema,
		Required:             []string{"theme"},
		Properties:           jsonschema.NewProperties(),
	}
	custom.Properties.Set("theme", &jsonschema.Schema{
		Type:    "string",
		Pattern: "^[A-Za-z]+$",
		Not:     &jsonschema.Schema{Enum: toAny(entities.BuiltinThemes())},
	})
	variants = append(variants, custom)

	return &jsonschema.Schema{OneOf: variants}
}

// postProcess removes derived fields and reopens the extension points.
func postProcess(root map[string]any) {
	root["required"] = []any{"cv", "design"}
	props, _ := root["properties"].(map[string]any)
	delete(props, "extensions")

	if cv, ok := props["cv"].(map[string]any); ok {
		if cvProps, ok := cv["properties"].(map[string]any); ok {
			delete(cvProps, "connections")
		}
	}

	if settings, ok := props["settings"].(map[string]any); ok {
		if sProps, ok := settings["properties"].(map[string]any); ok {
			if render, ok := sProps["render"].(map[string]any); ok {
				render["additionalProperties"] = true
			}
		}
	}
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func ptr[T any](v T) *T { return &v }
