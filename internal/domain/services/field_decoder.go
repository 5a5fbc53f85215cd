package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/language"

	"github.com/vitae-cv/vitae/internal/domain/issues"
	"github.com/vitae-cv/vitae/internal/domain/values"
)

var (
	doiPattern       = regexp.MustCompile(`^10\.\d{4,9}/[-._;()/:A-Za-z0-9]+$`)
	dimensionPattern = regexp.MustCompile(`^\d+(\.\d+)?\s*(cm|in|pt|mm|ex|em|px)$`)
	decodeLine       = regexp.MustCompile(`^'([^']*)'\s+(.*)$`)
	expectedType     = regexp.MustCompile(`expected type '([^']+)'`)
)

// FieldDecoder turns untyped records into typed structs and checks their
// field constraints. Every problem is returned as an *issues.FieldError
// located under the caller's path.
type FieldDecoder struct {
	validate *validator.Validate
}

// NewFieldDecoder creates a decoder with the document-specific validators
// registered.
func NewFieldDecoder() *FieldDecoder {
	v := validator.New()
	v.RegisterTagNameFunc(yamlName)

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("language_tag", func(fl validator.FieldLevel) bool {
		_, err := language.Parse(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		num, err := phonenumbers.Parse(fl.Field().String(), "")
		return err == nil && phonenumbers.IsPossibleNumber(num)
	}))
	must(v.RegisterValidation("doi", func(fl validator.FieldLevel) bool {
		return doiPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("dimension", func(fl validator.FieldLevel) bool {
		return dimensionPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("network", func(fl validator.FieldLevel) bool {
		return values.Network(fl.Field().String()).IsValid()
	}))

	return &FieldDecoder{validate: v}
}

// DecodeAndValidate decodes raw into target and, if decoding succeeded,
// checks target's constraints.
func (d *FieldDecoder) DecodeAndValidate(path string, raw map[string]any, target any) []error {
	if errs := d.Decode(path, raw, target); len(errs) > 0 {
		return errs
	}
	return d.Validate(path, raw, target)
}

// Decode copies raw onto target. Keys that target does not declare are
// reported as errors; fields already set on target are kept when raw does
// not mention them, which is how defaults are applied.
func (d *FieldDecoder) Decode(path string, raw map[string]any, target any) []error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Squash:           true,
		Metadata:         &md,
		Result:           target,
	})
	if err != nil {
		return []error{fmt.Errorf("create decoder: %w", err)}
	}

	var errs []error
	if err := dec.Decode(raw); err != nil {
		errs = append(errs, decodeErrors(path, raw, err)...)
	}

	unused := append([]string(nil), md.Unused...)
	sort.Strings(unused)
	for _, key := range unused {
		rel := dottedPath(key)
		errs = append(errs, issues.NewFieldError(JoinPath(path, rel), Lookup(raw, rel), "this field is not allowed"))
	}
	return errs
}

// DecodeOpen is Decode for open extension points: top-level keys that
// target does not declare are returned instead of being reported.
func (d *FieldDecoder) DecodeOpen(path string, raw map[string]any, target any) (map[string]any, []error) {
	known := make(map[string]struct{})
	for _, name := range FieldNames(reflect.TypeOf(target)) {
		known[name] = struct{}{}
	}

	closed := make(map[string]any, len(raw))
	var extra map[string]any
	for k, v := range raw {
		if _, ok := known[k]; ok {
			closed[k] = v
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra, d.Decode(path, closed, target)
}

// Validate runs the struct constraints of target. raw is only used to
// report the offending input.
func (d *FieldDecoder) Validate(path string, raw map[string]any, target any) []error {
	err := d.validate.Struct(target)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{err}
	}

	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		rel := namespacePath(fe.Namespace())
		input := Lookup(raw, rel)
		if input == nil {
			input = fe.Value()
		}
		out = append(out, issues.NewFieldError(JoinPath(path, rel), input, validationMessage(fe)))
	}
	return out
}

func decodeErrors(path string, raw map[string]any, err error) []error {
	var out []error
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		m := decodeLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rel := dottedPath(m[1])
		out = append(out, issues.NewFieldError(JoinPath(path, rel), Lookup(raw, rel), decodeMessage(m[2])))
	}
	if len(out) == 0 {
		out = append(out, issues.NewFieldError(path, nil, err.Error()))
	}
	return out
}

func decodeMessage(msg string) string {
	if m := expectedType.FindStringSubmatch(msg); m != nil {
		return "expected " + describeType(m[1])
	}
	switch {
	case strings.HasPrefix(msg, "expected a map"):
		return "expected a mapping of keys to values"
	case strings.Contains(msg, "array or slice"):
		return "expected a list"
	}
	return msg
}

func describeType(t string) string {
	switch {
	case t == "string" || strings.HasSuffix(t, ".Network"):
		return "text"
	case t == "bool":
		return "true or false"
	case strings.HasPrefix(t, "int") || strings.HasPrefix(t, "uint"):
		return "a whole number"
	case strings.HasPrefix(t, "float"):
		return "a number"
	case strings.HasPrefix(t, "[]"):
		return "a list"
	case strings.HasPrefix(t, "map"):
		return "a mapping of keys to values"
	}
	return "a value of type " + t
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "this is not a valid email address"
	case "url", "http_url":
		return "this is not a valid URL"
	case "phone":
		return "this is not a valid phone number; use the international format, e.g. +1 609 999 9995"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "hexcolor":
		return "this is not a valid color; use a hex code such as #004f90"
	case "dimension":
		return "this is not a valid length; use a number followed by a unit (cm, in, pt, mm, ex, em)"
	case "doi":
		return "this is not a valid DOI, e.g. 10.48550/arXiv.2310.03138"
	case "language_tag":
		return "this is not a valid language tag, e.g. en or de-CH"
	case "network":
		names := make([]string, 0, len(values.Networks()))
		for _, n := range values.Networks() {
			names = append(names, string(n))
		}
		return "unsupported social network; use one of: " + strings.Join(names, ", ")
	case "datetime":
		return "this is not a valid date; use YYYY-MM-DD"
	case "len":
		return "must have exactly " + fe.Param() + " items"
	case "min":
		return "must have at least " + fe.Param() + " item(s)"
	}
	return fmt.Sprintf("failed the %q check", fe.Tag())
}

// FieldNames returns the yaml field names of a struct type, with inline
// structs flattened.
func FieldNames(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			names = append(names, FieldNames(f.Type)...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name := yamlName(f); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func yamlName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// namespacePath turns "EducationEntry.highlights[2]" into "highlights.2".
// Go type and embedded-struct names are dropped since yaml names are
// lowercase.
func namespacePath(ns string) string {
	parts := strings.Split(dottedPath(ns), ".")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		if r := []rune(p); unicode.IsUpper(r[0]) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}

// dottedPath turns "a[0].b" into "a.0.b".
func dottedPath(s string) string {
	s = strings.ReplaceAll(s, "[", ".")
	return strings.ReplaceAll(s, "]", "")
}

// JoinPath joins dotted location segments, skipping empty ones.
func JoinPath(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ".")
}

// Lookup walks a dotted path through nested maps and lists.
func Lookup(raw any, path string) any {
	if path == "" {
		return raw
	}
	cur := raw
	for _, seg := range strings.Split(path, ".") {
		switch c := cur.(type) {
		case map[string]any:
			cur = c[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(c) {
				return nil
			}
			cur = c[i]
		default:
			return nil
		}
	}
	return cur
}
