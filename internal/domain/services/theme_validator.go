package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/expr-lang/expr"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vitae-cv/vitae/internal/domain/entities"
	"github.com/vitae-cv/vitae/internal/domain/issues"
)

var customThemeName = regexp.MustCompile(`^[A-Za-z]+$`)

// ThemeLocator finds custom theme directories.
type ThemeLocator interface {
	// Locate returns the theme directory named name, or an error wrapping
	// a not-found error when it does not exist.
	Locate(name string) (*entities.ThemeBundle, error)
}

// ThemeValidator resolves the "design" block into theme options.
type ThemeValidator struct {
	decoder        *FieldDecoder
	locator        ThemeLocator
	runningVersion string
}

// NewThemeValidator creates a theme validator. locator may be nil, in
// which case only built-in themes resolve. runningVersion is checked
// against a manifest's "requires" constraint when it is valid semver.
func NewThemeValidator(decoder *FieldDecoder, locator ThemeLocator, runningVersion string) *ThemeValidator {
	return &ThemeValidator{decoder: decoder, locator: locator, runningVersion: runningVersion}
}

// Resolve validates raw (the design block) located at path.
func (v *ThemeValidator) Resolve(raw map[string]any, path string) (entities.ThemeOptions, []error) {
	themeLoc := JoinPath(path, "theme")
	name, ok := raw["theme"].(string)
	if !ok || name == "" {
		return nil, []error{issues.NewFieldError(themeLoc, raw["theme"], "this field is required")}
	}

	if opts := entities.DefaultThemeOptions(name); opts != nil {
		if errs := v.decoder.DecodeAndValidate(path, raw, opts); len(errs) > 0 {
			return nil, errs
		}
		return opts, nil
	}

	return v.resolveCustom(name, raw, path)
}

func (v *ThemeValidator) resolveCustom(name string, raw map[string]any, path string) (entities.ThemeOptions, []error) {
	themeLoc := JoinPath(path, "theme")
	if !customThemeName.MatchString(name) {
		return nil, []error{issues.NewFieldError(themeLoc, name, fmt.Sprintf(
			"%q is not a built-in theme (%s) and custom theme names may only contain letters",
			name, strings.Join(entities.BuiltinThemes(), ", ")))}
	}
	if v.locator == nil {
		return nil, []error{issues.NewStructuralError(themeLoc, name, "custom themes are not available here", nil)}
	}

	bundle, err := v.locator.Locate(name)
	if err != nil {
		return nil, []error{issues.NewStructuralError(themeLoc, name, err.Error(), err)}
	}

	var errs []error
	for _, role := range entities.TemplateRoles() {
		file := role + ".tmpl"
		if !slices.Contains(bundle.Files, file) {
			errs = append(errs, issues.NewStructuralError(themeLoc, name,
				fmt.Sprintf("custom theme directory %s is missing the template file %s", bundle.Dir, file), nil))
		}
	}

	options := make(map[string]any, len(raw))
	for k, val := range raw {
		if k != "theme" {
			options[k] = val
		}
	}

	if bundle.Manifest == nil {
		keys := make([]string, 0, len(options))
		for k := range options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			errs = append(errs, issues.NewFieldError(JoinPath(path, k), options[k],
				"this field is not allowed; the theme has no theme.yaml declaring options"))
		}
	} else {
		var manifestErrs []error
		options, manifestErrs = v.applyManifest(bundle.Manifest, name, options, path)
		errs = append(errs, manifestErrs...)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &entities.CustomThemeOptions{Theme: name, Dir: bundle.Dir, Options: options}, nil
}

// applyManifest merges defaults under options and checks the version
// constraint, the options schema and the rules, in that order.
func (v *ThemeValidator) applyManifest(m *entities.ThemeManifest, name string, options map[string]any, path string) (map[string]any, []error) {
	themeLoc := JoinPath(path, "theme")

	if m.Requires != "" {
		if err := v.checkRequires(m.Requires); err != nil {
			return options, []error{issues.NewStructuralError(themeLoc, name, err.Error(), err)}
		}
	}

	merged := mergeDefaults(m.Defaults, options)
	design := make(map[string]any, len(merged)+1)
	for k, val := range merged {
		design[k] = val
	}
	design["theme"] = name

	if len(m.OptionsSchema) > 0 {
		if errs := validateOptionsSchema(m.OptionsSchema, design, path); len(errs) > 0 {
			return merged, errs
		}
	}

	var errs []error
	for i, rule := range m.Rules {
		ok, err := evalRule(rule.Expr, design)
		switch {
		case err != nil:
			errs = append(errs, issues.NewStructuralError(themeLoc, name,
				fmt.Sprintf("theme.yaml rule %d (%s) cannot be evaluated: %v", i, rule.Expr, err), err))
		case !ok:
			msg := rule.Message
			if msg == "" {
				msg = "theme rule failed: " + rule.Expr
			}
			errs = append(errs, issues.NewFieldError(path, nil, msg))
		}
	}
	return merged, errs
}

func (v *ThemeValidator) checkRequires(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("theme.yaml has an invalid requires constraint %q: %w", constraint, err)
	}
	running, err := semver.NewVersion(v.runningVersion)
	if err != nil {
		// Development builds are not versioned.
		return nil
	}
	if !c.Check(running) {
		return fmt.Errorf("theme requires vitae %s but this is %s", constraint, running)
	}
	return nil
}

func validateOptionsSchema(schemaDoc map[string]any, design map[string]any, path string) []error {
	schemaBytes, err := json.Marshal(schemaDoc)
	if err != nil {
		return []error{issues.NewStructuralError(path, nil, "theme.yaml options_schema is not valid JSON", err)}
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("theme.json", bytes.NewReader(schemaBytes)); err != nil {
		return []error{issues.NewStructuralError(path, nil, fmt.Sprintf("theme.yaml options_schema: %v", err), err)}
	}
	schema, err := compiler.Compile("theme.json")
	if err != nil {
		return []error{issues.NewStructuralError(path, nil, fmt.Sprintf("theme.yaml options_schema does not compile: %v", err), err)}
	}

	// The validator expects JSON-decoded values (float64, []any).
	instanceBytes, err := json.Marshal(design)
	if err != nil {
		return []error{issues.NewFieldError(path, nil, fmt.Sprintf("design options cannot be encoded: %v", err))}
	}
	var instance any
	if err := json.Unmarshal(instanceBytes, &instance); err != nil {
		return []error{issues.NewFieldError(path, nil, fmt.Sprintf("design options cannot be decoded: %v", err))}
	}

	err = schema.Validate(instance)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []error{issues.NewFieldError(path, nil, err.Error())}
	}
	return schemaErrors(verr, design, path)
}

// schemaErrors reports the leaf causes of a schema failure at their
// instance locations.
func schemaErrors(verr *jsonschema.ValidationError, design map[string]any, path string) []error {
	var out []error
	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			rel := strings.ReplaceAll(strings.TrimPrefix(e.InstanceLocation, "/"), "/", ".")
			out = append(out, issues.NewFieldError(JoinPath(path, rel), Lookup(design, rel), e.Message))
			return
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(verr)
	return out
}

func evalRule(rule string, env map[string]any) (bool, error) {
	program, err := expr.Compile(rule, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	ok, _ := out.(bool)
	return ok, nil
}

// mergeDefaults returns options layered over defaults; nested mappings are
// merged key by key.
func mergeDefaults(defaults, options map[string]any) map[string]any {
	out := make(map[string]any, len(defaults)+len(options))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range options {
		dm, dok := out[k].(map[string]any)
		om, ook := v.(map[string]any)
		if dok && ook {
			out[k] = mergeDefaults(dm, om)
			continue
		}
		out[k] = v
	}
	return out
}
