package entities

// ThemeManifest is the optional theme.yaml of a custom theme. It declares
// the options the theme accepts instead of shipping code.
type ThemeManifest struct {
	// Requires is a semver constraint on the running vitae version.
	Requires string `yaml:"requires,omitempty" json:"requires,omitempty"`
	// OptionsSchema is a JSON Schema applied to the whole design block.
	OptionsSchema map[string]any `yaml:"options_schema,omitempty" json:"options_schema,omitempty"`
	// Defaults are merged under the user's options.
	Defaults map[string]any `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Rules    []ThemeRule    `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// ThemeRule is a boolean expression over the design options that must
// hold; Message is reported when it does not.
type ThemeRule struct {
	Expr    string `yaml:"expr" json:"expr"`
	Message string `yaml:"message" json:"message"`
}

// ThemeBundle is a custom theme found on disk.
type ThemeBundle struct {
	Name string
	Dir  string
	// Files are the file names present in Dir.
	Files    []string
	Manifest *ThemeManifest
}
