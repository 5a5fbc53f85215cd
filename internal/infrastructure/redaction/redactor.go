// Package redaction scrubs secrets and personal data from the offending
// values shown in validation reports.
package redaction

import (
	"cmp"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/vitae-cv/vitae/internal/application/ports"
)

const marker = "[REDACTED]"

// builtinPatterns catch credentials people paste into a CV by accident.
// They stay active next to gitleaks so that disabling it keeps a floor.
var builtinPatterns = []string{
	`\b((?:AKIA|ABIA|ACCA|ASIA)[0-9A-Z]{16})\b`,
	`-----BEGIN [A-Z ]+ PRIVATE KEY-----`,
	`gh[pousr]_[A-Za-z0-9_]{36,255}`,
	`xox[baprs]-([0-9a-zA-Z]{10,48})?`,
}

// Config selects what a Redactor hides and how.
type Config struct {
	// Patterns are extra regular expressions, e.g. an employee ID format.
	Patterns []string
	// HashMode replaces a match with a short keyed hash so that repeated
	// values stay recognizable across one report.
	HashMode bool
	Salt     string
	// DisableGitleaks leaves only the regex patterns.
	DisableGitleaks bool
}

// Redactor hides sensitive substrings of report values. A Redactor is not
// modified after New or WithValues and may be shared between goroutines.
type Redactor struct {
	literals []string
	detector *detect.Detector
	patterns []*regexp.Regexp

	hashMode bool
	salt     []byte
}

// New compiles cfg into a Redactor. A gitleaks setup failure only
// degrades to the regex patterns; an invalid custom pattern is an error.
func New(cfg Config) (*Redactor, error) {
	r := &Redactor{hashMode: cfg.HashMode, salt: []byte(cfg.Salt)}

	sources := slices.Concat(builtinPatterns, cfg.Patterns)
	for i, src := range sources {
		re, err := regexp.Compile(src)
		if err != nil {
			if i < len(builtinPatterns) {
				return nil, fmt.Errorf("built-in pattern %q: %w", src, err)
			}
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", src, err)
		}
		r.patterns = append(r.patterns, re)
	}

	if !cfg.DisableGitleaks {
		detector, err := loadGitleaks()
		if err != nil {
			slog.Warn("secret detection limited to regex patterns", "error", err)
		}
		r.detector = detector
	}
	return r, nil
}

// loadGitleaks builds a detector from the rule set bundled with gitleaks.
func loadGitleaks() (*detect.Detector, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(config.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("reading gitleaks rules: %w", err)
	}

	var raw config.ViperConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decoding gitleaks rules: %w", err)
	}
	rules, err := raw.Translate()
	if err != nil {
		return nil, fmt.Errorf("compiling gitleaks rules: %w", err)
	}
	return detect.NewDetector(rules), nil
}

// WithValues returns a copy of r that also hides the given values
// wherever they occur, e.g. the CV owner's email. Blank values are skipped.
func (r *Redactor) WithValues(values ...string) ports.Redactor {
	cp := *r
	cp.literals = slices.Clone(r.literals)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(cp.literals, v) {
			continue
		}
		cp.literals = append(cp.literals, v)
	}
	// A shorter value must not split a longer one that contains it.
	slices.SortFunc(cp.literals, func(a, b string) int { return cmp.Compare(len(b), len(a)) })
	return &cp
}

// Redact returns input with every known value, gitleaks finding and
// pattern match replaced, in that order.
func (r *Redactor) Redact(input string) string {
	if input == "" {
		return input
	}

	out := input
	for _, lit := range r.literals {
		out = strings.ReplaceAll(out, lit, r.mask(lit))
	}

	if r.detector != nil {
		for _, f := range r.detector.Detect(detect.Fragment{Raw: out}) {
			if f.Secret != "" {
				out = strings.ReplaceAll(out, f.Secret, r.mask(f.Secret))
			}
		}
	}

	for _, re := range r.patterns {
		out = re.ReplaceAllStringFunc(out, r.mask)
	}
	return out
}

// mask is the text that replaces one hidden value: the fixed marker, or
// "[hmac:" plus the first 16 hex digits of HMAC-SHA256(salt, value) and "]".
func (r *Redactor) mask(value string) string {
	if !r.hashMode {
		return marker
	}
	mac := hmac.New(sha256.New, r.salt)
	mac.Write([]byte(value))
	return "[hmac:" + hex.EncodeToString(mac.Sum(nil))[:16] + "]"
}
