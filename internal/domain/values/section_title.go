package values

import (
	"strings"
	"unicode"
)

var lowercaseTitleWords = map[string]struct{}{
	"a": {}, "and": {}, "as": {}, "at": {}, "but": {}, "by": {}, "for": {},
	"from": {}, "if": {}, "in": {}, "into": {}, "like": {}, "near": {},
	"nor": {}, "of": {}, "off": {}, "on": {}, "onto": {}, "or": {}, "over": {},
	"so": {}, "than": {}, "that": {}, "to": {}, "upon": {}, "when": {},
	"with": {}, "yet": {},
}

// NormalizeTitle turns a section key such as "work_experience" into a
// display title ("Work Experience").
//
// Words that already contain an uppercase letter are kept as written, and
// short function words stay lowercase.
func NormalizeTitle(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if !isLowerWord(w) {
			continue
		}
		if _, skip := lowercaseTitleWords[w]; skip {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// isLowerWord mirrors "has a lowercase letter and no uppercase letter".
func isLowerWord(w string) bool {
	hasLower := false
	for _, r := range w {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLower(r) {
			hasLower = true
		}
	}
	return hasLower
}
