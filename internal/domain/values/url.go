package values

import "strings"

// CleanURL strips the scheme, a leading "www." and one trailing slash so a
// URL can be shown as plain text.
//
// It is a single textual pass: protocol-relative inputs such as "//host/"
// are not special-cased.
func CleanURL(url string) string {
	url = strings.ReplaceAll(url, "https://", "")
	url = strings.ReplaceAll(url, "http://", "")
	url = strings.ReplaceAll(url, "www.", "")
	return strings.TrimSuffix(url, "/")
}
