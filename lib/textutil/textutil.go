package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeHeader lower-cases a column header and trims the whitespace
// around it, inner whitespace is collapsed to a single space.
func NormalizeHeader(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t\r")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return name
}

// KeepNumeric drops every character that is not an ascii digit or a
// decimal point.
//
// "1,250 mg" -> "1250", "-3.5g" -> "3.5"
func KeepNumeric(text string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, text)
}

// MatchName reports whether the whitespace-free, lower-cased form of name
// contains any of the matchers.
func MatchName(name string, matchers []string) bool {
	name = strings.ToLower(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	for _, m := range matchers {
		m = whitespaceRegex.ReplaceAllString(strings.ToLower(m), "")
		if m != "" && strings.Contains(name, m) {
			return true
		}
	}
	return false
}
