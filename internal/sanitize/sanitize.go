// Package sanitize cleans free-form labels, such as scenario names, before
// they are stored with a run or used in file names.
package sanitize

import (
	"regexp"
	"strings"
)

// MaxNameLength is the maximum length of a sanitized name.
const MaxNameLength = 80

var (
	reRepeatedHyphens     = regexp.MustCompile(`-{2,}`)
	reRepeatedUnderscores = regexp.MustCompile(`_{2,}`)
)

// Name keeps only [a-zA-Z0-9-_.], turns whitespace into hyphens, collapses
// repeated hyphens and underscores and truncates to MaxNameLength.
func Name(input string) string {
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range strings.TrimSpace(input) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteRune('-')
		}
	}
	s := b.String()

	s = reRepeatedHyphens.ReplaceAllString(s, "-")
	s = reRepeatedUnderscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "-.")

	if len(s) > MaxNameLength {
		s = s[:MaxNameLength]
	}
	return s
}

// NameOr sanitizes input and falls back to def when nothing is left.
func NameOr(input, def string) string {
	if s := Name(input); s != "" {
		return s
	}
	return def
}
