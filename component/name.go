package component

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	wordSeparators = regexp.MustCompile(`[-_\s]+`)
	identifier     = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

// IsIdentifier reports whether name can be used as a JavaScript binding and
// as a single path element.
func IsIdentifier(name string) bool {
	return identifier.MatchString(name)
}

// FormatName turns a user supplied name such as "user-card" or "user card"
// into the PascalCase identifier used for the component and its files.
// Only the first rune of every word is changed.
func FormatName(name string) string {
	var b strings.Builder
	for _, word := range wordSeparators.Split(name, -1) {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(word[size:])
	}
	return b.String()
}
