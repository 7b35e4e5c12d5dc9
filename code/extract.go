// Package code isolates and checks the component source returned by a model.
package code

import (
	"regexp"
	"strings"
)

var (
	fencePattern  = regexp.MustCompile("(?is)```(?:javascript|typescript|react|jsx|tsx|js|ts)?[ \\t]*\\r?\\n?(.*?)```")
	importPattern = regexp.MustCompile(`(?im)^[ \t]*import\b[^\n]*react`)
	exportPattern = regexp.MustCompile(`export\s+default\s+[A-Za-z_$][\w$]*\s*;`)

	boilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)BUILD SUCCESS.*$`),
		regexp.MustCompile(`The component should be[^\n]*`),
		regexp.MustCompile(`Include imports[^\n]*?export\.`),
		regexp.MustCompile(`Only provide[^\n]*?explanation\.`),
	}
)

// Extract returns the part of raw that most likely is the component source.
// A fenced block wins, then an import..export span, then raw with known
// instruction echoes removed. The result is always trimmed.
func Extract(raw string) string {
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}

	if loc := importPattern.FindStringIndex(raw); loc != nil {
		rest := raw[loc[0]:]
		if end := exportPattern.FindStringIndex(rest); end != nil {
			return strings.TrimSpace(rest[:end[1]])
		}
		return strings.TrimSpace(rest)
	}

	cleaned := raw
	for _, p := range boilerplatePatterns {
		cleaned = p.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(cleaned)
}
