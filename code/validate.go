package code

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

var (
	reactImportPattern = regexp.MustCompile(`(?im)^[ \t]*import\b[^\n]*['"]react['"]`)
	defaultExport      = regexp.MustCompile(`\bexport\s+default\b`)

	contaminationPatterns = []struct {
		pattern *regexp.Regexp
		problem string
	}{
		{regexp.MustCompile(`\.(?:[cm]?js|jsx|tsx?):`), "contains a file path with a line number"},
		{regexp.MustCompile(`(?i)<\s*table\b`), "contains table markup"},
		{regexp.MustCompile(`The component should be`), "contains leaked instruction text"},
	}
)

// Diagnose lists the reasons src does not look like a usable component
// named componentName. An empty result means the source is accepted.
func Diagnose(src, componentName string) []string {
	var problems []string

	if !reactImportPattern.MatchString(src) {
		problems = append(problems, "missing react import")
	}
	if !definesComponent(src, componentName) {
		problems = append(problems, fmt.Sprintf("missing definition of %s", componentName))
	}
	if !defaultExport.MatchString(src) {
		problems = append(problems, "missing default export")
	}
	for _, c := range contaminationPatterns {
		if c.pattern.MatchString(src) {
			problems = append(problems, c.problem)
		}
	}

	return problems
}

// Validate reports whether src passes every lexical check.
func Validate(src, componentName string) bool {
	return len(Diagnose(src, componentName)) == 0
}

func definesComponent(src, name string) bool {
	if name == "" {
		return false
	}
	quoted := regexp.QuoteMeta(name)
	def := regexp.MustCompile(`(?:\bfunction\s+` + quoted + `\s*\(|\b(?:const|let|var)\s+` + quoted + `\s*=)`)
	return def.MatchString(src)
}

// Validator runs the lexical checks and, when enabled, a parse-only JSX
// syntax check. The source is never executed.
type Validator struct {
	syntaxCheck bool
}

func NewValidator(syntaxCheck bool) *Validator {
	return &Validator{syntaxCheck: syntaxCheck}
}

// Check returns nil when src is accepted, otherwise an *InvalidSourceError
// listing every problem found.
func (v *Validator) Check(src, componentName string) error {
	problems := Diagnose(src, componentName)
	if v.syntaxCheck {
		problems = append(problems, SyntaxErrors(src)...)
	}
	if len(problems) > 0 {
		return &InvalidSourceError{Problems: problems}
	}
	return nil
}

// SyntaxErrors parses src as JSX and returns the parser messages.
func SyntaxErrors(src string) []string {
	result := api.Transform(src, api.TransformOptions{
		Loader:   api.LoaderJSX,
		Format:   api.FormatESModule,
		LogLevel: api.LogLevelSilent,
	})

	var problems []string
	for _, msg := range result.Errors {
		if msg.Location != nil {
			problems = append(problems, fmt.Sprintf("syntax error at line %d: %s", msg.Location.Line, msg.Text))
			continue
		}
		problems = append(problems, "syntax error: "+msg.Text)
	}
	return problems
}

// InvalidSourceError is returned by Validator.Check.
type InvalidSourceError struct {
	Problems []string
}

func (e *InvalidSourceError) Error() string {
	return "generated code rejected: " + strings.Join(e.Problems, "; ")
}
