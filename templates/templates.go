// Package templates holds the static component skeletons used when no usable
// code came back from the model.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/santiagomed/rcgen/component"
)

//go:embed skeletons/*.jsx.tmpl
var skeletonFS embed.FS

var skeletons = template.Must(template.ParseFS(skeletonFS, "skeletons/*.jsx.tmpl"))

var skeletonNames = map[component.Styling]string{
	component.StylingNone:      "plain.jsx.tmpl",
	component.StylingTailwind:  "tailwind.jsx.tmpl",
	component.StylingBootstrap: "bootstrap.jsx.tmpl",
}

type skeletonData struct {
	Name string
}

// Render returns the skeleton for styling with componentName substituted.
func Render(styling component.Styling, componentName string) (string, error) {
	name, ok := skeletonNames[styling]
	if !ok {
		return "", fmt.Errorf("no template for styling %d", int(styling))
	}

	var buf bytes.Buffer
	if err := skeletons.ExecuteTemplate(&buf, name, skeletonData{Name: componentName}); err != nil {
		return "", fmt.Errorf("error rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// Fallback renders the skeleton with the description as a leading comment.
func Fallback(styling component.Styling, componentName, description string) (string, error) {
	src, err := Render(styling, componentName)
	if err != nil {
		return "", err
	}
	return DescriptionComment(description) + src, nil
}

// DescriptionComment turns description into a single `//` comment line.
func DescriptionComment(description string) string {
	return "// " + strings.Join(strings.Fields(description), " ") + "\n"
}
