package core

import (
	"github.com/santiagomed/rcgen/component"
)

// Draft holds what the command line supplied. Empty strings are unset.
type Draft struct {
	Name        string
	Description string
	Model       string
	OutputDir   string
	Tailwind    bool
	Bootstrap   bool
	Overwrite   bool
	Debug       bool
	Strict      bool
}

// StylingConflict reports whether both styling flags were given.
func (d Draft) StylingConflict() bool {
	return d.Tailwind && d.Bootstrap
}

// Request indicates the user's request for a new component. It is not
// modified once resolved.
type Request struct {
	Name        string
	Description string
	Styling     component.Styling
	Model       string
	OutputDir   string
	Overwrite   bool
	Debug       bool
	// Strict makes remote failures fatal instead of falling back to a template.
	Strict bool
}

// ComponentName is the PascalCase identifier used for files and the export.
func (r *Request) ComponentName() string {
	return component.FormatName(r.Name)
}
