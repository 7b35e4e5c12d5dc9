package core

import (
	"fmt"
	"strings"

	"github.com/santiagomed/rcgen/component"
)

const (
	QuestionName        = "What is the name of your component?"
	QuestionDescription = "Describe what the component should do:"
	QuestionModel       = "Which model should generate the code?"
	QuestionStyling     = "Which styling should the component use?"
)

// Prompter asks the user for values that were not given as flags.
type Prompter interface {
	Ask(question string) (string, error)
	Choose(title string, options []string) (string, error)
}

// ValidationError is returned when a required value is empty or unusable.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// ResolveRequest completes d by prompting for every missing value, in the
// order name, description, model, styling.
func ResolveRequest(d Draft, p Prompter) (*Request, error) {
	name, err := required(d.Name, "name", QuestionName, p)
	if err != nil {
		return nil, err
	}
	if formatted := component.FormatName(name); !component.IsIdentifier(formatted) {
		return nil, &ValidationError{Field: "name", Msg: fmt.Sprintf("%q does not form a valid component name (got %q)", name, formatted)}
	}

	description, err := required(d.Description, "description", QuestionDescription, p)
	if err != nil {
		return nil, err
	}

	model, err := required(d.Model, "model", QuestionModel, p)
	if err != nil {
		return nil, err
	}

	styling, set := component.StylingFromFlags(d.Tailwind, d.Bootstrap)
	if !set {
		choice, err := p.Choose(QuestionStyling, component.StylingChoices)
		if err != nil {
			return nil, err
		}
		styling, err = component.ParseStyling(choice)
		if err != nil {
			return nil, &ValidationError{Field: "styling", Msg: err.Error()}
		}
	}

	outputDir := strings.TrimSpace(d.OutputDir)
	if outputDir == "" {
		return nil, &ValidationError{Field: "output", Msg: "must not be empty"}
	}

	return &Request{
		Name:        name,
		Description: description,
		Styling:     styling,
		Model:       model,
		OutputDir:   outputDir,
		Overwrite:   d.Overwrite,
		Debug:       d.Debug,
		Strict:      d.Strict,
	}, nil
}

func required(value, field, question string, p Prompter) (string, error) {
	if v := strings.TrimSpace(value); v != "" {
		return v, nil
	}
	answer, err := p.Ask(question)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", &ValidationError{Field: field, Msg: "must not be empty"}
	}
	return answer, nil
}
