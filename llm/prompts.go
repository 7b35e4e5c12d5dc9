package llm

import (
	"fmt"

	"github.com/santiagomed/rcgen/component"
)

// PromptInput is everything the instruction text depends on.
type PromptInput struct {
	Name        string
	Description string
	Styling     component.Styling
}

var stylingClauses = map[component.Styling]string{
	component.StylingNone:      "without any CSS framework",
	component.StylingTailwind:  "using Tailwind CSS for styling",
	component.StylingBootstrap: "using Bootstrap for styling",
}

// StylingClause returns the sentence fragment describing s.
func StylingClause(s component.Styling) string {
	if clause, ok := stylingClauses[s]; ok {
		return clause
	}
	return stylingClauses[component.StylingNone]
}

// BuildPrompt renders the instruction sent to the model.
func BuildPrompt(in PromptInput) string {
	return fmt.Sprintf(`Generate a complete React functional component named %s with the following specifications:
%s

The component should be %s.
Include imports, prop types, and a default export.
Only provide the JavaScript/JSX code without explanation.`, component.FormatName(in.Name), in.Description, StylingClause(in.Styling))
}

// SystemPrompt is sent by the chat based providers.
const SystemPrompt = `You are an expert React developer. You write small, self-contained functional components in modern JavaScript with JSX.

Answer with the source of a single file. Do not add explanations before or after the code.`
