package llm

import "context"

// Client sends one prompt to a remote text-generation model.
type Client interface {
	GetCompletion(ctx context.Context, prompt string) (string, error)
	ModelName() string
	Provider() string
}
