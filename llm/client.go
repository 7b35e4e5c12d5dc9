package llm

import (
	"fmt"
	"time"

	"github.com/santiagomed/rcgen/logger"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
)

const defaultTimeout = 60 * time.Second

type LlmConfig struct {
	Provider  string
	APIKey    string
	ModelName string
	// Endpoint overrides the provider's base URL when set.
	Endpoint  string
	Timeout   time.Duration
	MaxTokens int
}

func (c *LlmConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

func (c *LlmConfig) maxTokens() int {
	if c.MaxTokens <= 0 {
		return 1024
	}
	return c.MaxTokens
}

// NewClient returns the client for cfg.Provider.
func NewClient(cfg *LlmConfig, logger logger.Logger) (Client, error) {
	switch cfg.Provider {
	case ProviderHuggingFace, "":
		return NewHuggingFaceClient(cfg, logger)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, logger)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
