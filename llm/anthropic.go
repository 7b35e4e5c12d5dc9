package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/santiagomed/rcgen/logger"
)

type AnthropicClient struct {
	client *anthropic.Client
	config *LlmConfig
	logger logger.Logger
}

func NewAnthropicClient(cfg *LlmConfig, logger logger.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: cfg.timeout()}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client: &client,
		config: cfg,
		logger: logger,
	}, nil
}

func (a *AnthropicClient) ModelName() string { return a.config.ModelName }
func (a *AnthropicClient) Provider() string  { return ProviderAnthropic }

func (a *AnthropicClient) GetCompletion(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.config.timeout())
	defer cancel()

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.config.ModelName),
		MaxTokens: int64(a.config.maxTokens()),
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &RemoteServiceError{Status: apiErr.StatusCode, Body: apiErr.Error(), Err: err}
		}
		return "", classify(err, a.config.timeout())
	}

	a.logger.Debug(fmt.Sprintf("anthropic usage: %d input tokens, %d output tokens",
		message.Usage.InputTokens, message.Usage.OutputTokens))

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", &RemoteServiceError{Status: http.StatusOK, Body: "no text content returned from Anthropic"}
}
