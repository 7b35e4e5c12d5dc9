package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/santiagomed/rcgen/logger"
	"github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	openAIClient *openai.Client
	config       *LlmConfig
	logger       logger.Logger
}

func NewOpenAIClient(cfg *LlmConfig, logger logger.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.timeout()}
	return &OpenAIClient{
		openAIClient: openai.NewClientWithConfig(clientConfig),
		config:       cfg,
		logger:       logger,
	}, nil
}

func (c *OpenAIClient) ModelName() string { return c.config.ModelName }
func (c *OpenAIClient) Provider() string  { return ProviderOpenAI }

func (c *OpenAIClient) GetCompletion(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout())
	defer cancel()

	resp, err := c.openAIClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:     c.config.ModelName,
			MaxTokens: c.config.maxTokens(),
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: SystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		e := &openai.APIError{}
		if errors.As(err, &e) {
			switch e.HTTPStatusCode {
			case 401:
				c.logger.Warn("unauthorized: invalid OpenAI API key")
			case 429:
				c.logger.Warn("rate limited by OpenAI API")
			}
			return "", &RemoteServiceError{Status: e.HTTPStatusCode, Body: e.Message, Err: err}
		}
		reqErr := &openai.RequestError{}
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
			return "", &RemoteServiceError{Status: reqErr.HTTPStatusCode, Body: reqErr.Error(), Err: err}
		}
		return "", classify(err, c.config.timeout())
	}

	if len(resp.Choices) == 0 {
		return "", &RemoteServiceError{Status: http.StatusOK, Body: "no choices returned from OpenAI"}
	}
	c.logger.Debug(fmt.Sprintf("openai usage: %d prompt tokens, %d completion tokens",
		resp.Usage.PromptTokens, resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}
