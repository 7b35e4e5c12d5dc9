package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/santiagomed/rcgen/logger"
)

const huggingFaceURL = "https://router.huggingface.co/hf-inference/models"

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	ReturnFullText bool `json:"return_full_text"`
	MaxNewTokens   int  `json:"max_new_tokens"`
}

// HuggingFaceClient talks to the Hugging Face inference API.
type HuggingFaceClient struct {
	config     *LlmConfig
	baseURL    string
	logger     logger.Logger
	httpClient *http.Client
}

func NewHuggingFaceClient(cfg *LlmConfig, logger logger.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("hugging face API key is required")
	}
	if cfg.ModelName == "" {
		return nil, errors.New("model name is required")
	}
	baseURL := huggingFaceURL
	if cfg.Endpoint != "" {
		baseURL = cfg.Endpoint
	}
	return &HuggingFaceClient{
		config:     cfg,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.timeout()},
	}, nil
}

func (h *HuggingFaceClient) ModelName() string { return h.config.ModelName }
func (h *HuggingFaceClient) Provider() string  { return ProviderHuggingFace }

func (h *HuggingFaceClient) GetCompletion(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.timeout())
	defer cancel()

	jsonData, err := json.Marshal(inferenceRequest{
		Inputs: prompt,
		Parameters: inferenceParameters{
			ReturnFullText: false,
			MaxNewTokens:   h.config.maxTokens(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	url := h.baseURL + "/" + h.config.ModelName
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+h.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	h.logger.Debug(fmt.Sprintf("POST %s", url))
	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return "", classify(err, h.config.timeout())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(err, h.config.timeout())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RemoteServiceError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return generatedText(body), nil
}

// generatedText accepts either a list of results (the first wins) or a single
// result object. Anything else is returned as text.
func generatedText(body []byte) string {
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return strings.TrimSpace(string(body))
	}

	candidate := decoded
	if list, ok := decoded.([]interface{}); ok && len(list) > 0 {
		candidate = list[0]
	}
	if obj, ok := candidate.(map[string]interface{}); ok {
		if text, ok := obj["generated_text"].(string); ok {
			return text
		}
	}
	if s, ok := decoded.(string); ok {
		return s
	}

	return strings.TrimSpace(string(body))
}
