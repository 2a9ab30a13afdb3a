package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/valpere/i18nsync/internal/postprocess"
)

const (
	DefaultOpenAIModel = "gpt-4.1-mini"

	openRouterBaseURL = "https://openrouter.ai/api/v1"
	ollamaBaseURL     = "http://localhost:11434/v1"
	defaultTimeout    = 120 * time.Second
)

// OpenAIService talks to any OpenAI-compatible chat completion endpoint:
// OpenAI itself, OpenRouter or a local Ollama.
type OpenAIService struct {
	name   string
	model  string
	client *openai.Client
}

// NewOpenAIService builds a client for provider ("openai", "openrouter" or
// "ollama") from cfg. Ollama is the only provider that runs without a key.
func NewOpenAIService(provider string, cfg ServiceConfig) (*OpenAIService, error) {
	apiKey := cfg.APIKey
	baseURL := cfg.BaseURL
	model := cfg.Model

	switch provider {
	case "openai":
	case "openrouter":
		if baseURL == "" {
			baseURL = openRouterBaseURL
		}
	case "ollama":
		if baseURL == "" {
			baseURL = ollamaBaseURL
		}
		if apiKey == "" {
			apiKey = "ollama"
		}
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrConfig, provider)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s API key required", ErrConfig, provider)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	config.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIService{
		name:   provider,
		model:  model,
		client: openai.NewClientWithConfig(config),
	}, nil
}

func (s *OpenAIService) Name() string {
	return s.name
}

func (s *OpenAIService) Model() string {
	return s.model
}

func (s *OpenAIService) Translate(ctx context.Context, p Payload) (map[string]string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, Permanent(fmt.Errorf("failed to marshal payload: %w", err))
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(body)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, s.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, malformed("empty response from %s", s.name)
	}

	return DecodeItems(resp.Choices[0].Message.Content)
}

func (s *OpenAIService) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{Service: s.name, Code: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &StatusError{Service: s.name, Code: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return fmt.Errorf("%s request failed: %w", s.name, err)
}

func (s *OpenAIService) IsAvailable(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("%w: %s client not configured", ErrConfig, s.name)
	}
	return nil
}

// DecodeItems parses a model answer into a string mapping. Reasoning blocks,
// code fences and surrounding prose are stripped first.
func DecodeItems(text string) (map[string]string, error) {
	cleaned := postprocess.ExtractJSON(text)
	if cleaned == "" {
		return nil, malformed("empty content")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, malformed("not a JSON object: %v", err)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, malformed("value of %q is %T, not a string", k, v)
		}
		out[k] = s
	}
	return out, nil
}
