package provider

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// openaiClient implements Client for OpenAI and OpenAI-compatible
// servers.
type openaiClient struct {
	client        *openai.Client
	model         string
	provider      string
	contextWindow int
}

// NewOpenAI creates an OpenAI client. If apiKey is empty,
// OPENAI_API_KEY is used.
func NewOpenAI(apiKey, model string) Client {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if model == "" {
		model = "gpt-4o"
	}
	return &openaiClient{
		client:        openai.NewClient(apiKey),
		model:         model,
		provider:      ProviderOpenAI,
		contextWindow: 128000,
	}
}

// NewLMStudio creates a client for LM Studio's OpenAI-compatible local
// server. No API key is required; the host points at the /v1 base URL.
func NewLMStudio(host, model string) Client {
	if model == "" {
		model = "local-model"
	}
	cfg := openai.DefaultConfig("lm-studio")
	cfg.BaseURL = host
	return &openaiClient{
		client:        openai.NewClientWithConfig(cfg),
		model:         model,
		provider:      ProviderLMStudio,
		contextWindow: 32768,
	}
}

func (o *openaiClient) Info() ModelInfo {
	return ModelInfo{
		Name:             o.model,
		Provider:         o.provider,
		MaxContextWindow: o.contextWindow,
	}
}

func (o *openaiClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	messages := []openai.ChatCompletionMessage{}
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserMessage,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%s complete: %w", o.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s complete: empty response", o.provider)
	}
	return resp.Choices[0].Message.Content, nil
}
