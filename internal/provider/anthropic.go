package provider

import (
	"context"
	"fmt"
	"os"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// anthropicClient implements Client for Anthropic Claude.
type anthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropic creates a Claude client. If apiKey is empty,
// ANTHROPIC_API_KEY is used.
func NewAnthropic(apiKey, model string) Client {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if model == "" {
		model = "claude-sonnet-4-6"
	}
	return &anthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}
}

func (c *anthropicClient) Info() ModelInfo {
	return ModelInfo{
		Name:             c.model,
		Provider:         ProviderAnthropic,
		MaxContextWindow: 200000,
	}
}

func (c *anthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(model),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(req.UserMessage)},
			},
		},
		MaxTokens:   maxTokens,
		System:      req.SystemPrompt,
		Temperature: floatPtr(float32(req.Temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic complete: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("anthropic complete: empty response")
	}
	return resp.Content[0].GetText(), nil
}

func floatPtr(f float32) *float32 { return &f }
