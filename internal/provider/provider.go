// Package provider gives a unified interface over the LLM backends the
// recommender can talk to.
package provider

import (
	"context"
	"fmt"
)

// Provider name constants.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderLMStudio  = "lmstudio"
)

// Request holds the parameters for a completion call. Recommendation
// payloads are small, so completions are not streamed.
type Request struct {
	SystemPrompt string
	UserMessage  string
	Model        string
	MaxTokens    int
	Temperature  float64
}

// ModelInfo describes the model behind a client.
type ModelInfo struct {
	Name             string
	Provider         string
	MaxContextWindow int
}

// Client is the common interface all provider clients implement.
type Client interface {
	// Complete sends a prompt and returns the full text reply.
	Complete(ctx context.Context, req Request) (string, error)

	// Info returns metadata about the configured model.
	Info() ModelInfo
}

// ModelKey combines provider and model into the key used for tokenizer
// and budget selection, e.g. "ollama:llama3.1".
func ModelKey(info ModelInfo) string {
	return info.Provider + ":" + info.Name
}

// New constructs the Client for the named provider.
//
//   - name: "openai", "anthropic", "ollama", "lmstudio"
//   - model: model name (empty = provider default)
//   - apiKey: provider API key (empty = read from env in the client)
//   - host: base URL for local servers (ollama, lmstudio)
func New(name, model, apiKey, host string) (Client, error) {
	switch name {
	case ProviderOpenAI:
		return NewOpenAI(apiKey, model), nil
	case ProviderAnthropic:
		return NewAnthropic(apiKey, model), nil
	case ProviderOllama:
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllama(host, model), nil
	case ProviderLMStudio:
		if host == "" {
			host = "http://localhost:1234/v1"
		}
		return NewLMStudio(host, model), nil
	default:
		return nil, fmt.Errorf("provider: unknown provider %q; valid providers: openai, anthropic, ollama, lmstudio", name)
	}
}
