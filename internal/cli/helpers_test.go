package cli

import (
	"testing"

	"github.com/tunescout/tunescout/internal/config"
)

func TestResolveProvider(t *testing.T) {
	gcfg := config.DefaultGlobal()
	gcfg.DefaultProvider = "ollama"
	gcfg.DefaultModel = "llama3.1"

	tests := []struct {
		name         string
		providerFlag string
		modelFlag    string
		wantProvider string
		wantModel    string
	}{
		{"config defaults", "", "", "ollama", "llama3.1"},
		{"provider flag wins", "openai", "", "openai", "llama3.1"},
		{"model flag wins", "", "gpt-4o", "ollama", "gpt-4o"},
		{"both flags win", "openai", "gpt-4o", "openai", "gpt-4o"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, m := resolveProvider(gcfg, tt.providerFlag, tt.modelFlag)
			if p != tt.wantProvider || m != tt.wantModel {
				t.Errorf("got %q/%q, want %q/%q", p, m, tt.wantProvider, tt.wantModel)
			}
		})
	}
}

func TestBuildService_InvalidCompressionSettings(t *testing.T) {
	gcfg := config.DefaultGlobal()
	gcfg.Prompt.MinAlbumsPerGroup = 0

	if _, _, err := buildService(gcfg, "ollama", "llama3.1", false); err == nil {
		t.Error("expected error for invalid compression settings")
	}
}

func TestBuildService_UnknownProvider(t *testing.T) {
	gcfg := config.DefaultGlobal()
	if _, _, err := buildService(gcfg, "grok", "", false); err == nil {
		t.Error("expected error for unknown provider")
	}
}
