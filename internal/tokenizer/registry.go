package tokenizer

import "strings"

// Registry resolves the tokenizer to use for a model key. The override
// map is copied (with lowercased keys) at construction and never
// mutated afterward, so Get is safe for unsynchronized concurrent
// callers.
type Registry struct {
	overrides      map[string]Tokenizer
	defaultCounter Tokenizer
}

// NewRegistry builds a registry from per-key overrides and an explicit
// default tokenizer. Override keys may be full model keys
// ("openai:gpt-4o") or bare provider prefixes ("openai"). A nil
// defaultCounter falls back to the heuristic tokenizer.
func NewRegistry(overrides map[string]Tokenizer, defaultCounter Tokenizer) *Registry {
	if defaultCounter == nil {
		defaultCounter = NewHeuristic()
	}
	m := make(map[string]Tokenizer, len(overrides))
	for k, v := range overrides {
		if v == nil {
			continue
		}
		m[strings.ToLower(k)] = v
	}
	return &Registry{overrides: m, defaultCounter: defaultCounter}
}

// NewDefaultRegistry wires the stock override set: cl100k_base for the
// OpenAI provider when the encoding is available, heuristic everywhere
// else. tiktoken load failures degrade silently to the heuristic.
func NewDefaultRegistry() *Registry {
	overrides := map[string]Tokenizer{}
	if tt, err := NewTiktoken(); err == nil {
		overrides["openai"] = tt
	}
	return NewRegistry(overrides, NewHeuristic())
}

// Get resolves the tokenizer for modelKey: exact match first, then the
// provider prefix before the first ':', then the default.
func (r *Registry) Get(modelKey string) Tokenizer {
	key := strings.ToLower(strings.TrimSpace(modelKey))
	if t, ok := r.overrides[key]; ok {
		return t
	}
	if i := strings.Index(key, ":"); i > 0 {
		if t, ok := r.overrides[key[:i]]; ok {
			return t
		}
	}
	return r.defaultCounter
}

// Default returns the registry's fallback tokenizer.
func (r *Registry) Default() Tokenizer {
	return r.defaultCounter
}
