// Package engine runs the full recommendation flow: budget, prompt,
// provider call, repair, parse, cache.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/tunescout/tunescout/internal/budget"
	"github.com/tunescout/tunescout/internal/cache"
	"github.com/tunescout/tunescout/internal/library"
	"github.com/tunescout/tunescout/internal/prompt"
	"github.com/tunescout/tunescout/internal/provider"
	"github.com/tunescout/tunescout/internal/recommend"
	"github.com/tunescout/tunescout/internal/tokenizer"
)

// Options tune one recommendation request.
type Options struct {
	Count       int     // how many albums to ask for (default 10)
	Temperature float64 // sampling temperature for the provider call
	NoCache     bool    // bypass the result cache
}

// Report describes how a request was served, for verbose output.
type Report struct {
	ModelKey     string
	Budget       budget.Budget
	Sizing       prompt.Sizing
	Pass         prompt.Pass
	PromptTokens int
	Repaired     bool
	Cached       bool
	Received     int // items parsed before validity filtering happened upstream
}

// Service wires the policies together against one provider client.
// The cache store is optional; without it every request computes.
type Service struct {
	client   provider.Client
	policy   *budget.Policy
	registry *tokenizer.Registry
	limits   prompt.CompressionLimits
	store    *cache.Store
	cacheTTL time.Duration

	// windowOverride replaces the client's reported context window
	// when positive.
	windowOverride int
}

// New creates a Service. A nil registry gets the default registry; a
// nil store disables caching.
func New(client provider.Client, registry *tokenizer.Registry, limits prompt.CompressionLimits, store *cache.Store, cacheTTL time.Duration) *Service {
	if registry == nil {
		registry = tokenizer.NewDefaultRegistry()
	}
	return &Service{
		client:   client,
		policy:   budget.NewPolicy(),
		registry: registry,
		limits:   limits,
		store:    store,
		cacheTTL: cacheTTL,
	}
}

// SetContextWindow overrides the provider-reported context window.
func (s *Service) SetContextWindow(tokens int) {
	s.windowOverride = tokens
}

// Recommend produces validated recommendations for the profile.
func (s *Service) Recommend(ctx context.Context, profile *library.Profile, opts Options) ([]recommend.Item, *Report, error) {
	if opts.Count <= 0 {
		opts.Count = 10
	}

	info := s.client.Info()
	report := &Report{ModelKey: provider.ModelKey(info)}

	if s.store != nil && !opts.NoCache {
		key := profile.Fingerprint(info.Provider, info.Name)
		computed := false
		items, err := s.store.Cached(key, report.ModelKey, s.cacheTTL, func() ([]recommend.Item, error) {
			computed = true
			return s.compute(ctx, profile, opts, info, report)
		})
		if err != nil {
			return nil, report, err
		}
		report.Cached = !computed
		return items, report, nil
	}

	items, err := s.compute(ctx, profile, opts, info, report)
	return items, report, err
}

// compute runs the uncached pipeline and fills the report.
func (s *Service) compute(ctx context.Context, profile *library.Profile, opts Options, info provider.ModelInfo, report *Report) ([]recommend.Item, error) {
	window := info.MaxContextWindow
	if s.windowOverride > 0 {
		window = s.windowOverride
	}

	b := s.policy.ForModel(report.ModelKey, window)
	sizing := prompt.SizeFor(profile.TotalArtists, profile.TotalAlbums, b.Usable)
	report.Budget = b
	report.Sizing = sizing

	counter := s.registry.Get(report.ModelKey)
	rendered := prompt.NewRenderer(counter, s.limits).Render(profile, b, sizing, opts.Count)
	report.Pass = rendered.Pass
	report.PromptTokens = rendered.Tokens

	maxTokens := b.CompletionReserve
	if maxTokens < 512 {
		maxTokens = 512
	}

	raw, err := s.client.Complete(ctx, provider.Request{
		SystemPrompt: rendered.System,
		UserMessage:  rendered.User,
		MaxTokens:    maxTokens,
		Temperature:  opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: provider call: %w", err)
	}

	text := raw
	if !recommend.LikelyValid(text) {
		candidate, ok := recommend.TryRepair(text)
		if !ok || !recommend.LikelyValid(candidate) {
			// One-shot repair failed; messy output yields an empty
			// result, not an error.
			return nil, nil
		}
		text = candidate
		report.Repaired = true
	}

	items := recommend.ParseItems(text)
	report.Received = len(items)
	if len(items) > opts.Count {
		items = items[:opts.Count]
	}
	return items, nil
}
