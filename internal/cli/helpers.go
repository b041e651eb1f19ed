package cli

import (
	"fmt"
	"time"

	"github.com/tunescout/tunescout/internal/cache"
	"github.com/tunescout/tunescout/internal/config"
	"github.com/tunescout/tunescout/internal/engine"
	"github.com/tunescout/tunescout/internal/prompt"
	"github.com/tunescout/tunescout/internal/provider"
)

// resolveProvider picks the effective provider and model from config
// plus flag overrides.
func resolveProvider(gcfg config.GlobalConfig, providerFlag, modelFlag string) (string, string) {
	name := gcfg.DefaultProvider
	if providerFlag != "" {
		name = providerFlag
	}
	model := gcfg.DefaultModel
	if modelFlag != "" {
		model = modelFlag
	}
	return name, model
}

// buildService assembles the engine from config. The returned cleanup
// closes the cache store (nil-safe).
func buildService(gcfg config.GlobalConfig, providerName, model string, useCache bool) (*engine.Service, func(), error) {
	client, err := provider.New(providerName, model, gcfg.Key(providerName), gcfg.Host(providerName))
	if err != nil {
		return nil, nil, err
	}

	limits, err := prompt.NewCompressionLimits(
		gcfg.Prompt.MinAlbumsPerGroup,
		gcfg.Prompt.MaxRelaxedInflation,
		gcfg.Prompt.AbsoluteRelaxedCap,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid compression settings: %w", err)
	}

	var store *cache.Store
	cleanup := func() {}
	if useCache && gcfg.Cache.Enabled {
		path, err := gcfg.CachePath()
		if err == nil {
			if s, openErr := cache.Open(path); openErr == nil {
				store = s
				cleanup = func() { s.Close() }
			}
			// Cache open failures degrade to uncached operation.
		}
	}

	ttl := time.Duration(gcfg.Cache.TTLHours) * time.Hour
	svc := engine.New(client, nil, limits, store, ttl)
	if gcfg.Prompt.ContextWindow > 0 {
		svc.SetContextWindow(gcfg.Prompt.ContextWindow)
	}
	return svc, cleanup, nil
}
