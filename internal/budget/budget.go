// Package budget derives per-model token budgets for prompt building.
package budget

import "strings"

// Reserve defaults. Locally-hosted models get smaller completion and
// safety reserves: the caller controls the full context window and a
// retry is cheap, so less slack is needed than against a metered cloud
// API.
const (
	// systemReserveTokens is flat regardless of model. A per-model
	// value is a candidate for future tuning.
	systemReserveTokens = 1200

	localCompletionRatio  = 0.15
	hostedCompletionRatio = 0.20

	localSafetyRatio  = 0.05
	hostedSafetyRatio = 0.10

	localHeadroomTokens  = 512
	hostedHeadroomTokens = 1024
)

// localMarkers identify locally-hosted providers by substring of the
// model key.
var localMarkers = []string{"ollama", "lmstudio", "lm-studio"}

// Policy answers how many tokens to reserve for a given model key.
// All methods are pure functions of the key; an absent or empty key
// gets hosted-model defaults.
type Policy struct{}

// NewPolicy creates a budget policy.
func NewPolicy() *Policy {
	return &Policy{}
}

// IsLocal reports whether the model key names a locally-hosted model.
func (p *Policy) IsLocal(modelKey string) bool {
	key := strings.ToLower(modelKey)
	for _, marker := range localMarkers {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}

// SystemReserveTokens is the token count held back for the system prompt.
func (p *Policy) SystemReserveTokens(modelKey string) int {
	return systemReserveTokens
}

// CompletionReserveRatio is the fraction of the context window held
// back for the model's reply.
func (p *Policy) CompletionReserveRatio(modelKey string) float64 {
	if p.IsLocal(modelKey) {
		return localCompletionRatio
	}
	return hostedCompletionRatio
}

// SafetyMarginRatio is the fraction of the context window held back to
// absorb tokenizer estimation error.
func (p *Policy) SafetyMarginRatio(modelKey string) float64 {
	if p.IsLocal(modelKey) {
		return localSafetyRatio
	}
	return hostedSafetyRatio
}

// HeadroomTokens is the fixed extra slack subtracted after the ratios.
func (p *Policy) HeadroomTokens(modelKey string) int {
	if p.IsLocal(modelKey) {
		return localHeadroomTokens
	}
	return hostedHeadroomTokens
}

// Budget is the reserve breakdown for one prompt build. Derived per
// invocation from the policy and the model's context window; never
// persisted.
type Budget struct {
	Total             int
	SystemReserve     int
	CompletionReserve int
	SafetyMargin      int
	Headroom          int
	Usable            int
}

// ForModel computes the budget for modelKey against contextWindow
// total tokens. Usable is floored at zero: a window too small for the
// reserves yields an empty (but valid) budget rather than an error.
func (p *Policy) ForModel(modelKey string, contextWindow int) Budget {
	if contextWindow < 0 {
		contextWindow = 0
	}
	b := Budget{
		Total:             contextWindow,
		SystemReserve:     p.SystemReserveTokens(modelKey),
		CompletionReserve: int(float64(contextWindow) * p.CompletionReserveRatio(modelKey)),
		SafetyMargin:      int(float64(contextWindow) * p.SafetyMarginRatio(modelKey)),
		Headroom:          p.HeadroomTokens(modelKey),
	}
	usable := b.Total - b.SystemReserve - b.CompletionReserve - b.SafetyMargin - b.Headroom
	if usable < 0 {
		usable = 0
	}
	b.Usable = usable
	return b
}
