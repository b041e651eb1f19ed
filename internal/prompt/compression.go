package prompt

import "fmt"

// CompressionLimits are the tunable bounds the renderer honors when
// the sized listing still exceeds the usable budget and grouped or
// truncated representations must be built.
type CompressionLimits struct {
	// MinAlbumsPerGroup: groups smaller than this are dropped rather
	// than rendered, so the prompt is not littered with one-item
	// clusters.
	MinAlbumsPerGroup int

	// MaxRelaxedInflation: the relaxed per-category cap may grow to at
	// most this multiple of the standard target.
	MaxRelaxedInflation float64

	// AbsoluteRelaxedCap: hard ceiling on any relaxed count,
	// independent of the inflation math.
	AbsoluteRelaxedCap int
}

// DefaultCompressionLimits returns the stock limits.
func DefaultCompressionLimits() CompressionLimits {
	return CompressionLimits{
		MinAlbumsPerGroup:   3,
		MaxRelaxedInflation: 3.0,
		AbsoluteRelaxedCap:  5000,
	}
}

// NewCompressionLimits validates and builds custom limits.
// Misconfiguration is a programmer error surfaced at construction, not
// a runtime condition.
func NewCompressionLimits(minAlbumsPerGroup int, maxRelaxedInflation float64, absoluteRelaxedCap int) (CompressionLimits, error) {
	if minAlbumsPerGroup < 1 {
		return CompressionLimits{}, fmt.Errorf("prompt: min albums per group must be >= 1, got %d", minAlbumsPerGroup)
	}
	if maxRelaxedInflation < 1.0 {
		return CompressionLimits{}, fmt.Errorf("prompt: max relaxed inflation must be >= 1.0, got %g", maxRelaxedInflation)
	}
	if absoluteRelaxedCap < minAlbumsPerGroup {
		return CompressionLimits{}, fmt.Errorf("prompt: absolute relaxed cap (%d) must be >= min albums per group (%d)",
			absoluteRelaxedCap, minAlbumsPerGroup)
	}
	return CompressionLimits{
		MinAlbumsPerGroup:   minAlbumsPerGroup,
		MaxRelaxedInflation: maxRelaxedInflation,
		AbsoluteRelaxedCap:  absoluteRelaxedCap,
	}, nil
}

// RelaxedCap returns the inflated ceiling for a category whose
// standard target is standardTarget.
func (c CompressionLimits) RelaxedCap(standardTarget int) int {
	relaxed := int(float64(standardTarget) * c.MaxRelaxedInflation)
	if relaxed < c.MinAlbumsPerGroup {
		relaxed = c.MinAlbumsPerGroup
	}
	if relaxed > c.AbsoluteRelaxedCap {
		relaxed = c.AbsoluteRelaxedCap
	}
	return relaxed
}
