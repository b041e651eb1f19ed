// Package tokenizer estimates token counts for prompt budgeting.
package tokenizer

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts the approximate number of tokens in a text span.
// Counts only need to be directionally correct for budgeting decisions,
// not to match a provider's real tokenizer exactly.
type Tokenizer interface {
	Count(text string) int
}

// Heuristic is the fallback tokenizer used when no model-specific
// tokenizer is registered. Each maximal run of alphanumeric/underscore
// characters counts as one token, every other non-whitespace character
// counts as one token, and whitespace counts nothing.
type Heuristic struct{}

// NewHeuristic creates the default word/symbol tokenizer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Count returns the heuristic token count of s.
func (h *Heuristic) Count(s string) int {
	count := 0
	inWord := false
	for _, r := range s {
		switch {
		case isWordRune(r):
			if !inWord {
				count++
				inWord = true
			}
		case isSpaceRune(r):
			inWord = false
		default:
			// Punctuation and symbols count one token apiece.
			count++
			inWord = false
		}
	}
	return count
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}

func isSpaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// Tiktoken wraps tiktoken's cl100k_base encoding (used by GPT-4-era
// models and a good approximation for Claude). Registered as an
// override for providers whose tokenization it matches.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken creates a cl100k_base tokenizer. Construction can fail if
// the encoding data cannot be loaded, so callers treat it as optional
// and fall back to the heuristic.
func NewTiktoken() (*Tiktoken, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("tokenizer: get encoding: %w", err)
	}
	return &Tiktoken{enc: enc}, nil
}

// Count returns the exact cl100k_base token count of s.
func (t *Tiktoken) Count(s string) int {
	return len(t.enc.Encode(s, nil, nil))
}
