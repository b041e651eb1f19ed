package recommend

import (
	"encoding/json"
	"strings"
)

// envelope matches the object wrapping some models insist on despite
// the prompt asking for a bare array.
type envelope struct {
	Recommendations json.RawMessage `json:"recommendations"`
	Albums          json.RawMessage `json:"albums"`
}

// LikelyValid reports whether text already contains a usable JSON
// array: either the root is an array, or the root is an object with a
// `recommendations` or `albums` array member. Parse failures and
// unrecognized shapes are false, never errors.
func LikelyValid(text string) bool {
	var root json.RawMessage
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return false
	}
	if isJSONArray(root) {
		return true
	}
	var env envelope
	if err := json.Unmarshal(root, &env); err != nil {
		return false
	}
	return isJSONArray(env.Recommendations) || isJSONArray(env.Albums)
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

// TryRepair extracts the first bracketed array substring from
// near-JSON text (prose around the array, markdown fences). Single
// shot: it does not fix interior syntax, and callers must re-validate
// the result and give up on failure rather than loop.
func TryRepair(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
