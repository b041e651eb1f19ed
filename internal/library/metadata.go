package library

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ValueKind discriminates the closed set of metadata value shapes.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindRankedList
)

// RankedEntry is one weighted name in a ranked list (e.g. a top genre
// with its album count).
type RankedEntry struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Value is a tagged metadata value: a string, a number, or a ranked
// list of weighted names. The closed variant avoids dynamic type
// switching at every lookup site.
type Value struct {
	Kind   ValueKind
	Str    string
	Num    float64
	Ranked []RankedEntry
}

// StringValue wraps s as a metadata value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// NumberValue wraps n as a metadata value.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// RankedValue wraps entries as a metadata value.
func RankedValue(entries []RankedEntry) Value {
	return Value{Kind: KindRankedList, Ranked: entries}
}

// UnmarshalJSON accepts a JSON string, number, or array of
// {"name":..., "weight":...} objects. Any other shape is an error at
// the profile boundary, before the core runs.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(trimmed, `"`):
		v.Kind = KindString
		return json.Unmarshal(data, &v.Str)
	case strings.HasPrefix(trimmed, "["):
		v.Kind = KindRankedList
		return json.Unmarshal(data, &v.Ranked)
	default:
		v.Kind = KindNumber
		if err := json.Unmarshal(data, &v.Num); err != nil {
			return fmt.Errorf("library: metadata value must be string, number, or ranked list: %w", err)
		}
		return nil
	}
}

// MarshalJSON emits the underlying shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindRankedList:
		return json.Marshal(v.Ranked)
	default:
		return json.Marshal(v.Num)
	}
}

// fingerprint renders the value deterministically for cache keying.
func (v Value) fingerprint() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return fmt.Sprintf("%g", v.Num)
	default:
		parts := make([]string, len(v.Ranked))
		for i, e := range v.Ranked {
			parts[i] = fmt.Sprintf("%s:%g", e.Name, e.Weight)
		}
		return strings.Join(parts, ",")
	}
}

// Metadata is the open-ended enrichment mapping attached to a profile.
// All lookups are defensive: a missing key or a kind mismatch yields
// the zero value and false, never an error.
type Metadata map[string]Value

// GetString returns the string stored at key.
func (m Metadata) GetString(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// GetNumber returns the number stored at key.
func (m Metadata) GetNumber(key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// GetRankedList returns the ranked list stored at key, sorted by
// weight descending (name ascending on ties) so callers get a stable
// top-N regardless of input order.
func (m Metadata) GetRankedList(key string) ([]RankedEntry, bool) {
	v, ok := m[key]
	if !ok || v.Kind != KindRankedList {
		return nil, false
	}
	out := make([]RankedEntry, len(v.Ranked))
	copy(out, v.Ranked)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Name < out[j].Name
	})
	return out, true
}
