// Package recommend turns raw model output into validated
// recommendation records.
package recommend

import "strings"

// Year bounds for a plausible album release. Out-of-range years do not
// invalidate the item; the year is just treated as absent downstream.
const (
	minValidYear = 1900
	maxValidYear = 2100
)

// defaultConfidence is assumed when the model omits the field.
const defaultConfidence = 0.5

// Item is one recommendation decoded from the model's JSON array.
// Field validation is all predicate-based: nothing here returns an
// error for messy data, callers filter instead.
type Item struct {
	Artist     string   `json:"artist"`
	Album      string   `json:"album"`
	Genre      string   `json:"genre,omitempty"`
	Year       *int     `json:"year,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// IsValid reports whether the item carries the required fields:
// a non-blank artist and album.
func (it Item) IsValid() bool {
	return strings.TrimSpace(it.Artist) != "" && strings.TrimSpace(it.Album) != ""
}

// NormalizedConfidence clamps the confidence to [0,1], defaulting to
// 0.5 when absent. Read-only: the stored field is never mutated.
func (it Item) NormalizedConfidence() float64 {
	if it.Confidence == nil {
		return defaultConfidence
	}
	c := *it.Confidence
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 1
	}
	return c
}

// HasValidYear reports whether a year is present and plausible.
func (it Item) HasValidYear() bool {
	return it.Year != nil && *it.Year >= minValidYear && *it.Year <= maxValidYear
}
