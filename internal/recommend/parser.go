package recommend

import "encoding/json"

// ParseItems decodes validated (or repaired) model text into items.
// Accepts a bare array or the recommendations/albums envelope.
// Elements that fail to decode or lack required fields are skipped;
// out-of-range years survive with the year cleared. Malformed input
// yields an empty slice, never an error.
func ParseItems(raw string) []Item {
	arr := arrayPayload(raw)
	if arr == nil {
		return nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(arr, &elements); err != nil {
		return nil
	}

	items := make([]Item, 0, len(elements))
	for _, el := range elements {
		var it Item
		if err := json.Unmarshal(el, &it); err != nil {
			continue
		}
		if !it.IsValid() {
			continue
		}
		if it.Year != nil && !it.HasValidYear() {
			it.Year = nil
		}
		items = append(items, it)
	}
	return items
}

// arrayPayload returns the JSON array inside raw, unwrapping the
// envelope when present.
func arrayPayload(raw string) json.RawMessage {
	var root json.RawMessage
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return nil
	}
	if isJSONArray(root) {
		return root
	}
	var env envelope
	if err := json.Unmarshal(root, &env); err != nil {
		return nil
	}
	if isJSONArray(env.Recommendations) {
		return env.Recommendations
	}
	if isJSONArray(env.Albums) {
		return env.Albums
	}
	return nil
}
