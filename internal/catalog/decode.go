package catalog

import (
	"strings"

	"github.com/goccy/go-json"
)

// envelopeKeys are the object keys checked, in order, when a model response
// wraps its candidate list in an object instead of returning a bare array.
var envelopeKeys = []string{"movies", "recommendations", "results", "items"}

// DecodeRecords extracts raw candidate records from a model response. It
// accepts a JSON array, an object wrapping an array under one of the
// envelope keys, or a single movie object, optionally inside a Markdown
// code fence. Anything unparseable yields an empty slice.
//
// Only JSON objects count as records: null, strings and numbers inside the
// array are skipped, so the result can be shorter than the model's array.
// Normalize then maps every returned record to exactly one movie.
func DecodeRecords(text string) []map[string]any {
	text = stripFence(text)
	if text == "" {
		return []map[string]any{}
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return []map[string]any{}
	}

	switch t := v.(type) {
	case []any:
		return recordsFrom(t)
	case map[string]any:
		for _, k := range envelopeKeys {
			if arr, ok := t[k].([]any); ok {
				return recordsFrom(arr)
			}
		}
		if _, ok := t["title"]; ok {
			return []map[string]any{t}
		}
	}
	return []map[string]any{}
}

// recordsFrom keeps only object elements; scalars in the array are dropped
// because they carry no movie fields at all.
func recordsFrom(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
