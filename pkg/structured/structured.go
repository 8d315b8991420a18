// Package structured recovers typed data from free-form model output. A parse
// either yields decoded data or explicitly falls back to the raw text; there
// is no silent partial success.
package structured

import (
	"encoding/json"
	"strings"
)

// Result is a tagged parse outcome: either structured data or the raw text
// for a caller-side fallback.
type Result[T any] struct {
	data       T
	raw        string
	structured bool
}

// Structured returns the decoded data when the parse succeeded
func (r Result[T]) Structured() (T, bool) {
	return r.data, r.structured
}

// Fallback returns the raw text when no structured data could be decoded
func (r Result[T]) Fallback() (string, bool) {
	return r.raw, !r.structured
}

// Parse locates the outermost JSON object in the model's text and decodes it
// into T. Model replies often wrap JSON in prose or code fences, so the
// search is positional rather than a strict whole-document decode.
func Parse[T any](text string) Result[T] {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Result[T]{raw: text}
	}

	var data T
	if err := json.Unmarshal([]byte(text[start:end+1]), &data); err != nil {
		return Result[T]{raw: text}
	}

	return Result[T]{data: data, structured: true}
}
