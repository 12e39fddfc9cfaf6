// Package extract pulls a structured JSON payload out of a provider's
// free-form text reply. Generative models routinely wrap the object in prose
// or fenced code blocks; this stage is a pure function from raw text to a
// decoded value or a typed failure.
package extract

import (
	"encoding/json"
	"strings"

	"pcos-backend/internal/pipeline"
)

// JSON decodes the first JSON object embedded in raw into v. On failure it
// returns a MalformedResponseError carrying the original raw text; it never
// yields a partial or default value.
func JSON(provider, raw string, v any) error {
	candidate := locate(raw)
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return pipeline.NewMalformedResponseError(provider, raw, err)
	}
	return nil
}

// Raw returns the located candidate payload without decoding it. Useful when
// the caller wants to defer schema decisions.
func Raw(provider, raw string) (json.RawMessage, error) {
	candidate := locate(raw)
	if !json.Valid([]byte(candidate)) {
		return nil, pipeline.NewMalformedResponseError(provider, raw, nil)
	}
	return json.RawMessage(candidate), nil
}

// locate strips fenced-code-block markers and slices from the first opening
// brace to the last closing brace. When no brace pair exists the cleaned text
// is returned as-is so bare JSON still parses.
func locate(raw string) string {
	clean := stripFences(strings.TrimSpace(raw))

	first := strings.Index(clean, "{")
	last := strings.LastIndex(clean, "}")
	if first == -1 || last == -1 || last < first {
		return clean
	}
	return strings.TrimSpace(clean[first : last+1])
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
