package enrichment

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	thinkBlockPattern    = regexp.MustCompile(`(?s)<think>.*?</think>`)
	jsonFencePattern     = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")
	trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)
)

// RenderPrompt replaces every <key> placeholder in template with its value.
// Strings are inserted as is; other values are inserted as JSON.
func RenderPrompt(template string, kwargs map[string]any) string {
	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	prompt := template
	for _, k := range keys {
		prompt = strings.ReplaceAll(prompt, "<"+k+">", formatValue(kwargs[k]))
	}
	return prompt
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// ExtractJSON parses the JSON object in a model reply. Reasoning blocks are dropped,
// a ```json fence is preferred over the raw text and trailing commas are removed.
func ExtractJSON(reply string) (map[string]any, error) {
	cleaned := thinkBlockPattern.ReplaceAllString(reply, "")

	text := strings.TrimSpace(cleaned)
	if m := jsonFencePattern.FindStringSubmatch(cleaned); m != nil {
		text = strings.TrimSpace(m[1])
	}
	text = trailingCommaPattern.ReplaceAllString(text, "$1")

	var result map[string]any
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("failed to parse model reply: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("model reply is not a JSON object")
	}
	return result, nil
}
