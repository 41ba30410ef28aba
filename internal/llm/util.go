package llm

import "strings"

// CleanJSONBlock removes markdown code fences from a model response.
// Models often wrap JSON in ```json ... ``` even when told not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return strings.TrimSpace(strings.TrimSuffix(text, "```"))
	}

	text = strings.TrimPrefix(text, "```")
	// a language tag sits alone on the first line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		tag := strings.TrimSpace(text[:idx])
		if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
			text = text[idx+1:]
		} else {
			text = trimJSONTag(text)
		}
	} else {
		text = trimJSONTag(text)
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// trimJSONTag drops a json language tag written on the same line as the data
func trimJSONTag(text string) string {
	if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
		return text[4:]
	}
	return text
}
