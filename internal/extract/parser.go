package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

	// The model occasionally emits a stray bare word where only punctuation
	// belongs, e.g. `} institutions }` or `} keywords ,`.
	strayTokenBraceRe = regexp.MustCompile(`}\s+\w+\s+}`)
	strayTokenCommaRe = regexp.MustCompile(`}\s+\w+\s+,`)
)

// parseModelJSON recovers a JSON object from free-form model output. Ordered
// attempts, first success wins: the whole string as strict JSON, then each
// fenced code block in source order after stray-token repair.
func parseModelJSON(text string) (map[string]any, error) {
	if text == "" {
		return nil, &ParseError{Message: "empty or non-string data"}
	}

	text = strings.TrimSpace(text)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		return parsed, nil
	}

	if strings.Contains(text, "```") {
		for _, match := range fencedBlockRe.FindAllStringSubmatch(text, -1) {
			block := strings.TrimSpace(match[1])
			block = strayTokenBraceRe.ReplaceAllString(block, "}}")
			block = strayTokenCommaRe.ReplaceAllString(block, "},")

			var blockParsed map[string]any
			if err := json.Unmarshal([]byte(block), &blockParsed); err == nil {
				return blockParsed, nil
			}
		}
	}

	return nil, &ParseError{
		Message: "could not extract valid JSON from the provided string; " +
			"ensure the response contains proper JSON format",
	}
}
