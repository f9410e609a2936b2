package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSONRe    = regexp.MustCompile("(?s)^```(?:json)?\\s*\n?(.*?)\n?```\\s*$")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON pulls a JSON object out of model output: markdown fences are
// stripped, the outermost object is isolated, and trailing commas removed.
// Anything still invalid after that is the caller's problem (repair path).
func ExtractJSON(content string) (string, error) {
	jsonStr := strings.TrimSpace(content)

	if m := fencedJSONRe.FindStringSubmatch(jsonStr); m != nil {
		jsonStr = m[1]
	}

	start := strings.Index(jsonStr, "{")
	end := strings.LastIndex(jsonStr, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in content")
	}
	jsonStr = jsonStr[start : end+1]

	if json.Valid([]byte(jsonStr)) {
		return jsonStr, nil
	}

	fixed := trailingCommaRe.ReplaceAllString(jsonStr, "$1")
	if json.Valid([]byte(fixed)) {
		return fixed, nil
	}

	return "", fmt.Errorf("content is not valid JSON")
}

// DecodeResearch parses provider output into the raw research shape.
func DecodeResearch(jsonStr string) (*RawResearch, error) {
	var raw RawResearch
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("decode research payload: %w", err)
	}
	return &raw, nil
}
