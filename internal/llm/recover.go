package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// DecodeModelJSON recovers a JSON object from a model reply that may wrap
// it in markdown or prose. Order: fenced ```json block, then the whole
// reply, then the outermost brace span. Returns ErrParseFailed when
// nothing decodes; it never panics on malformed input.
func DecodeModelJSON(reply string) (map[string]any, error) {
	if m := fencedJSONRe.FindStringSubmatch(reply); m != nil {
		if out, err := decodeObject(m[1]); err == nil {
			return out, nil
		}
	}

	if out, err := decodeObject(reply); err == nil {
		return out, nil
	}

	if span := braceSpan(reply); span != "" {
		if out, err := decodeObject(span); err == nil {
			return out, nil
		}
	}
	if span := balancedBraceSpan(reply); span != "" {
		if out, err := decodeObject(span); err == nil {
			return out, nil
		}
	}
	return nil, ErrParseFailed
}

func decodeObject(s string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// braceSpan returns the text from the first '{' to the last '}'.
func braceSpan(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// balancedBraceSpan scans for the first balanced object, which rescues
// replies with trailing prose containing stray braces.
func balancedBraceSpan(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
