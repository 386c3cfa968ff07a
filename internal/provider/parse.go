package provider

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)

	errNoJSONObject = errors.New("no JSON object found in response")
)

// RemoveTrailingCommas drops commas that directly precede a closing bracket or brace.
func RemoveTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// ExtractJSONObject returns the first top-level {...} object in s. Braces
// inside JSON strings are ignored. If the first object never closes, the
// span from the first '{' to the last '}' is returned instead.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
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
				return s[start : i+1], true
			}
		}
	}

	end := strings.LastIndexByte(s, '}')
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// ParseResponse decodes the first JSON object embedded in a model reply.
func ParseResponse(raw string) (map[string]any, error) {
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		return nil, &ParseError{Raw: raw, Err: errNoJSONObject}
	}
	return decodeObject(raw, obj)
}

// parseWholeFirst tries the complete reply as JSON before falling back to
// extraction. Models that honor a JSON-only instruction hit the fast path.
func parseWholeFirst(raw string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(RemoveTrailingCommas(strings.TrimSpace(raw))), &out); err == nil && out != nil {
		return out, nil
	}
	return ParseResponse(raw)
}

func decodeObject(raw, obj string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(RemoveTrailingCommas(obj)), &out); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return out, nil
}
