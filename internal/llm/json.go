package llm

import "strings"

// ExtractJSONObject returns the first balanced top-level JSON object in
// text, tolerating prose or markdown fences around it. String literals
// and escapes are honored so braces inside values do not confuse the
// scan. Models wrap JSON replies often enough that callers should not
// unmarshal completions directly.
func ExtractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
