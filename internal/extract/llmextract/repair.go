package llmextract

import (
	"regexp"
	"strings"
)

// The repair pipeline is a sequence of independent, order-sensitive textual
// transforms applied to a model response that failed to parse. Each transform
// is idempotent and individually testable; recovery stops at the first
// successful parse.

// preambles are conversational lead-ins some models emit before the JSON
// payload. Used when no balanced object is found from the first brace.
var preambles = []string{"here's", "here is", "response:", "output:", "result:"}

// StripFences removes a leading/trailing fenced code block (```json or ```)
// around s, if present.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"```json", "```"} {
		if after, ok := strings.CutPrefix(s, prefix); ok {
			s = after
			break
		}
	}
	if before, ok := strings.CutSuffix(s, "```"); ok {
		s = before
	}
	return strings.TrimSpace(s)
}

// ExtractObject returns the first balanced {...} substring of s. Brace
// counting ignores braces inside JSON string literals. When the scan from
// the first brace never closes, a second scan is tried from the first brace
// after a known conversational preamble, in case the leading brace was part
// of prose. If that fails too, the tail from the first brace is returned so
// the truncation repair can re-close it. The boolean reports whether an
// opening brace was found at all.
func ExtractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	if obj, ok := scanBalanced(s, start); ok {
		return obj, true
	}

	lower := strings.ToLower(s)
	for _, p := range preambles {
		i := strings.Index(lower, p)
		if i < 0 {
			continue
		}
		j := strings.IndexByte(s[i:], '{')
		if j < 0 {
			continue
		}
		if obj, ok := scanBalanced(s, i+j); ok {
			return obj, true
		}
	}

	return s[start:], true
}

// scanBalanced walks s from the opening brace at start and returns the
// substring up to the matching close. ok is false when the object never
// closes.
func scanBalanced(s string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
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
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	adjacentObjRe   = regexp.MustCompile(`}\s*{`)
)

// StripTrailingCommas removes commas that directly precede a closing brace
// or bracket, the most common malformation in model-generated JSON.
func StripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// InsertObjectCommas inserts the missing comma between adjacent object
// boundaries ("}{" becomes "},{").
func InsertObjectCommas(s string) string {
	return adjacentObjRe.ReplaceAllString(s, "},{")
}

// TruncateToComplete cuts s back to the last complete "}]" array close and
// re-closes any braces and brackets left open before it. Used when the model
// ran out of output tokens mid-object. When no "}]" exists, s is returned
// unchanged.
func TruncateToComplete(s string) string {
	idx := strings.LastIndex(s, "}]")
	if idx < 0 {
		return s
	}
	s = s[:idx+2]

	// Re-close whatever structures remain open around the tasks array.
	opens := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '[':
			opens++
		case '}', ']':
			opens--
		}
	}
	// Close with braces: the payload is a single top-level object wrapping
	// the array, so unclosed structures at this point are objects.
	for ; opens > 0; opens-- {
		s += "}"
	}
	return s
}

// Repair applies every textual transform in sequence and returns the result.
// Callers parse once before and once after; per the recovery contract the
// re-parse happens exactly once.
func Repair(s string) string {
	s = StripTrailingCommas(s)
	s = InsertObjectCommas(s)
	s = TruncateToComplete(s)
	// Adjacent-object insertion can expose a new trailing comma pattern;
	// the strip is idempotent, so run it once more after truncation.
	s = StripTrailingCommas(s)
	return s
}
