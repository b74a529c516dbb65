package heuristic

import "strings"

// fillerLines are conversational lines that never become tasks: greetings,
// acknowledgements, and status-only remarks. A line is suppressed when its
// trimmed, lower-cased form (without trailing punctuation) is an exact entry.
var fillerLines = map[string]struct{}{
	"hi":                {},
	"hello":             {},
	"hey":               {},
	"good morning":      {},
	"good afternoon":    {},
	"morning":           {},
	"ok":                {},
	"okay":              {},
	"yep":               {},
	"yes":               {},
	"sure":              {},
	"right":             {},
	"got it":            {},
	"sounds good":       {},
	"makes sense":       {},
	"thanks":            {},
	"thank you":         {},
	"no blockers":       {},
	"on track":          {},
	"nothing from me":   {},
	"nothing new":       {},
	"same as yesterday": {},
	"that's all":        {},
	"that's it":         {},
	"bye":               {},
	"see you":           {},
}

// isFiller reports whether line is a pure filler line that should be
// discarded before pattern matching.
func isFiller(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	s = strings.TrimRight(s, ".!,")
	s = strings.TrimSpace(s)
	_, ok := fillerLines[s]
	return ok
}
