// Package segment splits raw meeting transcripts into ordered speech turns.
//
// Transcripts arrive in a mixture of formats: timestamp-prefixed speaker
// headers ("00:00:23 — Mark" or "[00:14] Jenna (PM): ..."), inline
// "Name: text" lines, and plain narration. The segmenter walks the non-empty
// lines in document order and emits one [Turn] per line.
package segment

import (
	"regexp"
	"strings"
)

// Turn is one attributed or unattributed unit of transcript text, derived
// from a single non-empty line. Speaker is empty for narration lines that
// could not be attributed to anyone.
type Turn struct {
	Speaker string
	Text    string

	// Order is the zero-based index of the line among non-empty lines.
	Order int
}

// headerRe matches a timestamp-prefixed speaker header: an optional bracket
// around HH:MM[:SS], a dash or whitespace separator, a capitalised name
// (one or more tokens), an optional parenthetical role, and either a colon
// followed by the spoken text or nothing (speaker-only header).
var headerRe = regexp.MustCompile(`^\[?\d{1,2}:\d{2}(?::\d{2})?\]?[\s\x{2014}\x{2013}-]+([A-Z][\w'.-]*(?:\s+[A-Z][\w'.-]*)*)\s*(?:\([^)]*\))?\s*(?::\s*(.*))?$`)

// inlineRe matches an un-timestamped "Name: text" or "Name (role): text"
// speaker line. Unlike headerRe the colon is mandatory, so plain capitalised
// narration ("Action items") is not mistaken for a speaker.
var inlineRe = regexp.MustCompile(`^([A-Z][\w'.-]*(?:\s+[A-Z][\w'.-]*)*)\s*(?:\([^)]*\))?:\s+(.*)$`)

// Segment splits transcript into ordered turns, one per non-empty line.
//
// A speaker-only header ("00:00:23 — Mark") yields an empty-text turn and
// attributes the immediately following line to that speaker. Any later lines
// before the next header are emitted as unattributed narration; the segmenter
// never merges multi-line statements into a single turn.
func Segment(transcript string) []Turn {
	var turns []Turn

	// pending holds the speaker announced by the last speaker-only header,
	// consumed by the next non-empty line.
	pending := ""
	order := 0

	for line := range strings.Lines(transcript) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		t := Turn{Order: order}
		switch speaker, text, kind := classify(line); kind {
		case lineHeaderOnly:
			t.Speaker = speaker
			pending = speaker
		case lineSpoken:
			t.Speaker = speaker
			t.Text = text
			pending = ""
		default:
			t.Speaker = pending
			t.Text = line
			pending = ""
		}

		turns = append(turns, t)
		order++
	}

	return turns
}

type lineKind int

const (
	linePlain lineKind = iota
	lineHeaderOnly
	lineSpoken
)

// classify decides whether line is a speaker header, an inline speaker line,
// or plain text, and extracts the speaker name and spoken text when present.
func classify(line string) (speaker, text string, kind lineKind) {
	if m := headerRe.FindStringSubmatch(line); m != nil {
		if strings.TrimSpace(m[2]) == "" {
			return m[1], "", lineHeaderOnly
		}
		return m[1], strings.TrimSpace(m[2]), lineSpoken
	}
	if m := inlineRe.FindStringSubmatch(line); m != nil {
		return m[1], strings.TrimSpace(m[2]), lineSpoken
	}
	return "", "", linePlain
}
