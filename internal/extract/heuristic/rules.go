package heuristic

import (
	"regexp"
	"strings"

	"github.com/taskmill/taskmill/internal/task"
)

// rule is one entry in the pattern bank: a compiled predicate and a builder
// that turns the submatches into a candidate task. Rules are evaluated in
// bank order per line; the first rule that matches wins and no further rules
// are tried for that line.
type rule struct {
	name  string
	re    *regexp.Regexp
	build func(m []string) task.Candidate
}

// name matches a capitalised person-name token. Kept deliberately narrow so
// sentence-initial ordinary words ("The", "We") are excluded by the
// surrounding pattern context rather than by the token itself.
const name = `([A-Z][\w'-]*)`

// assigned builds a candidate with an assignee hint and a cleaned title.
func assigned(assignee, title string) task.Candidate {
	return task.Candidate{
		Title:    cleanTitle(title),
		Assignee: strings.TrimSpace(assignee),
	}
}

// unassigned builds a candidate with no assignee hint.
func unassigned(title string) task.Candidate {
	return task.Candidate{Title: cleanTitle(title)}
}

// cleanTitle trims whitespace and a single trailing terminator from a
// captured title fragment.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".?!")
	return strings.TrimSpace(s)
}

// lineRules is the ordered pattern bank applied to every line of transcript
// text. Earlier rules are more specific and take priority. The self-commitment
// rule is not in this bank — it needs the current turn's speaker and is
// applied separately in Extract.
var lineRules = []rule{
	{
		name: "direct-question",
		re:   regexp.MustCompile(`(?i)^` + name + `,\s*(?:after\s+[^,]+,\s*)?can you\s+(.+?)\s*\??$`),
		build: func(m []string) task.Candidate {
			return assigned(m[1], m[2])
		},
	},
	{
		name: "open-need-question",
		re:   regexp.MustCompile(`(?i)\bwho'?s\s+(?:doing|updating|handling)\s+(.+?)\s*\??$`),
		build: func(m []string) task.Candidate {
			return unassigned(m[1])
		},
	},
	{
		name: "open-need-statement",
		re:   regexp.MustCompile(`(?i)\bwe need\s+(?:to\s+)?(.+?)\s*\.?$`),
		build: func(m []string) task.Candidate {
			return unassigned(m[1])
		},
	},
	{
		name: "deadline-assignment",
		re:   regexp.MustCompile(`^` + name + `\s+to\s+(.+?)\s+by\s+(\S+?)\.?$`),
		build: func(m []string) task.Candidate {
			return assigned(m[1], m[2])
		},
	},
	{
		name: "future-commitment",
		re:   regexp.MustCompile(`^` + name + `\s+will\s+(.+?)\s*\.?$`),
		build: func(m []string) task.Candidate {
			return assigned(m[1], m[2])
		},
	},
	{
		name: "obligation",
		re:   regexp.MustCompile(`^` + name + `\s+needs?\s+to\s+(.+?)\s*\.?$`),
		build: func(m []string) task.Candidate {
			return assigned(m[1], m[2])
		},
	},
	{
		name: "reported-commitment",
		re:   regexp.MustCompile(`\b` + name + `\s+(?:mentioned|said)\s+(?:he|she|they)\s*(?:will|'ll|needs?\s+to)\s+(.+?)\s*\.?$`),
		build: func(m []string) task.Candidate {
			return assigned(m[1], m[2])
		},
	},
	{
		name: "delegated-instruction",
		re:   regexp.MustCompile(`(?i)\b(?:told|asked)\s+` + name + `\s+to\s+(.+?)\s*\.?$`),
		build: func(m []string) task.Candidate {
			return assigned(m[1], m[2])
		},
	},
	{
		name: "explicit-label",
		re:   regexp.MustCompile(`(?i)^` + name + `,\s*this is your task\s*[-:]\s*(.+)$`),
		build: func(m []string) task.Candidate {
			return assigned(m[1], m[2])
		},
	},
	{
		name: "unassigned-mandate",
		re:   regexp.MustCompile(`(?i)\bsomeone should\s+(.+?)\s*\.?$`),
		build: func(m []string) task.Candidate {
			return unassigned(m[1])
		},
	},
}

// selfCommitRe matches a speaker committing to work in the first person.
// Applied to turn text only; the assignee comes from the turn's speaker.
var selfCommitRe = regexp.MustCompile(`(?i)^i\s*(?:can|will|'ll)\s+(.+?)\s*\.?$`)

// bulletRe extracts bullet lines from the raw transcript, independent of
// turn segmentation.
var bulletRe = regexp.MustCompile(`(?m)^\s*[-*\x{2022}]\s+(.+)$`)

// bulletAssignedRe matches bullets of the form "Name to/will/needs to/should
// <rest>", which carry their own assignee.
var bulletAssignedRe = regexp.MustCompile(`^` + name + `\s+(?:to|will|needs?\s+to|should)\s+(.+)$`)

// matchLine runs the line-level pattern bank against text and returns the
// candidate from the first matching rule.
func matchLine(text string) (task.Candidate, bool) {
	for _, r := range lineRules {
		if m := r.re.FindStringSubmatch(text); m != nil {
			c := r.build(m)
			if c.Title != "" {
				return c, true
			}
		}
	}
	return task.Candidate{}, false
}
