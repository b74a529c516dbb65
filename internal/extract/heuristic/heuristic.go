// Package heuristic extracts candidate tasks from meeting transcripts using
// an ordered bank of phrase patterns.
//
// Two independent sources feed the extractor: the speech turns produced by
// the segmenter, and raw bullet lines matched against the whole transcript.
// Filler lines (greetings, acknowledgements, status-only remarks) are
// suppressed before matching. Every successful match runs the date resolver
// over the entire matched line, so a deadline phrase anywhere on the line is
// picked up regardless of which pattern fired.
//
// The extractor never fails: when nothing matches, it emits a single
// low-priority review task so the pipeline never returns an empty result for
// non-empty input.
package heuristic

import (
	"strings"
	"time"

	"github.com/taskmill/taskmill/internal/extract/dates"
	"github.com/taskmill/taskmill/internal/extract/segment"
	"github.com/taskmill/taskmill/internal/task"
)

// fallbackDescriptionLen caps how much transcript is carried on the fallback
// review task.
const fallbackDescriptionLen = 200

// minBulletLen is the shortest bullet text that becomes an unassigned task
// when no assignment pattern matches it.
const minBulletLen = 10

// Extract applies the pattern bank to transcript and returns the deduplicated
// candidate tasks. today anchors relative date phrases.
//
// Per line, matching is not cumulative: the first pattern that fires wins and
// the line produces at most one candidate. The turn-level self-commitment
// pattern is tried before the line-level bank because it is the only pattern
// that needs the speaker. Bullet lines are a separate source and may overlap
// with turn lines; the deduplicator folds the collisions.
func Extract(transcript string, today time.Time) []task.Candidate {
	var candidates []task.Candidate

	for _, turn := range segment.Segment(transcript) {
		if turn.Text == "" || isFiller(turn.Text) {
			continue
		}

		c, ok := matchTurn(turn)
		if !ok {
			continue
		}

		c.SourceText = turn.Text
		if due, found := dates.Resolve(turn.Text, today); found {
			c.DueDate = due
		}
		candidates = append(candidates, c)
	}

	candidates = append(candidates, extractBullets(transcript, today)...)
	candidates = Dedupe(candidates)

	if len(candidates) == 0 {
		candidates = append(candidates, fallbackTask(transcript))
	}

	return candidates
}

// matchTurn evaluates one turn against the pattern bank: the self-commitment
// pattern first (when the turn has a speaker), then the line-level rules.
func matchTurn(turn segment.Turn) (task.Candidate, bool) {
	if turn.Speaker != "" {
		if m := selfCommitRe.FindStringSubmatch(turn.Text); m != nil {
			return assigned(turn.Speaker, m[1]), true
		}
	}
	return matchLine(turn.Text)
}

// extractBullets scans the raw transcript for bullet lines, independent of
// turn segmentation. Bullets with their own "Name to/will/should ..." shape
// become assigned tasks; any other bullet longer than minBulletLen becomes an
// unassigned task verbatim.
func extractBullets(transcript string, today time.Time) []task.Candidate {
	var out []task.Candidate

	for _, m := range bulletRe.FindAllStringSubmatch(transcript, -1) {
		text := strings.TrimSpace(m[1])
		if text == "" || isFiller(text) {
			continue
		}

		var c task.Candidate
		if am := bulletAssignedRe.FindStringSubmatch(text); am != nil {
			c = assigned(am[1], am[2])
		} else if len(text) > minBulletLen {
			c = unassigned(text)
		} else {
			continue
		}

		c.SourceText = text
		if due, found := dates.Resolve(text, today); found {
			c.DueDate = due
		}
		out = append(out, c)
	}

	return out
}

// fallbackTask is emitted when the whole transcript produced no candidates.
func fallbackTask(transcript string) task.Candidate {
	desc := strings.TrimSpace(transcript)
	if len(desc) > fallbackDescriptionLen {
		desc = desc[:fallbackDescriptionLen]
	}
	return task.Candidate{
		Title:       "Review meeting notes",
		Description: desc,
		Priority:    string(task.PriorityLow),
		Inferred:    true,
	}
}
