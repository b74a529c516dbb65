package heuristic

import (
	"strings"

	"github.com/taskmill/taskmill/internal/task"
)

// dedupePrefixLen is the number of leading title characters compared when
// folding near-duplicate candidates.
const dedupePrefixLen = 20

// Dedupe folds candidates whose titles substantially overlap, preserving the
// first-seen candidate (and with it the first-seen assignee and due date).
//
// A candidate is dropped when the first 20 lower-cased characters of its
// title appear as a substring of any already-accepted title. This is a cheap
// prefix-containment heuristic, not a semantic check: near-duplicates with
// different leading words survive, and titles that merely share a long
// prefix collide. Downstream consumers depend on these exact collision
// semantics, so do not "improve" it without a product decision.
func Dedupe(candidates []task.Candidate) []task.Candidate {
	accepted := make([]task.Candidate, 0, len(candidates))

	for _, c := range candidates {
		prefix := strings.ToLower(c.Title)
		if len(prefix) > dedupePrefixLen {
			prefix = prefix[:dedupePrefixLen]
		}

		dup := false
		for _, a := range accepted {
			if prefix != "" && strings.Contains(strings.ToLower(a.Title), prefix) {
				dup = true
				break
			}
		}
		if !dup {
			accepted = append(accepted, c)
		}
	}

	return accepted
}
