// Package assign resolves a task's free-text assignee hint against a team
// roster and computes an assignment disposition.
//
// Matching strategies run in a fixed precedence order; the first that yields
// a candidate member wins. The disposition taxonomy distinguishes "nobody
// was named" from "named person isn't on this team" from "they're on the
// team but haven't accepted yet", and must be preserved verbatim in
// persisted records so downstream reviewers can audit why a task is
// unassigned.
//
// The resolver never fails: every task receives exactly one disposition.
package assign

import (
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/google/uuid"

	"github.com/taskmill/taskmill/internal/roster"
	"github.com/taskmill/taskmill/internal/task"
)

// Reason explains why a task was left unassigned.
type Reason string

const (
	// ReasonNoAssignee means the task carried no assignee hint at all.
	ReasonNoAssignee Reason = "NO_ASSIGNEE_SPECIFIED"

	// ReasonNotTeamMember means a person was named but matches nobody on
	// the roster.
	ReasonNotTeamMember Reason = "NOT_A_TEAM_MEMBER"

	// ReasonMembershipNotActive means the matched member's membership is
	// neither accepted nor pending.
	ReasonMembershipNotActive Reason = "MEMBERSHIP_NOT_ACTIVE"
)

// Disposition is the outcome of matching one task against a roster. Exactly
// one of MemberID or Reason is set.
type Disposition struct {
	// MemberID is the resolved roster member identifier when assigned.
	MemberID string `json:"memberId,omitempty"`

	// DisplayName is the matched member's full name, falling back to
	// username. Empty when unassigned.
	DisplayName string `json:"displayName,omitempty"`

	// Reason is set when the task could not be assigned.
	Reason Reason `json:"reason,omitempty"`
}

// Assigned reports whether the disposition carries a resolved member.
func (d Disposition) Assigned() bool {
	return d.MemberID != "" && d.Reason == ""
}

// defaultFuzzyThreshold is the minimum Jaro-Winkler similarity for the
// optional fuzzy fallback strategy.
const defaultFuzzyThreshold = 0.85

// Option is a functional option for configuring a [Resolver].
type Option func(*Resolver)

// WithFuzzyMatching enables a Jaro-Winkler fallback strategy that runs only
// when substring matching finds nobody. threshold is the minimum similarity
// in (0, 1]; values at or below zero select the default of 0.85.
//
// Fuzzy matching is off by default: it improves recall on misspelled names
// at the cost of occasionally assigning the wrong-but-similar member, so it
// is an explicit opt-in.
func WithFuzzyMatching(threshold float64) Option {
	return func(r *Resolver) {
		r.fuzzy = true
		if threshold > 0 {
			r.fuzzyThreshold = threshold
		}
	}
}

// Resolver matches tasks to roster members. It is read-only after
// construction and safe for concurrent use.
type Resolver struct {
	fuzzy          bool
	fuzzyThreshold float64
}

// New returns a [Resolver] configured with the supplied options.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		fuzzyThreshold: defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve computes the disposition for t against members.
//
// Candidate precedence, first success wins:
//
//  1. An already-resolved member identifier on the task is accepted
//     directly.
//  2. An assignee hint that is syntactically a UUID is treated as a direct
//     identifier reference.
//  3. Case-insensitive substring matching of the hint against each member's
//     username, full name, and display name, in that order; containment in
//     either direction counts.
//  4. Jaro-Winkler similarity against the same fields, when enabled via
//     [WithFuzzyMatching].
//
// A candidate identifier that does not appear on the roster disposes as
// NOT_A_TEAM_MEMBER; an inactive membership disposes as
// MEMBERSHIP_NOT_ACTIVE.
func (r *Resolver) Resolve(t task.Task, members []roster.Member) Disposition {
	candidateID, hinted := r.candidateID(t, members)
	if !hinted {
		return Disposition{Reason: ReasonNoAssignee}
	}
	if candidateID == "" {
		return Disposition{Reason: ReasonNotTeamMember}
	}

	for _, m := range members {
		if m.ID != candidateID {
			continue
		}
		if !m.Status.Active() {
			return Disposition{Reason: ReasonMembershipNotActive}
		}
		name := m.FullName
		if name == "" {
			name = m.Username
		}
		return Disposition{MemberID: m.ID, DisplayName: name}
	}

	return Disposition{Reason: ReasonNotTeamMember}
}

// candidateID runs the matching strategies. hinted is false only when the
// task names nobody at all; an empty id with hinted=true means a person was
// named but nothing matched.
func (r *Resolver) candidateID(t task.Task, members []roster.Member) (id string, hinted bool) {
	if t.AssigneeID != "" {
		return t.AssigneeID, true
	}

	hint := strings.TrimSpace(t.Assignee)
	if hint == "" {
		return "", false
	}

	if _, err := uuid.Parse(hint); err == nil {
		return hint, true
	}

	if m, ok := substringMatch(hint, members); ok {
		return m.ID, true
	}

	if r.fuzzy {
		if m, ok := r.fuzzyMatch(hint, members); ok {
			return m.ID, true
		}
	}

	return "", true
}

// substringMatch returns the first member whose username, full name, or
// display name (checked in that order) contains the hint or is contained by
// it, case-insensitively.
func substringMatch(hint string, members []roster.Member) (roster.Member, bool) {
	needle := strings.ToLower(hint)
	for _, m := range members {
		for _, field := range []string{m.Username, m.FullName, m.DisplayName} {
			if field == "" {
				continue
			}
			hay := strings.ToLower(field)
			if strings.Contains(hay, needle) || strings.Contains(needle, hay) {
				return m, true
			}
		}
	}
	return roster.Member{}, false
}

// fuzzyMatch returns the member whose best field-level Jaro-Winkler score
// against the hint is highest, provided it clears the threshold.
func (r *Resolver) fuzzyMatch(hint string, members []roster.Member) (roster.Member, bool) {
	needle := strings.ToLower(hint)

	var best roster.Member
	bestScore := 0.0

	for _, m := range members {
		for _, field := range []string{m.Username, m.FullName, m.DisplayName} {
			if field == "" {
				continue
			}
			score := matchr.JaroWinkler(needle, strings.ToLower(field), true)
			if score > bestScore {
				bestScore = score
				best = m
			}
		}
	}

	if bestScore >= r.fuzzyThreshold {
		return best, true
	}
	return roster.Member{}, false
}
