// Package task defines the task records exchanged between the extraction
// pipeline stages.
//
// A [Candidate] is the unvalidated record produced by an extractor (heuristic
// or model-backed). The normalizer coerces every Candidate into a [Task], the
// canonical shape consumed by assignee resolution and persistence. Candidates
// are mutable scratch records; a Task is expected to satisfy the invariants
// documented on its fields.
package task

import "regexp"

// Priority classifies how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is a recognised priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Confidence expresses how certain the extractor is that the task is real.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// IsValid reports whether c is a recognised confidence level.
func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// DueDatePattern is the strict calendar-date format accepted on a [Task].
// Anything that does not match is dropped during normalization.
var DueDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Candidate is an extractor-produced task record before normalization.
//
// Title is the only required field. Priority and Confidence are raw strings
// because model output cannot be trusted to stay inside the enum; the
// normalizer coerces them. DueDate may hold anything — only values matching
// [DueDatePattern] survive normalization.
type Candidate struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Assignee is the free-text assignee hint (a name fragment, a username,
	// or whatever the source text offered). Empty means nobody was named.
	Assignee string `json:"assignee,omitempty"`

	// Priority is the raw priority hint. Invalid values are coerced to
	// "medium" (or "low" when Optional is set) during normalization.
	Priority string `json:"priority,omitempty"`

	// DueDate is the raw due-date hint, ideally YYYY-MM-DD.
	DueDate string `json:"dueDate,omitempty"`

	// Confidence is the raw confidence hint supplied by the source.
	Confidence string `json:"confidence,omitempty"`

	// SourceText is the transcript fragment the task was derived from.
	SourceText string `json:"sourceText,omitempty"`

	// Inferred marks tasks implied by context rather than stated outright.
	Inferred bool `json:"inferred,omitempty"`

	// Optional marks nice-to-have tasks.
	Optional bool `json:"optional,omitempty"`
}

// Task is the canonical, validated task record.
//
// Invariants (established by the normalizer, relied on downstream):
//   - Title is trimmed and non-empty.
//   - Priority and Confidence are valid enum values.
//   - DueDate is either empty or matches [DueDatePattern].
type Task struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Assignee is the free-text assignee hint carried through from the
	// candidate. It is resolved against a roster by the assign package.
	Assignee string `json:"assignee,omitempty"`

	// AssigneeID is an already-resolved roster member identifier, set when
	// an upstream review step matched the task to a member. The assignee
	// resolver accepts it verbatim.
	AssigneeID string `json:"assigneeId,omitempty"`

	Priority   Priority   `json:"priority"`
	DueDate    string     `json:"dueDate,omitempty"`
	Optional   bool       `json:"optional,omitempty"`
	Inferred   bool       `json:"inferred,omitempty"`
	Confidence Confidence `json:"confidence"`
	SourceText string     `json:"sourceText,omitempty"`
}
