// Package normalize coerces extractor-produced candidate tasks into the
// canonical task shape.
//
// Normalization is a pure, total function: it never fails, favouring
// availability over strict validation. Invalid fields are coerced to safe
// defaults instead of being rejected, so a sloppy model response still
// yields usable tasks.
package normalize

import (
	"strings"

	"github.com/taskmill/taskmill/internal/task"
)

// untitled is the title given to candidates that arrived without one.
const untitled = "Untitled task"

// Task converts a candidate into a canonical [task.Task]:
//
//   - String fields are trimmed.
//   - A missing title becomes "Untitled task".
//   - An invalid priority becomes medium, or low when the candidate is
//     marked optional.
//   - A due date is kept only when it matches the strict YYYY-MM-DD form.
//   - A missing confidence defaults to medium for inferred tasks and high
//     otherwise.
//
// Task is idempotent: feeding a normalized task's fields back through
// produces the same result.
func Task(c task.Candidate) task.Task {
	t := task.Task{
		Title:       strings.TrimSpace(c.Title),
		Description: strings.TrimSpace(c.Description),
		Assignee:    strings.TrimSpace(c.Assignee),
		Optional:    c.Optional,
		Inferred:    c.Inferred,
		SourceText:  strings.TrimSpace(c.SourceText),
	}

	if t.Title == "" {
		t.Title = untitled
	}

	t.Priority = task.Priority(strings.ToLower(strings.TrimSpace(c.Priority)))
	if !t.Priority.IsValid() {
		if c.Optional {
			t.Priority = task.PriorityLow
		} else {
			t.Priority = task.PriorityMedium
		}
	}

	if due := strings.TrimSpace(c.DueDate); task.DueDatePattern.MatchString(due) {
		t.DueDate = due
	}

	t.Confidence = task.Confidence(strings.ToLower(strings.TrimSpace(c.Confidence)))
	if !t.Confidence.IsValid() {
		if c.Inferred {
			t.Confidence = task.ConfidenceMedium
		} else {
			t.Confidence = task.ConfidenceHigh
		}
	}

	return t
}

// All normalizes every candidate in order.
func All(candidates []task.Candidate) []task.Task {
	tasks := make([]task.Task, len(candidates))
	for i, c := range candidates {
		tasks[i] = Task(c)
	}
	return tasks
}
