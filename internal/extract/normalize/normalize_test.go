package normalize_test

import (
	"testing"

	"github.com/taskmill/taskmill/internal/extract/normalize"
	"github.com/taskmill/taskmill/internal/task"
)

func TestTask_TrimsAndDefaults(t *testing.T) {
	t.Parallel()
	got := normalize.Task(task.Candidate{
		Title:    "  update the docs  ",
		Assignee: " sarah ",
	})
	if got.Title != "update the docs" {
		t.Errorf("unexpected title: %q", got.Title)
	}
	if got.Assignee != "sarah" {
		t.Errorf("unexpected assignee: %q", got.Assignee)
	}
	if got.Priority != task.PriorityMedium {
		t.Errorf("expected medium priority, got %q", got.Priority)
	}
	if got.Confidence != task.ConfidenceHigh {
		t.Errorf("expected high confidence, got %q", got.Confidence)
	}
}

func TestTask_EmptyTitleBecomesUntitled(t *testing.T) {
	t.Parallel()
	got := normalize.Task(task.Candidate{Title: "   "})
	if got.Title != "Untitled task" {
		t.Errorf("expected %q, got %q", "Untitled task", got.Title)
	}
}

func TestTask_InvalidPriorityCoerced(t *testing.T) {
	t.Parallel()
	got := normalize.Task(task.Candidate{Title: "x", Priority: "URGENT!!"})
	if got.Priority != task.PriorityMedium {
		t.Errorf("expected medium, got %q", got.Priority)
	}

	got = normalize.Task(task.Candidate{Title: "x", Priority: "URGENT!!", Optional: true})
	if got.Priority != task.PriorityLow {
		t.Errorf("expected low for an optional task, got %q", got.Priority)
	}
}

func TestTask_PriorityCaseInsensitive(t *testing.T) {
	t.Parallel()
	got := normalize.Task(task.Candidate{Title: "x", Priority: " High "})
	if got.Priority != task.PriorityHigh {
		t.Errorf("expected high, got %q", got.Priority)
	}
}

func TestTask_DueDateMustBeStrictISO(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		in, want string
	}{
		{"2025-11-21", "2025-11-21"},
		{" 2025-11-21 ", "2025-11-21"},
		{"tomorrow", ""},
		{"11/21/2025", ""},
		{"2025-11-21T10:00:00Z", ""},
		{"", ""},
	} {
		got := normalize.Task(task.Candidate{Title: "x", DueDate: tc.in})
		if got.DueDate != tc.want {
			t.Errorf("due date %q: expected %q, got %q", tc.in, tc.want, got.DueDate)
		}
	}
}

func TestTask_InferredDefaultsConfidenceMedium(t *testing.T) {
	t.Parallel()
	got := normalize.Task(task.Candidate{Title: "x", Inferred: true})
	if got.Confidence != task.ConfidenceMedium {
		t.Errorf("expected medium confidence for inferred task, got %q", got.Confidence)
	}
	if !got.Inferred {
		t.Error("inferred flag should carry through")
	}
}

func TestTask_Idempotent(t *testing.T) {
	t.Parallel()
	first := normalize.Task(task.Candidate{
		Title:      "  Review PR backlog ",
		Assignee:   "sam",
		Priority:   "bogus",
		DueDate:    "next week",
		Confidence: "",
		Inferred:   true,
	})

	second := normalize.Task(task.Candidate{
		Title:       first.Title,
		Description: first.Description,
		Assignee:    first.Assignee,
		Priority:    string(first.Priority),
		DueDate:     first.DueDate,
		Confidence:  string(first.Confidence),
		SourceText:  first.SourceText,
		Inferred:    first.Inferred,
		Optional:    first.Optional,
	})

	if first != second {
		t.Errorf("normalization is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAll_PreservesOrder(t *testing.T) {
	t.Parallel()
	got := normalize.All([]task.Candidate{
		{Title: "first"},
		{Title: "second"},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].Title != "first" || got[1].Title != "second" {
		t.Errorf("order not preserved: %+v", got)
	}
}
