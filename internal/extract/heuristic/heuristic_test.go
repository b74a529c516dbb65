package heuristic_test

import (
	"strings"
	"testing"
	"time"

	"github.com/taskmill/taskmill/internal/extract/heuristic"
	"github.com/taskmill/taskmill/internal/task"
)

// anchor is the fixed "today" for date resolution: 2025-11-20.
var anchor = time.Date(2025, time.November, 20, 9, 0, 0, 0, time.UTC)

func TestExtract_SelfCommitmentUsesSpeaker(t *testing.T) {
	t.Parallel()
	transcript := "00:00:23 — Mark\nI will implement rate limiting.\n"
	got := heuristic.Extract(transcript, anchor)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	if got[0].Title != "implement rate limiting" {
		t.Errorf("unexpected title: %q", got[0].Title)
	}
	if got[0].Assignee != "Mark" {
		t.Errorf("expected assignee Mark, got %q", got[0].Assignee)
	}
}

func TestExtract_DirectQuestion(t *testing.T) {
	t.Parallel()
	transcript := "Jenna: Sarah, can you update the onboarding docs?\n"
	got := heuristic.Extract(transcript, anchor)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	if got[0].Title != "update the onboarding docs" {
		t.Errorf("unexpected title: %q", got[0].Title)
	}
	if got[0].Assignee != "Sarah" {
		t.Errorf("expected assignee Sarah, got %q", got[0].Assignee)
	}
}

func TestExtract_DeadlineAssignmentResolvesDueDate(t *testing.T) {
	t.Parallel()
	transcript := "Priya to update the runbook by tomorrow.\n"
	got := heuristic.Extract(transcript, anchor)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	if got[0].Assignee != "Priya" {
		t.Errorf("expected assignee Priya, got %q", got[0].Assignee)
	}
	if got[0].Title != "update the runbook" {
		t.Errorf("unexpected title: %q", got[0].Title)
	}
	if got[0].DueDate != "2025-11-21" {
		t.Errorf("expected due date 2025-11-21, got %q", got[0].DueDate)
	}
}

func TestExtract_OpenNeedHasNoAssignee(t *testing.T) {
	t.Parallel()
	transcript := "Jenna: We need to fix the flaky login test.\n"
	got := heuristic.Extract(transcript, anchor)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	if got[0].Assignee != "" {
		t.Errorf("expected no assignee, got %q", got[0].Assignee)
	}
	if got[0].Title != "fix the flaky login test" {
		t.Errorf("unexpected title: %q", got[0].Title)
	}
}

func TestExtract_DelegatedInstruction(t *testing.T) {
	t.Parallel()
	transcript := "Jenna: I told Dave to rotate the staging credentials.\n"
	got := heuristic.Extract(transcript, anchor)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	if got[0].Assignee != "Dave" {
		t.Errorf("expected assignee Dave, got %q", got[0].Assignee)
	}
	if got[0].Title != "rotate the staging credentials" {
		t.Errorf("unexpected title: %q", got[0].Title)
	}
}

func TestExtract_FillerLinesAreSuppressed(t *testing.T) {
	t.Parallel()
	transcript := "Mark: No blockers.\nJenna: Sounds good.\nMark: I'll document the release steps.\n"
	got := heuristic.Extract(transcript, anchor)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	if got[0].Title != "document the release steps" {
		t.Errorf("unexpected title: %q", got[0].Title)
	}
}

func TestExtract_Bullets(t *testing.T) {
	t.Parallel()
	transcript := "Action items:\n- Sam to review the PR backlog\n- Deploy the staging environment\n- ok\n"
	got := heuristic.Extract(transcript, anchor)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	if got[0].Assignee != "Sam" || got[0].Title != "review the PR backlog" {
		t.Errorf("unexpected assigned bullet: %+v", got[0])
	}
	if got[1].Assignee != "" || got[1].Title != "Deploy the staging environment" {
		t.Errorf("unexpected unassigned bullet: %+v", got[1])
	}
}

func TestExtract_FallbackForUnmatchedTranscript(t *testing.T) {
	t.Parallel()
	transcript := "lorem ipsum dolor sit amet"
	got := heuristic.Extract(transcript, anchor)
	if len(got) != 1 {
		t.Fatalf("expected exactly the fallback candidate, got %d: %+v", len(got), got)
	}
	if got[0].Title != "Review meeting notes" {
		t.Errorf("unexpected fallback title: %q", got[0].Title)
	}
	if !got[0].Inferred {
		t.Error("fallback candidate should be marked inferred")
	}
	if got[0].Priority != string(task.PriorityLow) {
		t.Errorf("expected low priority, got %q", got[0].Priority)
	}
	if got[0].Description != transcript {
		t.Errorf("expected the transcript as description, got %q", got[0].Description)
	}
}

func TestExtract_FallbackDescriptionIsCapped(t *testing.T) {
	t.Parallel()
	transcript := strings.Repeat("blah ", 100)
	got := heuristic.Extract(transcript, anchor)
	if len(got) != 1 {
		t.Fatalf("expected exactly the fallback candidate, got %d", len(got))
	}
	if len(got[0].Description) != 200 {
		t.Errorf("expected description capped at 200 chars, got %d", len(got[0].Description))
	}
}

func TestDedupe_PrefixCollision(t *testing.T) {
	t.Parallel()
	in := []task.Candidate{
		{Title: "update the onboarding docs before Friday", Assignee: "Sarah"},
		{Title: "Update the onboarding docs", Assignee: "Mike"},
		{Title: "deploy the staging environment"},
	}
	got := heuristic.Dedupe(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	// First-seen wins, so Sarah's version survives.
	if got[0].Assignee != "Sarah" {
		t.Errorf("expected the first-seen candidate kept, got assignee %q", got[0].Assignee)
	}
	if got[1].Title != "deploy the staging environment" {
		t.Errorf("unexpected survivor: %q", got[1].Title)
	}
}

func TestDedupe_ShortTitlesCompareWhole(t *testing.T) {
	t.Parallel()
	in := []task.Candidate{
		{Title: "please fix login now"},
		{Title: "fix login"},
	}
	got := heuristic.Dedupe(in)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	if got[0].Title != "please fix login now" {
		t.Errorf("expected first-seen candidate kept, got %q", got[0].Title)
	}
}

func TestDedupe_DistinctTitlesSurvive(t *testing.T) {
	t.Parallel()
	in := []task.Candidate{
		{Title: "write the release notes"},
		{Title: "review the release notes"},
	}
	if got := heuristic.Dedupe(in); len(got) != 2 {
		t.Errorf("expected 2 candidates, got %d: %+v", len(got), got)
	}
}
