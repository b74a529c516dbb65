package dates_test

import (
	"testing"
	"time"

	"github.com/taskmill/taskmill/internal/extract/dates"
)

// anchor is the fixed "today" used throughout: Thursday, 2025-11-20.
var anchor = time.Date(2025, time.November, 20, 10, 30, 0, 0, time.UTC)

func TestResolve_MonthDay(t *testing.T) {
	t.Parallel()
	got, ok := dates.Resolve("the migration has to land by March 6", anchor)
	if !ok {
		t.Fatal("expected a resolved date, got none")
	}
	if got != "2025-03-06" {
		t.Errorf("expected 2025-03-06, got %q", got)
	}
}

func TestResolve_MonthDayUsesAnchorYear(t *testing.T) {
	t.Parallel()
	// The anchor year is used even when the resulting date is in the past.
	jan := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	got, ok := dates.Resolve("slides are due January 1", jan)
	if !ok {
		t.Fatal("expected a resolved date, got none")
	}
	if got != "2026-01-01" {
		t.Errorf("expected 2026-01-01, got %q", got)
	}
}

func TestResolve_AbbreviatedMonth(t *testing.T) {
	t.Parallel()
	got, ok := dates.Resolve("ship it by Dec 15 at the latest", anchor)
	if !ok {
		t.Fatal("expected a resolved date, got none")
	}
	if got != "2025-12-15" {
		t.Errorf("expected 2025-12-15, got %q", got)
	}
}

func TestResolve_Tomorrow(t *testing.T) {
	t.Parallel()
	got, ok := dates.Resolve("I'll send the draft tomorrow", anchor)
	if !ok {
		t.Fatal("expected a resolved date, got none")
	}
	if got != "2025-11-21" {
		t.Errorf("expected 2025-11-21, got %q", got)
	}
}

func TestResolve_TomorrowCrossesMonthBoundary(t *testing.T) {
	t.Parallel()
	eom := time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC)
	got, ok := dates.Resolve("demo is tomorrow", eom)
	if !ok {
		t.Fatal("expected a resolved date, got none")
	}
	if got != "2025-12-01" {
		t.Errorf("expected 2025-12-01, got %q", got)
	}
}

func TestResolve_SameDayPhrases(t *testing.T) {
	t.Parallel()
	for _, text := range []string{
		"need this done today",
		"please reply by EOD",
		"wrap it up by end of day",
	} {
		got, ok := dates.Resolve(text, anchor)
		if !ok {
			t.Errorf("%q: expected a resolved date, got none", text)
			continue
		}
		if got != "2025-11-20" {
			t.Errorf("%q: expected 2025-11-20, got %q", text, got)
		}
	}
}

func TestResolve_MonthDayBeatsTomorrow(t *testing.T) {
	t.Parallel()
	// Explicit calendar dates take precedence over relative phrases on the
	// same line.
	got, ok := dates.Resolve("tomorrow we plan the June 3 release", anchor)
	if !ok {
		t.Fatal("expected a resolved date, got none")
	}
	if got != "2025-06-03" {
		t.Errorf("expected 2025-06-03, got %q", got)
	}
}

func TestResolve_NoMatchInsideWords(t *testing.T) {
	t.Parallel()
	// "mar" inside "market" and "may" inside "maybe" must not resolve.
	for _, text := range []string{
		"the market 5 report is ready",
		"maybe 3 people can join",
		"no deadline was discussed",
		"",
	} {
		if got, ok := dates.Resolve(text, anchor); ok {
			t.Errorf("%q: expected no date, got %q", text, got)
		}
	}
}

func TestResolve_RejectsImpossibleDay(t *testing.T) {
	t.Parallel()
	if got, ok := dates.Resolve("see you on March 45", anchor); ok {
		t.Errorf("expected no date for day 45, got %q", got)
	}
}
