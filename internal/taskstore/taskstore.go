// Package taskstore persists extracted tasks together with their assignment
// dispositions.
//
// The extraction core hands off task/disposition pairs after assignee
// resolution; the unassigned reason is stored as a free-text note alongside
// the task row so reviewers can audit why a task has no owner.
package taskstore

import (
	"context"
	"time"

	"github.com/taskmill/taskmill/internal/assign"
	"github.com/taskmill/taskmill/internal/task"
)

// Record is one persisted task with its disposition.
type Record struct {
	// ID is a generated unique identifier, assigned on save when empty.
	ID string `json:"id"`

	// TeamID is the team the task was extracted for. May be empty when
	// extraction ran without a roster.
	TeamID string `json:"teamId,omitempty"`

	Task        task.Task          `json:"task"`
	Disposition assign.Disposition `json:"disposition"`

	// CreatedAt is set on save.
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists extraction results.
// All implementations must be safe for concurrent use.
type Store interface {
	// Save persists records, generating IDs and timestamps for records that
	// lack them, and returns the stored records. Save is all-or-nothing:
	// on error nothing from this batch is persisted.
	Save(ctx context.Context, records []Record) ([]Record, error)

	// ListByTeam returns every stored record for the given team, newest
	// first.
	ListByTeam(ctx context.Context, teamID string) ([]Record, error)
}
