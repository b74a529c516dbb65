package taskstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskmill/taskmill/internal/assign"
	"github.com/taskmill/taskmill/internal/task"
)

// Compile-time assertion that PGStore satisfies the Store interface.
var _ Store = (*PGStore)(nil)

// tasksSchema creates the tasks table. unassigned_reason is a free-text note
// column: downstream review tooling reads it verbatim, so the reason
// taxonomy strings are stored as-is.
const tasksSchema = `
CREATE TABLE IF NOT EXISTS extracted_tasks (
	id                TEXT PRIMARY KEY,
	team_id           TEXT NOT NULL DEFAULT '',
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	assignee_hint     TEXT NOT NULL DEFAULT '',
	assignee_id       TEXT NOT NULL DEFAULT '',
	assignee_name     TEXT NOT NULL DEFAULT '',
	unassigned_reason TEXT NOT NULL DEFAULT '',
	priority          TEXT NOT NULL CHECK (priority IN ('low', 'medium', 'high')),
	due_date          TEXT NOT NULL DEFAULT '',
	optional          BOOLEAN NOT NULL DEFAULT FALSE,
	inferred          BOOLEAN NOT NULL DEFAULT FALSE,
	confidence        TEXT NOT NULL CHECK (confidence IN ('low', 'medium', 'high')),
	source_text       TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS extracted_tasks_team_idx ON extracted_tasks (team_id, created_at DESC);
`

// PGStore is a PostgreSQL-backed implementation of [Store] on a shared
// [pgxpool.Pool]. All operations are safe for concurrent use.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a [PGStore] on pool and ensures the tasks table exists.
// The pool is owned by the caller and is not closed by the store.
func NewPGStore(ctx context.Context, pool *pgxpool.Pool) (*PGStore, error) {
	if _, err := pool.Exec(ctx, tasksSchema); err != nil {
		return nil, fmt.Errorf("taskstore: migrate: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

// Save implements [Store.Save]. The batch is written in one transaction so a
// failure persists nothing.
func (s *PGStore) Save(ctx context.Context, records []Record) ([]Record, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("taskstore: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	stored := make([]Record, len(records))
	for i, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO extracted_tasks
				(id, team_id, title, description, assignee_hint, assignee_id, assignee_name,
				 unassigned_reason, priority, due_date, optional, inferred, confidence,
				 source_text, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			r.ID, r.TeamID, r.Task.Title, r.Task.Description, r.Task.Assignee,
			r.Disposition.MemberID, r.Disposition.DisplayName, string(r.Disposition.Reason),
			string(r.Task.Priority), r.Task.DueDate, r.Task.Optional, r.Task.Inferred,
			string(r.Task.Confidence), r.Task.SourceText, r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("taskstore: insert task %q: %w", r.Task.Title, err)
		}
		stored[i] = r
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("taskstore: commit: %w", err)
	}
	return stored, nil
}

// ListByTeam implements [Store.ListByTeam].
func (s *PGStore) ListByTeam(ctx context.Context, teamID string) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, team_id, title, description, assignee_hint, assignee_id, assignee_name,
		        unassigned_reason, priority, due_date, optional, inferred, confidence,
		        source_text, created_at
		 FROM extracted_tasks WHERE team_id = $1 ORDER BY created_at DESC`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("taskstore: list team %q: %w", teamID, err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("taskstore: list team %q: %w", teamID, err)
	}
	return records, nil
}

// scanRecord maps one row onto a [Record].
func scanRecord(row pgx.CollectableRow) (Record, error) {
	var (
		r        Record
		reason   string
		priority string
		conf     string
	)
	err := row.Scan(
		&r.ID, &r.TeamID, &r.Task.Title, &r.Task.Description, &r.Task.Assignee,
		&r.Disposition.MemberID, &r.Disposition.DisplayName, &reason,
		&priority, &r.Task.DueDate, &r.Task.Optional, &r.Task.Inferred,
		&conf, &r.Task.SourceText, &r.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	r.Disposition.Reason = assign.Reason(reason)
	r.Task.Priority = task.Priority(priority)
	r.Task.Confidence = task.Confidence(conf)
	return r, nil
}
