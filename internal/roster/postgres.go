package roster

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time assertion that PGStore satisfies the Store interface.
var _ Store = (*PGStore)(nil)

// rosterSchema creates the roster table. Membership status is constrained at
// the database level so an unrecognised value is rejected on write rather
// than silently passed through.
const rosterSchema = `
CREATE TABLE IF NOT EXISTS team_members (
	team_id      TEXT NOT NULL,
	member_id    TEXT NOT NULL,
	username     TEXT NOT NULL DEFAULT '',
	full_name    TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL CHECK (status IN ('accepted', 'pending', 'rejected')),
	PRIMARY KEY (team_id, member_id)
);
`

// PGStore is a PostgreSQL-backed implementation of [Store] on a shared
// [pgxpool.Pool]. All operations are safe for concurrent use.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a [PGStore] on pool and ensures the roster table
// exists. The pool is owned by the caller and is not closed by the store.
func NewPGStore(ctx context.Context, pool *pgxpool.Pool) (*PGStore, error) {
	if _, err := pool.Exec(ctx, rosterSchema); err != nil {
		return nil, fmt.Errorf("roster: migrate: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

// List implements [Store.List].
func (s *PGStore) List(ctx context.Context, teamID string) ([]Member, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT member_id, username, full_name, display_name, status
		 FROM team_members WHERE team_id = $1`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("roster: list team %q: %w", teamID, err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Username, &m.FullName, &m.DisplayName, &m.Status); err != nil {
			return nil, fmt.Errorf("roster: scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roster: list team %q: %w", teamID, err)
	}
	return members, nil
}

// Upsert implements [Store.Upsert].
func (s *PGStore) Upsert(ctx context.Context, teamID string, member Member) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO team_members (team_id, member_id, username, full_name, display_name, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (team_id, member_id) DO UPDATE SET
			username = EXCLUDED.username,
			full_name = EXCLUDED.full_name,
			display_name = EXCLUDED.display_name,
			status = EXCLUDED.status`,
		teamID, member.ID, member.Username, member.FullName, member.DisplayName, member.Status,
	)
	if err != nil {
		return fmt.Errorf("roster: upsert member %q: %w", member.ID, err)
	}
	return nil
}

// Remove implements [Store.Remove].
func (s *PGStore) Remove(ctx context.Context, teamID, memberID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND member_id = $2`,
		teamID, memberID,
	)
	if err != nil {
		return fmt.Errorf("roster: remove member %q: %w", memberID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
