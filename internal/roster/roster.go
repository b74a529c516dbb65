// Package roster manages the team rosters that tasks are assigned against.
//
// A roster is the list of people eligible to be assigned tasks for one team,
// each with a membership status. The extraction core only ever reads
// rosters; writes happen through team administration, which is why the
// [Store] keeps the CRUD surface small.
package roster

import (
	"context"
	"errors"
)

// MembershipStatus is the state of a member's team membership.
type MembershipStatus string

const (
	// StatusAccepted means the member accepted the team invite.
	StatusAccepted MembershipStatus = "accepted"

	// StatusPending means the invite is outstanding. Pending members may
	// still be assigned tasks.
	StatusPending MembershipStatus = "pending"

	// StatusRejected means the member declined the invite.
	StatusRejected MembershipStatus = "rejected"
)

// IsValid reports whether s is a recognised membership status.
func (s MembershipStatus) IsValid() bool {
	switch s {
	case StatusAccepted, StatusPending, StatusRejected:
		return true
	}
	return false
}

// Active reports whether a member with this status may receive assignments.
func (s MembershipStatus) Active() bool {
	return s == StatusAccepted || s == StatusPending
}

// Member is one person on a team roster. ID is the only required field;
// Username, FullName, and DisplayName are each optional and the assignee
// resolver matches against whichever are present.
type Member struct {
	ID          string           `json:"id"`
	Username    string           `json:"username,omitempty"`
	FullName    string           `json:"fullName,omitempty"`
	DisplayName string           `json:"displayName,omitempty"`
	Status      MembershipStatus `json:"status"`
}

// DisplayLabel returns the best human-readable name for the member: full
// name, then display name, then username, then the raw id.
func (m Member) DisplayLabel() string {
	switch {
	case m.FullName != "":
		return m.FullName
	case m.DisplayName != "":
		return m.DisplayName
	case m.Username != "":
		return m.Username
	}
	return m.ID
}

// ErrNotFound is returned when a requested member does not exist.
var ErrNotFound = errors.New("roster member not found")

// Store provides access to team rosters.
// All implementations must be safe for concurrent use.
type Store interface {
	// List returns every member of the given team. The result order is not
	// guaranteed. An unknown team yields an empty roster, not an error.
	List(ctx context.Context, teamID string) ([]Member, error)

	// Upsert inserts or replaces a member on the given team.
	Upsert(ctx context.Context, teamID string, member Member) error

	// Remove deletes a member from the given team.
	// Returns [ErrNotFound] when the member is not on the roster.
	Remove(ctx context.Context, teamID, memberID string) error
}
