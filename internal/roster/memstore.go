package roster

import (
	"context"
	"sync"
)

// Compile-time assertion that MemStore satisfies the Store interface.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store].
// It is suitable for single-process deployments and testing.
type MemStore struct {
	mu    sync.RWMutex
	teams map[string]map[string]Member
}

// NewMemStore returns an initialised [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{
		teams: make(map[string]map[string]Member),
	}
}

// List implements [Store.List].
func (s *MemStore) List(ctx context.Context, teamID string) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team := s.teams[teamID]
	members := make([]Member, 0, len(team))
	for _, m := range team {
		members = append(members, m)
	}
	return members, nil
}

// Upsert implements [Store.Upsert].
func (s *MemStore) Upsert(ctx context.Context, teamID string, member Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.teams == nil {
		s.teams = make(map[string]map[string]Member)
	}
	team, ok := s.teams[teamID]
	if !ok {
		team = make(map[string]Member)
		s.teams[teamID] = team
	}
	team[member.ID] = member
	return nil
}

// Remove implements [Store.Remove].
func (s *MemStore) Remove(ctx context.Context, teamID, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[teamID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := team[memberID]; !ok {
		return ErrNotFound
	}
	delete(team, memberID)
	return nil
}
