package taskstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time assertion that MemStore satisfies the Store interface.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store], suitable
// for single-process deployments and testing.
type MemStore struct {
	mu      sync.RWMutex
	records []Record

	// now is the clock, overridable in tests.
	now func() time.Time
}

// NewMemStore returns an initialised [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{now: time.Now}
}

// Save implements [Store.Save].
func (s *MemStore) Save(ctx context.Context, records []Record) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now == nil {
		s.now = time.Now
	}

	stored := make([]Record, len(records))
	for i, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = s.now()
		}
		stored[i] = r
	}
	s.records = append(s.records, stored...)
	return stored, nil
}

// ListByTeam implements [Store.ListByTeam].
func (s *MemStore) ListByTeam(ctx context.Context, teamID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.records {
		if r.TeamID == teamID {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}
