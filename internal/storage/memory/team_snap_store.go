package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// TeamSnapStore is an in-memory implementation of storage.TeamSnapStore.
type TeamSnapStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TeamSnapRecord // keyed by team|season|week
}

// NewTeamSnapStore creates a new in-memory team snap store.
func NewTeamSnapStore() *TeamSnapStore {
	return &TeamSnapStore{data: make(map[string]*domain.TeamSnapRecord)}
}

// Compile-time interface check.
var _ storage.TeamSnapStore = (*TeamSnapStore)(nil)

func snapKey(r *domain.TeamSnapRecord) string {
	return fmt.Sprintf("%s|%d|%d", r.Team, r.Season, r.Week)
}

// InsertBulk adds multiple records atomically. Fails entire batch on
// duplicate (team, season, week).
func (s *TeamSnapStore) InsertBulk(_ context.Context, records []*domain.TeamSnapRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.Team == "" {
			return storage.ErrInvalidInput
		}
		key := snapKey(r)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range records {
		cp := *r
		s.data[snapKey(r)] = &cp
	}
	return nil
}

// GetBySeason retrieves all records for a season, ordered by
// (week, team) ASC.
func (s *TeamSnapStore) GetBySeason(_ context.Context, season int) ([]*domain.TeamSnapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TeamSnapRecord
	for _, r := range s.data {
		if r.Season == season {
			cp := *r
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].Team < out[j].Team
	})
	return out, nil
}
