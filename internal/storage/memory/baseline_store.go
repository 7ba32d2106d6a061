package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// PositionBaselineStore is an in-memory implementation of
// storage.PositionBaselineStore.
type PositionBaselineStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PositionBaseline // keyed by season|week|position
}

// NewPositionBaselineStore creates a new in-memory baseline store.
func NewPositionBaselineStore() *PositionBaselineStore {
	return &PositionBaselineStore{data: make(map[string]*domain.PositionBaseline)}
}

// Compile-time interface check.
var _ storage.PositionBaselineStore = (*PositionBaselineStore)(nil)

func baselineKey(b *domain.PositionBaseline) string {
	return fmt.Sprintf("%d|%d|%s", b.Season, b.Week, b.Position)
}

// InsertBulk adds multiple baselines. Fails entire batch on duplicate
// (season, week, position).
func (s *PositionBaselineStore) InsertBulk(_ context.Context, baselines []*domain.PositionBaseline) error {
	if len(baselines) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(baselines))
	for _, b := range baselines {
		if b == nil || b.Position == "" {
			return storage.ErrInvalidInput
		}
		key := baselineKey(b)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, b := range baselines {
		cp := *b
		s.data[baselineKey(b)] = &cp
	}
	return nil
}

// GetBySeason retrieves all baselines for a season, ordered by
// (week, position) ASC.
func (s *PositionBaselineStore) GetBySeason(_ context.Context, season int) ([]*domain.PositionBaseline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.PositionBaseline
	for _, b := range s.data {
		if b.Season == season {
			cp := *b
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

// DeleteBySeason removes a season's baselines.
func (s *PositionBaselineStore) DeleteBySeason(_ context.Context, season int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, b := range s.data {
		if b.Season == season {
			delete(s.data, key)
		}
	}
	return nil
}
