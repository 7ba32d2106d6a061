package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// SeasonMetricStore is an in-memory implementation of
// storage.SeasonMetricStore.
type SeasonMetricStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SeasonMetric // keyed by player_id|season
}

// NewSeasonMetricStore creates a new in-memory season metric store.
func NewSeasonMetricStore() *SeasonMetricStore {
	return &SeasonMetricStore{data: make(map[string]*domain.SeasonMetric)}
}

// Compile-time interface check.
var _ storage.SeasonMetricStore = (*SeasonMetricStore)(nil)

func seasonKey(m *domain.SeasonMetric) string {
	return fmt.Sprintf("%s|%d", m.PlayerID, m.Season)
}

// InsertBulk adds multiple metrics. Fails entire batch on duplicate
// (player_id, season).
func (s *SeasonMetricStore) InsertBulk(_ context.Context, metrics []*domain.SeasonMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(metrics))
	for _, m := range metrics {
		if m == nil || m.PlayerID == "" {
			return storage.ErrInvalidInput
		}
		key := seasonKey(m)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, m := range metrics {
		cp := *m
		s.data[seasonKey(m)] = &cp
	}
	return nil
}

// GetBySeason retrieves all metrics for a season, ordered by
// (position, position_rank, player_id) ASC.
func (s *SeasonMetricStore) GetBySeason(_ context.Context, season int) ([]*domain.SeasonMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.SeasonMetric
	for _, m := range s.data {
		if m.Season == season {
			cp := *m
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		if out[i].PositionRank != out[j].PositionRank {
			return out[i].PositionRank < out[j].PositionRank
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

// DeleteBySeason removes a season's metrics.
func (s *SeasonMetricStore) DeleteBySeason(_ context.Context, season int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, m := range s.data {
		if m.Season == season {
			delete(s.data, key)
		}
	}
	return nil
}
