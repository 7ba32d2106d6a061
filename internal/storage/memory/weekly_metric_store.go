package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// WeeklyMetricStore is an in-memory implementation of
// storage.WeeklyMetricStore.
type WeeklyMetricStore struct {
	mu   sync.RWMutex
	data map[string]*domain.WeeklyMetric // keyed by player_id|season|week
}

// NewWeeklyMetricStore creates a new in-memory weekly metric store.
func NewWeeklyMetricStore() *WeeklyMetricStore {
	return &WeeklyMetricStore{data: make(map[string]*domain.WeeklyMetric)}
}

// Compile-time interface check.
var _ storage.WeeklyMetricStore = (*WeeklyMetricStore)(nil)

func weeklyKey(m *domain.WeeklyMetric) string {
	return fmt.Sprintf("%s|%d|%d", m.PlayerID, m.Season, m.Week)
}

// InsertBulk adds multiple metrics. Fails entire batch on duplicate
// (player_id, season, week).
func (s *WeeklyMetricStore) InsertBulk(_ context.Context, metrics []*domain.WeeklyMetric) error {
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
		key := weeklyKey(m)
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
		s.data[weeklyKey(m)] = &cp
	}
	return nil
}

// GetBySeason retrieves all metrics for a season, ordered by
// (week, position, position_rank, player_id) ASC.
func (s *WeeklyMetricStore) GetBySeason(_ context.Context, season int) ([]*domain.WeeklyMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.WeeklyMetric
	for _, m := range s.data {
		if m.Season == season {
			cp := *m
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
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
func (s *WeeklyMetricStore) DeleteBySeason(_ context.Context, season int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, m := range s.data {
		if m.Season == season {
			delete(s.data, key)
		}
	}
	return nil
}
