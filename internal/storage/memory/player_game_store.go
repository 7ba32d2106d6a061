// Package memory provides in-memory store implementations used by
// fixture pipelines and tests. All stores are safe for concurrent use
// and return copies of stored rows.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// PlayerGameStore is an in-memory implementation of storage.PlayerGameStore.
type PlayerGameStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PlayerGameRecord // keyed by player_id|season|week
}

// NewPlayerGameStore creates a new in-memory player game store.
func NewPlayerGameStore() *PlayerGameStore {
	return &PlayerGameStore{data: make(map[string]*domain.PlayerGameRecord)}
}

// Compile-time interface check.
var _ storage.PlayerGameStore = (*PlayerGameStore)(nil)

func gameKey(r *domain.PlayerGameRecord) string {
	return fmt.Sprintf("%s|%d|%d", r.PlayerID, r.Season, r.Week)
}

// Insert adds a game record. Returns ErrDuplicateKey if the
// (player_id, season, week) key exists.
func (s *PlayerGameStore) Insert(_ context.Context, r *domain.PlayerGameRecord) error {
	if r == nil || r.PlayerID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := gameKey(r)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *r
	s.data[key] = &cp
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on
// any duplicate.
func (s *PlayerGameStore) InsertBulk(_ context.Context, records []*domain.PlayerGameRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.PlayerID == "" {
			return storage.ErrInvalidInput
		}
		key := gameKey(r)
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
		s.data[gameKey(r)] = &cp
	}
	return nil
}

// GetBySeason retrieves all records for a season, ordered by
// (week, player_id) ASC.
func (s *PlayerGameStore) GetBySeason(_ context.Context, season int) ([]*domain.PlayerGameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.PlayerGameRecord
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
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

// GetByPlayer retrieves a player's records for a season, ordered by
// week ASC.
func (s *PlayerGameStore) GetByPlayer(_ context.Context, playerID string, season int) ([]*domain.PlayerGameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.PlayerGameRecord
	for _, r := range s.data {
		if r.PlayerID == playerID && r.Season == season {
			cp := *r
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out, nil
}
