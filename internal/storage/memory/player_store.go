package memory

import (
	"context"
	"sort"
	"sync"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// PlayerStore is an in-memory implementation of storage.PlayerStore.
type PlayerStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Player // keyed by player_id
}

// NewPlayerStore creates a new in-memory player store.
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{data: make(map[string]*domain.Player)}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

// Insert adds a player. Returns ErrDuplicateKey if player_id exists.
func (s *PlayerStore) Insert(_ context.Context, p *domain.Player) error {
	if p == nil || p.PlayerID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.PlayerID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *p
	s.data[p.PlayerID] = &cp
	return nil
}

// GetByID retrieves a player. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByID(_ context.Context, playerID string) (*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[playerID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// GetAll retrieves all players, ordered by player_id ASC.
func (s *PlayerStore) GetAll(_ context.Context) ([]*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Player, 0, len(s.data))
	for _, p := range s.data {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}
