package memory

import (
	"context"
	"sort"
	"sync"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// AssignmentStore is an in-memory implementation of
// storage.AssignmentStore.
type AssignmentStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.Assignment // keyed by user_id
}

// NewAssignmentStore creates a new in-memory assignment store.
func NewAssignmentStore() *AssignmentStore {
	return &AssignmentStore{data: make(map[int64]*domain.Assignment)}
}

// Compile-time interface check.
var _ storage.AssignmentStore = (*AssignmentStore)(nil)

// Insert adds an assignment. Returns ErrDuplicateKey if user_id
// exists: arm assignment is immutable once created.
func (s *AssignmentStore) Insert(_ context.Context, a *domain.Assignment) error {
	if a == nil || a.UserID == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.UserID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *a
	s.data[a.UserID] = &cp
	return nil
}

// InsertBulk adds multiple assignments atomically. Fails entire batch
// on any duplicate.
func (s *AssignmentStore) InsertBulk(_ context.Context, assignments []*domain.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[int64]struct{}, len(assignments))
	for _, a := range assignments {
		if a == nil || a.UserID == 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[a.UserID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[a.UserID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[a.UserID] = struct{}{}
	}

	for _, a := range assignments {
		cp := *a
		s.data[a.UserID] = &cp
	}
	return nil
}

// GetAll retrieves all assignments, ordered by user_id ASC.
func (s *AssignmentStore) GetAll(_ context.Context) ([]*domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Assignment, 0, len(s.data))
	for _, a := range s.data {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
