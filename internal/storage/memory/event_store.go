package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// EventStore is an in-memory implementation of storage.EventStore.
type EventStore struct {
	mu   sync.RWMutex
	data map[string]*domain.EventRecord // keyed by user_id|season|week
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{data: make(map[string]*domain.EventRecord)}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

func eventKey(e *domain.EventRecord) string {
	return fmt.Sprintf("%d|%d|%d", e.UserID, e.Season, e.Week)
}

// InsertBulk adds multiple event rows atomically. Fails entire batch
// on duplicate (user_id, season, week).
func (s *EventStore) InsertBulk(_ context.Context, events []*domain.EventRecord) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(events))
	for _, e := range events {
		if e == nil || e.UserID == 0 {
			return storage.ErrInvalidInput
		}
		key := eventKey(e)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, e := range events {
		cp := *e
		s.data[eventKey(e)] = &cp
	}
	return nil
}

// GetBySeason retrieves all events for a season, ordered by
// (week, user_id) ASC.
func (s *EventStore) GetBySeason(_ context.Context, season int) ([]*domain.EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.EventRecord
	for _, e := range s.data {
		if e.Season == season {
			cp := *e
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
