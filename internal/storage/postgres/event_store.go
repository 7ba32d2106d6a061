package postgres

import (
	"context"
	"fmt"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// EventStore implements storage.EventStore using PostgreSQL.
type EventStore struct {
	pool *Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

// InsertBulk adds multiple event rows atomically. Fails entire batch on
// duplicate (user_id, season, week).
func (s *EventStore) InsertBulk(ctx context.Context, events []*domain.EventRecord) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO ab_events (
			user_id, arm, user_type, league_type, season, week,
			made_claim, num_claims, set_lineup, retained
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, e := range events {
		_, err := tx.Exec(ctx, query,
			e.UserID, e.Arm, e.UserType, e.LeagueType, e.Season, e.Week,
			e.MadeClaim, e.NumClaims, e.SetLineup, e.Retained)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert event in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBySeason retrieves all events for a season ordered by (week, user_id).
func (s *EventStore) GetBySeason(ctx context.Context, season int) ([]*domain.EventRecord, error) {
	query := `
		SELECT user_id, arm, user_type, league_type, season, week,
			made_claim, num_claims, set_lineup, retained
		FROM ab_events
		WHERE season = $1
		ORDER BY week ASC, user_id ASC
	`

	rows, err := s.pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("get events by season: %w", err)
	}
	defer rows.Close()

	var events []*domain.EventRecord
	for rows.Next() {
		var e domain.EventRecord
		err := rows.Scan(
			&e.UserID, &e.Arm, &e.UserType, &e.LeagueType, &e.Season, &e.Week,
			&e.MadeClaim, &e.NumClaims, &e.SetLineup, &e.Retained)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}
