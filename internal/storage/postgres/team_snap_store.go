package postgres

import (
	"context"
	"fmt"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// TeamSnapStore implements storage.TeamSnapStore using PostgreSQL.
type TeamSnapStore struct {
	pool *Pool
}

// NewTeamSnapStore creates a new TeamSnapStore.
func NewTeamSnapStore(pool *Pool) *TeamSnapStore {
	return &TeamSnapStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TeamSnapStore = (*TeamSnapStore)(nil)

// InsertBulk adds multiple records atomically. Fails entire batch on
// duplicate (team, season, week).
func (s *TeamSnapStore) InsertBulk(ctx context.Context, records []*domain.TeamSnapRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO team_snap_totals (
			team, season, week, offense_snaps
		) VALUES ($1, $2, $3, $4)
	`

	for _, r := range records {
		_, err := tx.Exec(ctx, query, r.Team, r.Season, r.Week, r.OffenseSnaps)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert team snap record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBySeason retrieves all records for a season ordered by (week, team).
func (s *TeamSnapStore) GetBySeason(ctx context.Context, season int) ([]*domain.TeamSnapRecord, error) {
	query := `
		SELECT team, season, week, offense_snaps
		FROM team_snap_totals
		WHERE season = $1
		ORDER BY week ASC, team ASC
	`

	rows, err := s.pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("get team snap records by season: %w", err)
	}
	defer rows.Close()

	var records []*domain.TeamSnapRecord
	for rows.Next() {
		var r domain.TeamSnapRecord
		if err := rows.Scan(&r.Team, &r.Season, &r.Week, &r.OffenseSnaps); err != nil {
			return nil, fmt.Errorf("scan team snap row: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team snap rows: %w", err)
	}

	return records, nil
}
