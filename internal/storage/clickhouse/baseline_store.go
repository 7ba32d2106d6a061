package clickhouse

import (
	"context"
	"fmt"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// PositionBaselineStore implements storage.PositionBaselineStore using ClickHouse.
type PositionBaselineStore struct {
	conn *Conn
}

// NewPositionBaselineStore creates a new PositionBaselineStore.
func NewPositionBaselineStore(conn *Conn) *PositionBaselineStore {
	return &PositionBaselineStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PositionBaselineStore = (*PositionBaselineStore)(nil)

type baselineKey struct {
	season   int
	week     int
	position string
}

// InsertBulk adds multiple baselines. Fails entire batch on duplicate
// (season, week, position).
func (s *PositionBaselineStore) InsertBulk(ctx context.Context, baselines []*domain.PositionBaseline) error {
	if len(baselines) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[baselineKey]struct{})
	seasons := make(map[int]struct{})
	for _, b := range baselines {
		k := baselineKey{b.Season, b.Week, b.Position}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		seasons[b.Season] = struct{}{}
	}

	// Check against existing DB rows
	for season := range seasons {
		existing, err := s.existingKeys(ctx, season)
		if err != nil {
			return fmt.Errorf("check existing keys: %w", err)
		}
		for k := range existing {
			if _, clash := seen[k]; clash {
				return storage.ErrDuplicateKey
			}
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO metrics_position_baseline (
			season, week, position,
			startable_pool, players_with_data,
			avg_ppr_startable, avg_ppr_all, max_ppr
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range baselines {
		err = batch.Append(
			int32(b.Season), int32(b.Week), b.Position,
			int32(b.StartablePool), int32(b.PlayersWithData),
			b.AvgPPRStartable, b.AvgPPRAll, b.MaxPPR,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySeason retrieves all baselines for a season, ordered by
// (week, position) ASC.
func (s *PositionBaselineStore) GetBySeason(ctx context.Context, season int) ([]*domain.PositionBaseline, error) {
	query := `
		SELECT
			season, week, position,
			startable_pool, players_with_data,
			avg_ppr_startable, avg_ppr_all, max_ppr
		FROM metrics_position_baseline
		WHERE season = ?
		ORDER BY week ASC, position ASC
	`

	rows, err := s.conn.Query(ctx, query, int32(season))
	if err != nil {
		return nil, fmt.Errorf("query baselines by season: %w", err)
	}
	defer rows.Close()

	var baselines []*domain.PositionBaseline
	for rows.Next() {
		var b domain.PositionBaseline
		var season, week, startablePool, playersWithData int32

		err := rows.Scan(
			&season, &week, &b.Position,
			&startablePool, &playersWithData,
			&b.AvgPPRStartable, &b.AvgPPRAll, &b.MaxPPR,
		)
		if err != nil {
			return nil, fmt.Errorf("scan baseline row: %w", err)
		}

		b.Season = int(season)
		b.Week = int(week)
		b.StartablePool = int(startablePool)
		b.PlayersWithData = int(playersWithData)

		baselines = append(baselines, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate baseline rows: %w", err)
	}

	return baselines, nil
}

// DeleteBySeason removes a season's baselines.
func (s *PositionBaselineStore) DeleteBySeason(ctx context.Context, season int) error {
	query := `ALTER TABLE metrics_position_baseline DELETE WHERE season = ?`
	if err := s.conn.Exec(ctx, query, int32(season)); err != nil {
		return fmt.Errorf("delete baselines by season: %w", err)
	}
	return nil
}

// existingKeys loads the primary keys already stored for a season.
func (s *PositionBaselineStore) existingKeys(ctx context.Context, season int) (map[baselineKey]struct{}, error) {
	query := `
		SELECT season, week, position
		FROM metrics_position_baseline
		WHERE season = ?
	`

	rows, err := s.conn.Query(ctx, query, int32(season))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[baselineKey]struct{})
	for rows.Next() {
		var seasonCol, week int32
		var position string
		if err := rows.Scan(&seasonCol, &week, &position); err != nil {
			return nil, err
		}
		keys[baselineKey{int(seasonCol), int(week), position}] = struct{}{}
	}

	return keys, rows.Err()
}
