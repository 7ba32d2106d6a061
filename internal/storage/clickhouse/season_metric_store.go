package clickhouse

import (
	"context"
	"fmt"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// SeasonMetricStore implements storage.SeasonMetricStore using ClickHouse.
type SeasonMetricStore struct {
	conn *Conn
}

// NewSeasonMetricStore creates a new SeasonMetricStore.
func NewSeasonMetricStore(conn *Conn) *SeasonMetricStore {
	return &SeasonMetricStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SeasonMetricStore = (*SeasonMetricStore)(nil)

type seasonKey struct {
	playerID string
	season   int
}

// InsertBulk adds multiple metrics. Fails entire batch on duplicate
// (player_id, season).
func (s *SeasonMetricStore) InsertBulk(ctx context.Context, metrics []*domain.SeasonMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[seasonKey]struct{})
	seasons := make(map[int]struct{})
	for _, m := range metrics {
		k := seasonKey{m.PlayerID, m.Season}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		seasons[m.Season] = struct{}{}
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
		INSERT INTO metrics_player_season (
			player_id, player_name, position, team, season,
			games_played, total_fantasy_pts, total_ppr, avg_ppr_per_game,
			boom_rate, bust_rate, coefficient_of_variation,
			ceiling_ppr, floor_ppr, position_rank
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, m := range metrics {
		err = batch.Append(
			m.PlayerID, m.PlayerName, m.Position, m.Team, int32(m.Season),
			int32(m.GamesPlayed), m.TotalFantasyPts, m.TotalPPR, m.AvgPPRPerGame,
			m.BoomRate, m.BustRate, m.CoefficientOfVariation,
			m.CeilingPPR, m.FloorPPR, int32(m.PositionRank),
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

// GetBySeason retrieves all metrics for a season, ordered by
// (position, position_rank, player_id) ASC.
func (s *SeasonMetricStore) GetBySeason(ctx context.Context, season int) ([]*domain.SeasonMetric, error) {
	query := `
		SELECT
			player_id, player_name, position, team, season,
			games_played, total_fantasy_pts, total_ppr, avg_ppr_per_game,
			boom_rate, bust_rate, coefficient_of_variation,
			ceiling_ppr, floor_ppr, position_rank
		FROM metrics_player_season
		WHERE season = ?
		ORDER BY position ASC, position_rank ASC, player_id ASC
	`

	rows, err := s.conn.Query(ctx, query, int32(season))
	if err != nil {
		return nil, fmt.Errorf("query season metrics by season: %w", err)
	}
	defer rows.Close()

	return scanSeasonMetrics(rows)
}

// DeleteBySeason removes a season's metrics.
func (s *SeasonMetricStore) DeleteBySeason(ctx context.Context, season int) error {
	query := `ALTER TABLE metrics_player_season DELETE WHERE season = ?`
	if err := s.conn.Exec(ctx, query, int32(season)); err != nil {
		return fmt.Errorf("delete season metrics by season: %w", err)
	}
	return nil
}

// existingKeys loads the primary keys already stored for a season.
func (s *SeasonMetricStore) existingKeys(ctx context.Context, season int) (map[seasonKey]struct{}, error) {
	query := `
		SELECT player_id, season
		FROM metrics_player_season
		WHERE season = ?
	`

	rows, err := s.conn.Query(ctx, query, int32(season))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[seasonKey]struct{})
	for rows.Next() {
		var playerID string
		var seasonCol int32
		if err := rows.Scan(&playerID, &seasonCol); err != nil {
			return nil, err
		}
		keys[seasonKey{playerID, int(seasonCol)}] = struct{}{}
	}

	return keys, rows.Err()
}

// scanSeasonMetrics scans multiple rows.
func scanSeasonMetrics(rows chRows) ([]*domain.SeasonMetric, error) {
	var metrics []*domain.SeasonMetric

	for rows.Next() {
		var m domain.SeasonMetric
		var season, gamesPlayed, positionRank int32

		err := rows.Scan(
			&m.PlayerID, &m.PlayerName, &m.Position, &m.Team, &season,
			&gamesPlayed, &m.TotalFantasyPts, &m.TotalPPR, &m.AvgPPRPerGame,
			&m.BoomRate, &m.BustRate, &m.CoefficientOfVariation,
			&m.CeilingPPR, &m.FloorPPR, &positionRank,
		)
		if err != nil {
			return nil, fmt.Errorf("scan season metric row: %w", err)
		}

		m.Season = int(season)
		m.GamesPlayed = int(gamesPlayed)
		m.PositionRank = int(positionRank)

		metrics = append(metrics, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate season metric rows: %w", err)
	}

	return metrics, nil
}
