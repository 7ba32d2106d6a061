package clickhouse

import (
	"context"
	"fmt"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// WeeklyMetricStore implements storage.WeeklyMetricStore using ClickHouse.
type WeeklyMetricStore struct {
	conn *Conn
}

// NewWeeklyMetricStore creates a new WeeklyMetricStore.
func NewWeeklyMetricStore(conn *Conn) *WeeklyMetricStore {
	return &WeeklyMetricStore{conn: conn}
}

// Compile-time interface check.
var _ storage.WeeklyMetricStore = (*WeeklyMetricStore)(nil)

type weeklyKey struct {
	playerID string
	season   int
	week     int
}

// InsertBulk adds multiple metrics. Fails entire batch on duplicate
// (player_id, season, week). ClickHouse MergeTree does not enforce
// uniqueness, so duplicates are detected explicitly before insert.
func (s *WeeklyMetricStore) InsertBulk(ctx context.Context, metrics []*domain.WeeklyMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[weeklyKey]struct{})
	seasons := make(map[int]struct{})
	for _, m := range metrics {
		k := weeklyKey{m.PlayerID, m.Season, m.Week}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		seasons[m.Season] = struct{}{}
	}

	// Check against existing DB rows, one key query per affected season
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
		INSERT INTO metrics_player_weekly (
			player_id, player_name, position, team, season, week,
			fantasy_points, fantasy_points_ppr,
			yards_per_attempt, td_rate, int_rate,
			yards_per_carry,
			catch_rate, yards_per_target, yards_per_reception,
			touches, opportunities, snap_share,
			rolling_ppr, rolling_snap_share, week_over_week_ppr, position_rank
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, m := range metrics {
		// Pass nil values directly for Nullable columns
		err = batch.Append(
			m.PlayerID, m.PlayerName, m.Position, m.Team, int32(m.Season), int32(m.Week),
			m.FantasyPoints, m.FantasyPointsPPR,
			m.YardsPerAttempt, m.TDRate, m.IntRate,
			m.YardsPerCarry,
			m.CatchRate, m.YardsPerTarget, m.YardsPerReception,
			int32(m.Touches), int32(m.Opportunities), m.SnapShare,
			m.RollingPPR, m.RollingSnapShare, m.WeekOverWeekPPR, int32(m.PositionRank),
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
// (week, position, position_rank, player_id) ASC.
func (s *WeeklyMetricStore) GetBySeason(ctx context.Context, season int) ([]*domain.WeeklyMetric, error) {
	query := `
		SELECT
			player_id, player_name, position, team, season, week,
			fantasy_points, fantasy_points_ppr,
			yards_per_attempt, td_rate, int_rate,
			yards_per_carry,
			catch_rate, yards_per_target, yards_per_reception,
			touches, opportunities, snap_share,
			rolling_ppr, rolling_snap_share, week_over_week_ppr, position_rank
		FROM metrics_player_weekly
		WHERE season = ?
		ORDER BY week ASC, position ASC, position_rank ASC, player_id ASC
	`

	rows, err := s.conn.Query(ctx, query, int32(season))
	if err != nil {
		return nil, fmt.Errorf("query weekly metrics by season: %w", err)
	}
	defer rows.Close()

	return scanWeeklyMetrics(rows)
}

// DeleteBySeason removes a season's metrics.
func (s *WeeklyMetricStore) DeleteBySeason(ctx context.Context, season int) error {
	query := `ALTER TABLE metrics_player_weekly DELETE WHERE season = ?`
	if err := s.conn.Exec(ctx, query, int32(season)); err != nil {
		return fmt.Errorf("delete weekly metrics by season: %w", err)
	}
	return nil
}

// existingKeys loads the primary keys already stored for a season.
func (s *WeeklyMetricStore) existingKeys(ctx context.Context, season int) (map[weeklyKey]struct{}, error) {
	query := `
		SELECT player_id, season, week
		FROM metrics_player_weekly
		WHERE season = ?
	`

	rows, err := s.conn.Query(ctx, query, int32(season))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[weeklyKey]struct{})
	for rows.Next() {
		var playerID string
		var seasonCol, week int32
		if err := rows.Scan(&playerID, &seasonCol, &week); err != nil {
			return nil, err
		}
		keys[weeklyKey{playerID, int(seasonCol), int(week)}] = struct{}{}
	}

	return keys, rows.Err()
}

// scanWeeklyMetrics scans multiple rows.
func scanWeeklyMetrics(rows chRows) ([]*domain.WeeklyMetric, error) {
	var metrics []*domain.WeeklyMetric

	for rows.Next() {
		var m domain.WeeklyMetric
		var season, week, touches, opportunities, positionRank int32

		err := rows.Scan(
			&m.PlayerID, &m.PlayerName, &m.Position, &m.Team, &season, &week,
			&m.FantasyPoints, &m.FantasyPointsPPR,
			&m.YardsPerAttempt, &m.TDRate, &m.IntRate,
			&m.YardsPerCarry,
			&m.CatchRate, &m.YardsPerTarget, &m.YardsPerReception,
			&touches, &opportunities, &m.SnapShare,
			&m.RollingPPR, &m.RollingSnapShare, &m.WeekOverWeekPPR, &positionRank,
		)
		if err != nil {
			return nil, fmt.Errorf("scan weekly metric row: %w", err)
		}

		m.Season = int(season)
		m.Week = int(week)
		m.Touches = int(touches)
		m.Opportunities = int(opportunities)
		m.PositionRank = int(positionRank)

		metrics = append(metrics, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly metric rows: %w", err)
	}

	return metrics, nil
}
