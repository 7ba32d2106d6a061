package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// PlayerGameStore implements storage.PlayerGameStore using PostgreSQL.
type PlayerGameStore struct {
	pool *Pool
}

// NewPlayerGameStore creates a new PlayerGameStore.
func NewPlayerGameStore(pool *Pool) *PlayerGameStore {
	return &PlayerGameStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlayerGameStore = (*PlayerGameStore)(nil)

const playerGameInsertQuery = `
	INSERT INTO player_game_stats (
		player_id, player_name, position, team, opponent, season, week,
		completions, attempts, passing_yards, passing_tds, interceptions,
		carries, rushing_yards, rushing_tds,
		targets, receptions, receiving_yards, receiving_tds,
		fantasy_points, fantasy_points_ppr, offense_snaps
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12,
		$13, $14, $15,
		$16, $17, $18, $19,
		$20, $21, $22
	)
`

const playerGameSelectColumns = `
	player_id, player_name, position, team, opponent, season, week,
	completions, attempts, passing_yards, passing_tds, interceptions,
	carries, rushing_yards, rushing_tds,
	targets, receptions, receiving_yards, receiving_tds,
	fantasy_points, fantasy_points_ppr, offense_snaps
`

func playerGameArgs(r *domain.PlayerGameRecord) []any {
	return []any{
		r.PlayerID, r.PlayerName, r.Position, r.Team, r.Opponent, r.Season, r.Week,
		r.Completions, r.Attempts, r.PassingYards, r.PassingTDs, r.Interceptions,
		r.Carries, r.RushingYards, r.RushingTDs,
		r.Targets, r.Receptions, r.ReceivingYards, r.ReceivingTDs,
		r.FantasyPoints, r.FantasyPointsPPR, r.OffenseSnaps,
	}
}

// Insert adds a game record. Returns ErrDuplicateKey if
// (player_id, season, week) exists.
func (s *PlayerGameStore) Insert(ctx context.Context, r *domain.PlayerGameRecord) error {
	_, err := s.pool.Exec(ctx, playerGameInsertQuery, playerGameArgs(r)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert player game record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *PlayerGameStore) InsertBulk(ctx context.Context, records []*domain.PlayerGameRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		_, err := tx.Exec(ctx, playerGameInsertQuery, playerGameArgs(r)...)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert player game record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBySeason retrieves all records for a season ordered by (week, player_id).
func (s *PlayerGameStore) GetBySeason(ctx context.Context, season int) ([]*domain.PlayerGameRecord, error) {
	query := `
		SELECT ` + playerGameSelectColumns + `
		FROM player_game_stats
		WHERE season = $1
		ORDER BY week ASC, player_id ASC
	`

	rows, err := s.pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("get player game records by season: %w", err)
	}
	defer rows.Close()

	return scanPlayerGameRecords(rows)
}

// GetByPlayer retrieves a player's records for a season ordered by week.
func (s *PlayerGameStore) GetByPlayer(ctx context.Context, playerID string, season int) ([]*domain.PlayerGameRecord, error) {
	query := `
		SELECT ` + playerGameSelectColumns + `
		FROM player_game_stats
		WHERE player_id = $1 AND season = $2
		ORDER BY week ASC
	`

	rows, err := s.pool.Query(ctx, query, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("get player game records by player: %w", err)
	}
	defer rows.Close()

	return scanPlayerGameRecords(rows)
}

// scanPlayerGameRecords scans multiple rows into a slice of PlayerGameRecord.
func scanPlayerGameRecords(rows pgx.Rows) ([]*domain.PlayerGameRecord, error) {
	var records []*domain.PlayerGameRecord

	for rows.Next() {
		var r domain.PlayerGameRecord

		err := rows.Scan(
			&r.PlayerID, &r.PlayerName, &r.Position, &r.Team, &r.Opponent, &r.Season, &r.Week,
			&r.Completions, &r.Attempts, &r.PassingYards, &r.PassingTDs, &r.Interceptions,
			&r.Carries, &r.RushingYards, &r.RushingTDs,
			&r.Targets, &r.Receptions, &r.ReceivingYards, &r.ReceivingTDs,
			&r.FantasyPoints, &r.FantasyPointsPPR, &r.OffenseSnaps,
		)
		if err != nil {
			return nil, fmt.Errorf("scan player game row: %w", err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player game rows: %w", err)
	}

	return records, nil
}
