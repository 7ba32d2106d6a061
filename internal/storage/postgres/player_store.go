package postgres

import (
	"context"
	"fmt"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// PlayerStore implements storage.PlayerStore using PostgreSQL.
type PlayerStore struct {
	pool *Pool
}

// NewPlayerStore creates a new PlayerStore.
func NewPlayerStore(pool *Pool) *PlayerStore {
	return &PlayerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

// Insert adds a player. Returns ErrDuplicateKey if player_id exists.
func (s *PlayerStore) Insert(ctx context.Context, p *domain.Player) error {
	query := `
		INSERT INTO players (
			player_id, player_name, position, team, rookie_year
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		p.PlayerID,
		p.PlayerName,
		p.Position,
		p.Team,
		p.RookieYear,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

// GetByID retrieves a player by ID. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByID(ctx context.Context, playerID string) (*domain.Player, error) {
	query := `
		SELECT player_id, player_name, position, team, rookie_year
		FROM players
		WHERE player_id = $1
	`

	var p domain.Player
	err := s.pool.QueryRow(ctx, query, playerID).Scan(
		&p.PlayerID,
		&p.PlayerName,
		&p.Position,
		&p.Team,
		&p.RookieYear,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get player by id: %w", err)
	}

	return &p, nil
}

// GetAll retrieves all players ordered by player_id.
func (s *PlayerStore) GetAll(ctx context.Context) ([]*domain.Player, error) {
	query := `
		SELECT player_id, player_name, position, team, rookie_year
		FROM players
		ORDER BY player_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all players: %w", err)
	}
	defer rows.Close()

	var players []*domain.Player
	for rows.Next() {
		var p domain.Player
		err := rows.Scan(
			&p.PlayerID,
			&p.PlayerName,
			&p.Position,
			&p.Team,
			&p.RookieYear,
		)
		if err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}
		players = append(players, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player rows: %w", err)
	}

	return players, nil
}
