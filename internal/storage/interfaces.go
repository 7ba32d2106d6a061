package storage

import (
	"context"

	"fantasy-analytics/internal/domain"
)

// PlayerStore provides access to the players dimension.
type PlayerStore interface {
	// Insert adds a player. Returns ErrDuplicateKey if player_id exists.
	Insert(ctx context.Context, p *domain.Player) error

	// GetByID retrieves a player. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, playerID string) (*domain.Player, error)

	// GetAll retrieves all players, ordered by player_id ASC.
	GetAll(ctx context.Context) ([]*domain.Player, error)
}

// PlayerGameStore provides access to player_game_stats storage.
type PlayerGameStore interface {
	// Insert adds a game record. Returns ErrDuplicateKey if
	// (player_id, season, week) exists.
	Insert(ctx context.Context, r *domain.PlayerGameRecord) error

	// InsertBulk adds multiple records atomically. Fails entire batch
	// on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.PlayerGameRecord) error

	// GetBySeason retrieves all records for a season, ordered by
	// (week, player_id) ASC.
	GetBySeason(ctx context.Context, season int) ([]*domain.PlayerGameRecord, error)

	// GetByPlayer retrieves a player's records for a season, ordered
	// by week ASC.
	GetByPlayer(ctx context.Context, playerID string, season int) ([]*domain.PlayerGameRecord, error)
}

// TeamSnapStore provides access to team_snap_totals storage.
type TeamSnapStore interface {
	// InsertBulk adds multiple records atomically. Fails entire batch
	// on duplicate (team, season, week).
	InsertBulk(ctx context.Context, records []*domain.TeamSnapRecord) error

	// GetBySeason retrieves all records for a season, ordered by
	// (week, team) ASC.
	GetBySeason(ctx context.Context, season int) ([]*domain.TeamSnapRecord, error)
}

// WeeklyMetricStore provides access to metrics_player_weekly storage.
type WeeklyMetricStore interface {
	// InsertBulk adds multiple metrics. Fails entire batch on
	// duplicate (player_id, season, week).
	InsertBulk(ctx context.Context, metrics []*domain.WeeklyMetric) error

	// GetBySeason retrieves all metrics for a season, ordered by
	// (week, position, position_rank, player_id) ASC.
	GetBySeason(ctx context.Context, season int) ([]*domain.WeeklyMetric, error)

	// DeleteBySeason removes a season's metrics so an engine run can
	// be repeated over refreshed facts.
	DeleteBySeason(ctx context.Context, season int) error
}

// SeasonMetricStore provides access to metrics_player_season storage.
type SeasonMetricStore interface {
	// InsertBulk adds multiple metrics. Fails entire batch on
	// duplicate (player_id, season).
	InsertBulk(ctx context.Context, metrics []*domain.SeasonMetric) error

	// GetBySeason retrieves all metrics for a season, ordered by
	// (position, position_rank, player_id) ASC.
	GetBySeason(ctx context.Context, season int) ([]*domain.SeasonMetric, error)

	// DeleteBySeason removes a season's metrics.
	DeleteBySeason(ctx context.Context, season int) error
}

// PositionBaselineStore provides access to metrics_position_baseline.
type PositionBaselineStore interface {
	// InsertBulk adds multiple baselines. Fails entire batch on
	// duplicate (season, week, position).
	InsertBulk(ctx context.Context, baselines []*domain.PositionBaseline) error

	// GetBySeason retrieves all baselines for a season, ordered by
	// (week, position) ASC.
	GetBySeason(ctx context.Context, season int) ([]*domain.PositionBaseline, error)

	// DeleteBySeason removes a season's baselines.
	DeleteBySeason(ctx context.Context, season int) error
}

// AssignmentStore provides access to ab_assignments storage.
type AssignmentStore interface {
	// Insert adds an assignment. Returns ErrDuplicateKey if user_id
	// exists: arm assignment is immutable once created.
	Insert(ctx context.Context, a *domain.Assignment) error

	// InsertBulk adds multiple assignments atomically. Fails entire
	// batch on any duplicate.
	InsertBulk(ctx context.Context, assignments []*domain.Assignment) error

	// GetAll retrieves all assignments, ordered by user_id ASC.
	GetAll(ctx context.Context) ([]*domain.Assignment, error)
}

// EventStore provides access to ab_events storage.
type EventStore interface {
	// InsertBulk adds multiple event rows atomically. Fails entire
	// batch on duplicate (user_id, season, week).
	InsertBulk(ctx context.Context, events []*domain.EventRecord) error

	// GetBySeason retrieves all events for a season, ordered by
	// (week, user_id) ASC.
	GetBySeason(ctx context.Context, season int) ([]*domain.EventRecord, error)
}
