package postgres

import (
	"context"
	"fmt"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// AssignmentStore implements storage.AssignmentStore using PostgreSQL.
type AssignmentStore struct {
	pool *Pool
}

// NewAssignmentStore creates a new AssignmentStore.
func NewAssignmentStore(pool *Pool) *AssignmentStore {
	return &AssignmentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AssignmentStore = (*AssignmentStore)(nil)

const assignmentInsertQuery = `
	INSERT INTO ab_assignments (
		user_id, arm, user_type, league_type, season, start_week
	) VALUES ($1, $2, $3, $4, $5, $6)
`

// Insert adds an assignment. Returns ErrDuplicateKey if user_id exists.
func (s *AssignmentStore) Insert(ctx context.Context, a *domain.Assignment) error {
	_, err := s.pool.Exec(ctx, assignmentInsertQuery,
		a.UserID, a.Arm, a.UserType, a.LeagueType, a.Season, a.StartWeek)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// InsertBulk adds multiple assignments atomically. Fails entire batch on any duplicate.
func (s *AssignmentStore) InsertBulk(ctx context.Context, assignments []*domain.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range assignments {
		_, err := tx.Exec(ctx, assignmentInsertQuery,
			a.UserID, a.Arm, a.UserType, a.LeagueType, a.Season, a.StartWeek)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert assignment in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetAll retrieves all assignments ordered by user_id.
func (s *AssignmentStore) GetAll(ctx context.Context) ([]*domain.Assignment, error) {
	query := `
		SELECT user_id, arm, user_type, league_type, season, start_week
		FROM ab_assignments
		ORDER BY user_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		err := rows.Scan(&a.UserID, &a.Arm, &a.UserType, &a.LeagueType, &a.Season, &a.StartWeek)
		if err != nil {
			return nil, fmt.Errorf("scan assignment row: %w", err)
		}
		assignments = append(assignments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignment rows: %w", err)
	}

	return assignments, nil
}
