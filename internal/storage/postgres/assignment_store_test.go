package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

func assignment(userID int64, arm string) *domain.Assignment {
	return &domain.Assignment{
		UserID:     userID,
		Arm:        arm,
		UserType:   domain.UserTypeReturning,
		LeagueType: domain.LeagueTypePPR,
		Season:     2023,
		StartWeek:  3,
	}
}

func TestAssignmentStore_InsertAndGetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAssignmentStore(pool)

	require.NoError(t, store.Insert(ctx, assignment(2, domain.ArmTreatment)))
	require.NoError(t, store.Insert(ctx, assignment(1, domain.ArmControl)))

	assignments, err := store.GetAll(ctx)
	require.NoError(t, err)

	require.Len(t, assignments, 2)
	assert.Equal(t, int64(1), assignments[0].UserID)
	assert.Equal(t, domain.ArmControl, assignments[0].Arm)
	assert.Equal(t, int64(2), assignments[1].UserID)
}

func TestAssignmentStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAssignmentStore(pool)

	require.NoError(t, store.Insert(ctx, assignment(1, domain.ArmControl)))

	// Arm assignment is immutable: re-inserting the user must fail
	err := store.Insert(ctx, assignment(1, domain.ArmTreatment))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestAssignmentStore_InsertBulkAtomic(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAssignmentStore(pool)

	require.NoError(t, store.Insert(ctx, assignment(5, domain.ArmControl)))

	batch := []*domain.Assignment{
		assignment(6, domain.ArmTreatment),
		assignment(5, domain.ArmControl),
	}
	err := store.InsertBulk(ctx, batch)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	assignments, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}
