package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

func gameRecord(playerID string, week int) *domain.PlayerGameRecord {
	return &domain.PlayerGameRecord{
		PlayerID:         playerID,
		PlayerName:       "Player " + playerID,
		Position:         domain.PositionRB,
		Team:             "SF",
		Opponent:         "SEA",
		Season:           2023,
		Week:             week,
		Carries:          18,
		RushingYards:     95.0,
		RushingTDs:       1,
		Targets:          5,
		Receptions:       4,
		ReceivingYards:   32.0,
		FantasyPoints:    18.7,
		FantasyPointsPPR: 22.7,
		OffenseSnaps:     48,
	}
}

func TestPlayerGameStore_InsertAndGetBySeason(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPlayerGameStore(pool)

	rec := gameRecord("p1", 1)
	require.NoError(t, store.Insert(ctx, rec))

	records, err := store.GetBySeason(ctx, 2023)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, rec.PlayerID, records[0].PlayerID)
	assert.Equal(t, rec.Position, records[0].Position)
	assert.Equal(t, rec.Carries, records[0].Carries)
	assert.InDelta(t, rec.FantasyPointsPPR, records[0].FantasyPointsPPR, 0.0001)

	// Wrong season returns nothing
	records, err = store.GetBySeason(ctx, 2022)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPlayerGameStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPlayerGameStore(pool)

	rec := gameRecord("p1", 1)
	require.NoError(t, store.Insert(ctx, rec))

	// Same (player_id, season, week) must fail
	err := store.Insert(ctx, rec)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPlayerGameStore_InsertBulkAtomic(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPlayerGameStore(pool)

	require.NoError(t, store.Insert(ctx, gameRecord("p1", 1)))

	// Batch containing a duplicate of the existing row must not insert anything
	batch := []*domain.PlayerGameRecord{
		gameRecord("p2", 1),
		gameRecord("p1", 1),
	}
	err := store.InsertBulk(ctx, batch)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	records, err := store.GetBySeason(ctx, 2023)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPlayerGameStore_GetBySeasonOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPlayerGameStore(pool)

	batch := []*domain.PlayerGameRecord{
		gameRecord("p2", 2),
		gameRecord("p1", 2),
		gameRecord("p1", 1),
	}
	require.NoError(t, store.InsertBulk(ctx, batch))

	records, err := store.GetBySeason(ctx, 2023)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Ordered by (week, player_id)
	assert.Equal(t, 1, records[0].Week)
	assert.Equal(t, "p1", records[1].PlayerID)
	assert.Equal(t, "p2", records[2].PlayerID)
}

func TestPlayerGameStore_GetByPlayer(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPlayerGameStore(pool)

	batch := []*domain.PlayerGameRecord{
		gameRecord("p1", 3),
		gameRecord("p1", 1),
		gameRecord("p2", 1),
	}
	require.NoError(t, store.InsertBulk(ctx, batch))

	records, err := store.GetByPlayer(ctx, "p1", 2023)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Week)
	assert.Equal(t, 3, records[1].Week)
}
