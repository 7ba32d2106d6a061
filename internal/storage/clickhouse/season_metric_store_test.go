package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

func seasonMetric(playerID string, rank int, avgPPR float64) *domain.SeasonMetric {
	return &domain.SeasonMetric{
		PlayerID:        playerID,
		PlayerName:      "Player " + playerID,
		Position:        domain.PositionRB,
		Team:            "SF",
		Season:          2023,
		GamesPlayed:     16,
		TotalFantasyPts: avgPPR*16 - 50,
		TotalPPR:        avgPPR * 16,
		AvgPPRPerGame:   avgPPR,
		BoomRate:        ptr(0.4),
		BustRate:        ptr(0.1),
		CoefficientOfVariation: ptr(0.35),
		CeilingPPR:      avgPPR + 12,
		FloorPPR:        avgPPR - 9,
		PositionRank:    rank,
	}
}

func TestSeasonMetricStore_InsertBulkAndGetBySeason(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSeasonMetricStore(conn)

	m1 := seasonMetric("p1", 1, 22.4)
	m2 := seasonMetric("p2", 2, 17.8)
	m2.CoefficientOfVariation = nil

	require.NoError(t, store.InsertBulk(ctx, []*domain.SeasonMetric{m2, m1}))

	metrics, err := store.GetBySeason(ctx, 2023)
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	// Ordered by (position, position_rank, player_id)
	assert.Equal(t, "p1", metrics[0].PlayerID)
	assert.Equal(t, 1, metrics[0].PositionRank)

	require.NotNil(t, metrics[0].BoomRate)
	assert.InDelta(t, 0.4, *metrics[0].BoomRate, 0.0001)
	assert.Nil(t, metrics[1].CoefficientOfVariation)
}

func TestSeasonMetricStore_InsertBulkDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSeasonMetricStore(conn)

	require.NoError(t, store.InsertBulk(ctx, []*domain.SeasonMetric{seasonMetric("p1", 1, 22.4)}))

	err := store.InsertBulk(ctx, []*domain.SeasonMetric{seasonMetric("p1", 1, 19.0)})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}
