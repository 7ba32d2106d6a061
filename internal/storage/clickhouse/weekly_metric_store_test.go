package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

func weeklyMetric(playerID string, week int, ppr float64) *domain.WeeklyMetric {
	return &domain.WeeklyMetric{
		PlayerID:         playerID,
		PlayerName:       "Player " + playerID,
		Position:         domain.PositionWR,
		Team:             "DET",
		Season:           2023,
		Week:             week,
		FantasyPoints:    ppr - 4,
		FantasyPointsPPR: ppr,
		CatchRate:        ptr(0.75),
		YardsPerTarget:   ptr(9.1),
		Touches:          6,
		Opportunities:    8,
		SnapShare:        ptr(0.88),
		PositionRank:     1,
	}
}

func TestWeeklyMetricStore_InsertBulkAndGetBySeason(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewWeeklyMetricStore(conn)

	m1 := weeklyMetric("p1", 1, 21.5)
	m1.RollingSnapShare = ptr(0.81)
	m2 := weeklyMetric("p2", 1, 14.2)
	m2.PositionRank = 2
	m2.RollingPPR = nil
	m2.SnapShare = nil

	require.NoError(t, store.InsertBulk(ctx, []*domain.WeeklyMetric{m1, m2}))

	metrics, err := store.GetBySeason(ctx, 2023)
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	// Ordered by (week, position, position_rank, player_id)
	assert.Equal(t, "p1", metrics[0].PlayerID)
	assert.Equal(t, "p2", metrics[1].PlayerID)

	// Nullable columns round-trip
	require.NotNil(t, metrics[0].CatchRate)
	assert.InDelta(t, 0.75, *metrics[0].CatchRate, 0.0001)
	assert.Nil(t, metrics[0].RollingPPR)
	require.NotNil(t, metrics[0].RollingSnapShare)
	assert.InDelta(t, 0.81, *metrics[0].RollingSnapShare, 0.0001)
	assert.Nil(t, metrics[1].SnapShare)
	assert.Nil(t, metrics[1].RollingSnapShare)
}

func TestWeeklyMetricStore_InsertBulkIntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewWeeklyMetricStore(conn)

	batch := []*domain.WeeklyMetric{
		weeklyMetric("p1", 1, 21.5),
		weeklyMetric("p1", 1, 18.0),
	}
	err := store.InsertBulk(ctx, batch)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestWeeklyMetricStore_InsertBulkExistingDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewWeeklyMetricStore(conn)

	require.NoError(t, store.InsertBulk(ctx, []*domain.WeeklyMetric{weeklyMetric("p1", 1, 21.5)}))

	err := store.InsertBulk(ctx, []*domain.WeeklyMetric{weeklyMetric("p1", 1, 18.0)})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestWeeklyMetricStore_DeleteBySeason(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewWeeklyMetricStore(conn)

	require.NoError(t, store.InsertBulk(ctx, []*domain.WeeklyMetric{weeklyMetric("p1", 1, 21.5)}))
	require.NoError(t, store.DeleteBySeason(ctx, 2023))

	// Mutations are async; poll briefly for the delete to land
	assert.Eventually(t, func() bool {
		metrics, err := store.GetBySeason(ctx, 2023)
		return err == nil && len(metrics) == 0
	}, 10*time.Second, 200*time.Millisecond)
}
