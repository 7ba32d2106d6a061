package domain

// SeasonMetric represents season-level aggregates for one player.
// Corresponds to the metrics_player_season table.
type SeasonMetric struct {
	PlayerID   string
	PlayerName string
	Position   string
	Team       string // most recent team in the season
	Season     int

	GamesPlayed      int
	TotalFantasyPts  float64
	TotalPPR         float64
	AvgPPRPerGame    float64

	// BoomRate is the fraction of games at or above the position's
	// boom threshold; BustRate the fraction at or below the bust
	// threshold. NULL when the position has no configured thresholds.
	BoomRate *float64
	BustRate *float64

	// CoefficientOfVariation is population stddev / mean of per-game
	// PPR. NULL when games played < 2 or mean == 0.
	CoefficientOfVariation *float64

	CeilingPPR float64 // best single game
	FloorPPR   float64 // worst single game

	// Dense rank by descending AvgPPRPerGame within (season, position).
	PositionRank int
}
