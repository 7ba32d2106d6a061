package domain

// PositionBaseline represents the "startable" scoring baseline for one
// (season, week, position). Corresponds to metrics_position_baseline.
type PositionBaseline struct {
	Season   int
	Week     int
	Position string

	// StartablePool is the configured top-N cutoff for the position.
	StartablePool int

	// PlayersWithData counts players that actually posted a stat line
	// that week; may be below StartablePool late in a season.
	PlayersWithData int

	// AvgPPRStartable averages PPR over the top-N (or fewer) players.
	AvgPPRStartable float64

	AvgPPRAll float64
	MaxPPR    float64
}
