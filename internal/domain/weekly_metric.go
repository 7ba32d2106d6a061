package domain

// WeeklyMetric represents derived per-player, per-week metrics.
// Corresponds to the metrics_player_weekly table.
//
// All derived ratio fields are nullable: a zero denominator means the
// ratio is undefined, never 0.0. A zero-attempt passer has no
// yards-per-attempt, not a yards-per-attempt of zero.
type WeeklyMetric struct {
	PlayerID   string
	PlayerName string
	Position   string
	Team       string
	Season     int
	Week       int

	FantasyPoints    float64
	FantasyPointsPPR float64

	// Passing efficiency, NULL when attempts == 0
	YardsPerAttempt *float64
	TDRate          *float64 // passing TDs / attempts
	IntRate         *float64 // interceptions / attempts

	// Rushing efficiency, NULL when carries == 0
	YardsPerCarry *float64

	// Receiving efficiency, NULL when targets (or receptions) == 0
	CatchRate         *float64 // receptions / targets
	YardsPerTarget    *float64
	YardsPerReception *float64 // NULL when receptions == 0

	// Opportunity
	Touches       int // carries + receptions
	Opportunities int // carries + targets

	// Usage, NULL when team snap total is unknown or zero
	SnapShare *float64

	// Trailing PPR average over the most recent <=4 weeks strictly
	// before this one, within the same season. NULL on a player's
	// first observed week.
	RollingPPR *float64

	// Trailing snap share average over the same window, skipping weeks
	// whose snap share is NULL. NULL on a player's first observed week
	// or when no prior week in the window has a snap share.
	RollingSnapShare *float64

	// Current PPR minus the previous observed week's PPR within the
	// same season. NULL on a player's first observed week.
	WeekOverWeekPPR *float64

	// Dense rank by descending PPR within (season, week, position).
	// Tied scores share a rank; the next distinct score takes the
	// next integer.
	PositionRank int
}
