package domain

// PlayerGameRecord represents one player's stat line for one game.
// Corresponds to the player_game_stats fact table. Immutable: one row
// per (player_id, season, week).
type PlayerGameRecord struct {
	PlayerID   string
	PlayerName string
	Position   string
	Team       string
	Opponent   string
	Season     int
	Week       int

	// Passing
	Completions   int
	Attempts      int
	PassingYards  float64
	PassingTDs    int
	Interceptions int

	// Rushing
	Carries      int
	RushingYards float64
	RushingTDs   int

	// Receiving
	Targets        int
	Receptions     int
	ReceivingYards float64
	ReceivingTDs   int

	// Fantasy
	FantasyPoints    float64
	FantasyPointsPPR float64

	// Usage
	OffenseSnaps int
}

// TeamSnapRecord holds team-level offensive snap totals for one game.
// Corresponds to the team_snap_totals fact table.
type TeamSnapRecord struct {
	Team         string
	Season       int
	Week         int
	OffenseSnaps int
}

// Player represents the player dimension: one row per player_id.
type Player struct {
	PlayerID   string
	PlayerName string
	Position   string
	Team       string
	RookieYear int
}

// Skill positions covered by the metrics engine.
const (
	PositionQB = "QB"
	PositionRB = "RB"
	PositionWR = "WR"
	PositionTE = "TE"
)

// SkillPositions lists positions in canonical report order.
var SkillPositions = []string{PositionQB, PositionRB, PositionWR, PositionTE}
