package domain

// Experiment arm identifiers.
const (
	ArmControl   = "control"
	ArmTreatment = "treatment"
)

// User segment values.
const (
	UserTypeNew       = "new"
	UserTypeReturning = "returning"

	LeagueTypeStandard = "standard"
	LeagueTypePPR      = "ppr"
	LeagueTypeDynasty  = "dynasty"
)

// Assignment represents a user's experiment arm assignment.
// Corresponds to the ab_assignments table: exactly one row per user,
// immutable once created.
type Assignment struct {
	UserID     int64
	Arm        string // ArmControl | ArmTreatment
	UserType   string
	LeagueType string
	Season     int
	StartWeek  int
}

// EventRecord represents one user's engagement outcomes for one week.
// Corresponds to the ab_events table: one row per (user, week).
type EventRecord struct {
	UserID     int64
	Arm        string
	UserType   string
	LeagueType string
	Season     int
	Week       int

	MadeClaim bool // claimed at least one waiver this week
	NumClaims int  // total waiver claims this week
	SetLineup bool // set lineup before lock
	Retained  bool // returned the following week
}

// UserOutcome aggregates a user's event rows to one row per user.
// MadeClaimAny/SetLineupAny are max over weeks, TotalClaims is the sum,
// Retained is the min (retained every observed week).
type UserOutcome struct {
	UserID     int64
	Arm        string
	UserType   string
	LeagueType string

	WeeksObserved int
	MadeClaimAny  bool
	TotalClaims   int
	SetLineupAny  bool
	Retained      bool
}
