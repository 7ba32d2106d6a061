package domain

// TestResult holds the outcome of one two-arm significance test.
// Rate/mean fields carry proportions for binary metrics and means for
// continuous metrics. A nil Stats pointer means the test was degenerate
// (an empty arm, or fewer than 2 observations for a mean test) and no
// numbers could be computed.
type TestResult struct {
	Metric string

	NControl   int
	NTreatment int

	// Stats is nil when the test is undefined for the given inputs.
	Stats *TestStats
}

// TestStats carries the numeric results of a non-degenerate test.
type TestStats struct {
	Control   float64 // control rate or mean
	Treatment float64 // treatment rate or mean

	LiftAbs float64  // treatment - control
	LiftRel *float64 // LiftAbs / Control, nil when Control == 0

	Statistic float64 // z or t
	DF        *float64 // Welch-Satterthwaite df, nil for z-tests
	PValue    float64

	CILower float64
	CIUpper float64

	// EffectSize is Cohen's h for proportions, Cohen's d for means.
	// Signed: positive when treatment exceeds control.
	EffectSize float64

	Significant bool // PValue < alpha
}

// SRMResult holds the sample ratio mismatch check outcome.
type SRMResult struct {
	NControl      int
	NTreatment    int
	ExpectedSplit float64 // expected control share, e.g. 0.5
	ChiSquare     float64
	PValue        float64
	Mismatch      bool // PValue < the SRM alpha (stricter than test alpha)
}

// NoveltyRow is one week of the descriptive week-by-week lift table.
type NoveltyRow struct {
	Week          int
	ControlRate   float64
	TreatmentRate float64
	LiftAbs       float64
	LiftRel       *float64 // nil when control rate is 0
}

// SegmentResult is a proportion test restricted to one segment value.
type SegmentResult struct {
	Segment string // segment dimension, e.g. "user_type"
	Value   string // segment value, e.g. "returning"
	Result  TestResult

	// LowConfidence is set when either arm has fewer user-week
	// observations than the configured minimum segment size. The
	// result is still computed.
	LowConfidence bool
}

// PowerResult holds post-hoc power and minimum detectable effect.
type PowerResult struct {
	NPerArm        int
	BaselineRate   float64
	ObservedEffect float64 // Cohen's h from the primary test
	AchievedPower  float64
	MDE            float64 // Cohen's h detectable at target power

	// Approximate is set when the baseline rate is near 0 or 1, where
	// the normal approximation degrades.
	Approximate bool
}

// ExperimentReport is the structured output of the experiment analysis
// engine: the SRM gate, the four named outcome tests, the novelty
// table, segment breakdowns, and power figures.
type ExperimentReport struct {
	Season     int
	WeekStart  int
	WeekEnd    int
	Alpha      float64

	SRM SRMResult

	// ValidityWarnings surfaces SRM failure and any low-sample
	// segments. Warnings never suppress results.
	ValidityWarnings []string

	ClaimRate     TestResult // primary: waiver claim rate per user-week
	ClaimsPerUser TestResult // secondary: total claims per user (Welch)
	LineupRate    TestResult // secondary: lineup set rate per user-week
	Retention     TestResult // secondary: full-season retention per user

	Novelty  []NoveltyRow
	Segments []SegmentResult

	Power PowerResult
}
