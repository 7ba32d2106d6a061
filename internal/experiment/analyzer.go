package experiment

import (
	"context"
	"errors"
	"fmt"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/stats"
	"fantasy-analytics/internal/storage"
)

// ErrNoAssignments is returned when no assignment rows are available.
var ErrNoAssignments = errors.New("no assignments available for analysis")

// Metric names for the fixed outcome-test battery.
const (
	MetricClaimRate     = "waiver_claim_rate"
	MetricClaimsPerUser = "claims_per_user"
	MetricLineupRate    = "lineup_set_rate"
	MetricRetention     = "full_season_retention"
)

// Options configures an analysis run. Zero values are replaced with
// the conventional defaults.
type Options struct {
	Alpha                float64 // outcome test significance level (0.05)
	SRMAlpha             float64 // SRM gate threshold (0.01)
	TargetPower          float64 // power level for MDE (0.80)
	MinSegmentSize       int     // per-arm low-confidence cutoff (30)
	ExpectedControlShare float64 // expected control fraction (0.5)
}

func (o *Options) applyDefaults() {
	if o.Alpha == 0 {
		o.Alpha = 0.05
	}
	if o.SRMAlpha == 0 {
		o.SRMAlpha = 0.01
	}
	if o.TargetPower == 0 {
		o.TargetPower = 0.80
	}
	if o.MinSegmentSize == 0 {
		o.MinSegmentSize = 30
	}
	if o.ExpectedControlShare == 0 {
		o.ExpectedControlShare = 0.5
	}
}

// Analyzer runs the experiment analysis engine over stored assignment
// and event rows.
type Analyzer struct {
	assignmentStore storage.AssignmentStore
	eventStore      storage.EventStore
	opts            Options
}

// NewAnalyzer creates an analyzer wired to the given stores.
func NewAnalyzer(assignmentStore storage.AssignmentStore, eventStore storage.EventStore, opts Options) *Analyzer {
	opts.applyDefaults()
	return &Analyzer{
		assignmentStore: assignmentStore,
		eventStore:      eventStore,
		opts:            opts,
	}
}

// Run loads assignments and events for a season and produces the full
// experiment report.
func (a *Analyzer) Run(ctx context.Context, season int) (*domain.ExperimentReport, error) {
	assignments, err := a.assignmentStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	events, err := a.eventStore.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	report, err := Analyze(assignments, events, a.opts)
	if err != nil {
		return nil, err
	}
	report.Season = season
	return report, nil
}

// Analyze runs the fixed test battery over in-memory tables.
//
// The SRM check is a gate, not a filter: a mismatch is surfaced as a
// prominent validity warning while every downstream test still runs.
// Degenerate statistics (empty arms, tiny samples) appear as nil
// result fields, never as errors; only a structurally invalid input
// table aborts the run.
func Analyze(assignments []*domain.Assignment, events []*domain.EventRecord, opts Options) (*domain.ExperimentReport, error) {
	opts.applyDefaults()

	if len(assignments) == 0 {
		return nil, ErrNoAssignments
	}

	users, err := BuildUserOutcomes(assignments, events)
	if err != nil {
		return nil, err
	}

	report := &domain.ExperimentReport{Alpha: opts.Alpha}

	for _, e := range events {
		if report.WeekStart == 0 || e.Week < report.WeekStart {
			report.WeekStart = e.Week
		}
		if e.Week > report.WeekEnd {
			report.WeekEnd = e.Week
		}
	}

	// SRM gate over assignment counts.
	nControl := 0
	nTreatment := 0
	for _, asg := range assignments {
		switch asg.Arm {
		case domain.ArmControl:
			nControl++
		case domain.ArmTreatment:
			nTreatment++
		default:
			return nil, domain.NewShapeError("ab_assignments", fmt.Sprintf("user=%d", asg.UserID), "unknown arm "+asg.Arm)
		}
	}
	report.SRM = stats.SRMCheck(nControl, nTreatment, opts.ExpectedControlShare, opts.SRMAlpha)
	if report.SRM.Mismatch {
		report.ValidityWarnings = append(report.ValidityWarnings, fmt.Sprintf(
			"sample ratio mismatch: %d/%d vs expected %.0f/%.0f split (p=%.5f) - results unreliable",
			nControl, nTreatment,
			opts.ExpectedControlShare*100, (1-opts.ExpectedControlShare)*100,
			report.SRM.PValue))
	}

	// Event-grain tallies for the per-user-week proportion tests.
	var claimsC, eventsC, claimsT, eventsT int
	var lineupC, lineupT int
	for _, e := range events {
		switch e.Arm {
		case domain.ArmControl:
			eventsC++
			if e.MadeClaim {
				claimsC++
			}
			if e.SetLineup {
				lineupC++
			}
		case domain.ArmTreatment:
			eventsT++
			if e.MadeClaim {
				claimsT++
			}
			if e.SetLineup {
				lineupT++
			}
		}
	}

	report.ClaimRate = stats.ProportionTest(MetricClaimRate, claimsC, eventsC, claimsT, eventsT, opts.Alpha)
	report.LineupRate = stats.ProportionTest(MetricLineupRate, lineupC, eventsC, lineupT, eventsT, opts.Alpha)

	// User-grain outcomes: total claims (continuous) and retention.
	var claimValuesC, claimValuesT []float64
	var retainedC, usersC, retainedT, usersT int
	for _, u := range users {
		switch u.Arm {
		case domain.ArmControl:
			usersC++
			claimValuesC = append(claimValuesC, float64(u.TotalClaims))
			if u.Retained {
				retainedC++
			}
		case domain.ArmTreatment:
			usersT++
			claimValuesT = append(claimValuesT, float64(u.TotalClaims))
			if u.Retained {
				retainedT++
			}
		}
	}

	report.ClaimsPerUser = stats.WelchTest(MetricClaimsPerUser, claimValuesC, claimValuesT, opts.Alpha)
	report.Retention = stats.ProportionTest(MetricRetention, retainedC, usersC, retainedT, usersT, opts.Alpha)

	report.Novelty = BuildNoveltyTable(events)

	report.Segments = append(report.Segments,
		AnalyzeSegments(events, SegmentUserType, opts.Alpha, opts.MinSegmentSize)...)
	report.Segments = append(report.Segments,
		AnalyzeSegments(events, SegmentLeagueType, opts.Alpha, opts.MinSegmentSize)...)
	for _, seg := range report.Segments {
		if seg.LowConfidence {
			report.ValidityWarnings = append(report.ValidityWarnings,
				fmt.Sprintf("segment %s=%s below minimum sample size (%d per arm)", seg.Segment, seg.Value, opts.MinSegmentSize))
		}
	}

	// Power analysis keys off the primary metric's observed effect.
	nPerArm := eventsC
	if eventsT < nPerArm {
		nPerArm = eventsT
	}
	baseline := 0.0
	effect := 0.0
	if report.ClaimRate.Stats != nil {
		baseline = report.ClaimRate.Stats.Control
		effect = report.ClaimRate.Stats.EffectSize
	}
	report.Power = stats.PowerAnalysis(baseline, effect, nPerArm, opts.Alpha, opts.TargetPower)

	return report, nil
}
