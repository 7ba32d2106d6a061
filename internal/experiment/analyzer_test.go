package experiment

import (
	"context"
	"errors"
	"testing"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage/memory"
)

// buildExperiment constructs a balanced two-arm dataset with a strong
// treatment effect on claim rate.
func buildExperiment(usersPerArm, weeks int) ([]*domain.Assignment, []*domain.EventRecord) {
	var assignments []*domain.Assignment
	var events []*domain.EventRecord

	uid := int64(0)
	addArm := func(arm string, claimEvery int) {
		for i := 0; i < usersPerArm; i++ {
			uid++
			assignments = append(assignments,
				assignment(uid, arm, domain.UserTypeReturning, domain.LeagueTypePPR))
			for w := 0; w < weeks; w++ {
				e := event(uid, arm, 3+w)
				e.SetLineup = true
				if i%claimEvery == 0 {
					e.MadeClaim = true
					e.NumClaims = 2
				}
				events = append(events, e)
			}
		}
	}
	addArm(domain.ArmControl, 5)   // 20% weekly claim rate
	addArm(domain.ArmTreatment, 2) // 50% weekly claim rate

	return assignments, events
}

func TestAnalyze_FullReport(t *testing.T) {
	assignments, events := buildExperiment(500, 4)

	report, err := Analyze(assignments, events, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.WeekStart != 3 || report.WeekEnd != 6 {
		t.Errorf("week range = %d-%d, want 3-6", report.WeekStart, report.WeekEnd)
	}
	if report.Alpha != 0.05 {
		t.Errorf("alpha = %v, want default 0.05", report.Alpha)
	}

	if report.SRM.Mismatch {
		t.Error("balanced arms must pass the SRM gate")
	}
	if len(report.ValidityWarnings) != 0 {
		t.Errorf("unexpected warnings: %v", report.ValidityWarnings)
	}

	if report.ClaimRate.Stats == nil {
		t.Fatal("expected claim rate stats")
	}
	if !report.ClaimRate.Stats.Significant {
		t.Error("30-point claim rate lift at n=2000 user-weeks must be significant")
	}
	if report.ClaimRate.Metric != MetricClaimRate {
		t.Errorf("metric = %s, want %s", report.ClaimRate.Metric, MetricClaimRate)
	}

	// ClaimsPerUser is a Welch test: must carry degrees of freedom.
	if report.ClaimsPerUser.Stats == nil || report.ClaimsPerUser.Stats.DF == nil {
		t.Fatal("expected Welch stats with degrees of freedom")
	}
	if report.ClaimsPerUser.NControl != 500 || report.ClaimsPerUser.NTreatment != 500 {
		t.Errorf("Welch grain must be per-user: %d/%d",
			report.ClaimsPerUser.NControl, report.ClaimsPerUser.NTreatment)
	}

	// Lineup rate identical across arms.
	if report.LineupRate.Stats == nil {
		t.Fatal("expected lineup rate stats")
	}
	if report.LineupRate.Stats.Significant {
		t.Error("identical lineup rates must not be significant")
	}

	if len(report.Novelty) != 4 {
		t.Errorf("novelty rows = %d, want 4", len(report.Novelty))
	}
	// user_type and league_type each contribute one segment here.
	if len(report.Segments) != 2 {
		t.Errorf("segments = %d, want 2", len(report.Segments))
	}

	if report.Power.NPerArm != 2000 {
		t.Errorf("power n per arm = %d, want 2000", report.Power.NPerArm)
	}
	if report.Power.AchievedPower <= 0.9 {
		t.Errorf("achieved power = %v, want > 0.9 for this effect", report.Power.AchievedPower)
	}
}

func TestAnalyze_SRMWarningDoesNotSuppressTests(t *testing.T) {
	assignments, events := buildExperiment(500, 2)
	// Drop most of the control assignments (keep their events out too)
	// to force a gross imbalance.
	var skewed []*domain.Assignment
	dropped := make(map[int64]bool)
	kept := 0
	for _, a := range assignments {
		if a.Arm == domain.ArmControl {
			kept++
			if kept > 300 {
				dropped[a.UserID] = true
				continue
			}
		}
		skewed = append(skewed, a)
	}
	var keptEvents []*domain.EventRecord
	for _, e := range events {
		if !dropped[e.UserID] {
			keptEvents = append(keptEvents, e)
		}
	}

	report, err := Analyze(skewed, keptEvents, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.SRM.Mismatch {
		t.Fatal("300/500 split must trip the SRM gate")
	}
	if len(report.ValidityWarnings) == 0 {
		t.Error("SRM mismatch must surface a validity warning")
	}
	// Downstream results still present.
	if report.ClaimRate.Stats == nil || report.ClaimsPerUser.Stats == nil {
		t.Error("SRM mismatch must not suppress outcome tests")
	}
}

func TestAnalyze_NoAssignments(t *testing.T) {
	_, err := Analyze(nil, nil, Options{})
	if !errors.Is(err, ErrNoAssignments) {
		t.Errorf("expected ErrNoAssignments, got %v", err)
	}
}

func TestAnalyze_NoEventsDegenerate(t *testing.T) {
	assignments := []*domain.Assignment{
		assignment(1, domain.ArmControl, domain.UserTypeReturning, domain.LeagueTypePPR),
		assignment(2, domain.ArmTreatment, domain.UserTypeReturning, domain.LeagueTypePPR),
	}

	report, err := Analyze(assignments, nil, Options{})
	if err != nil {
		t.Fatalf("assignments without events must not error: %v", err)
	}
	if report.ClaimRate.Stats != nil {
		t.Error("no events means a degenerate claim rate test")
	}
	if report.SRM.NControl != 1 || report.SRM.NTreatment != 1 {
		t.Errorf("SRM counts = %d/%d", report.SRM.NControl, report.SRM.NTreatment)
	}
}

func TestAnalyze_UnknownArmAborts(t *testing.T) {
	assignments := []*domain.Assignment{
		{UserID: 1, Arm: "holdout", UserType: domain.UserTypeReturning, LeagueType: domain.LeagueTypePPR, Season: 2023},
	}
	_, err := Analyze(assignments, nil, Options{})
	var shapeErr *domain.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Errorf("expected shape error for unknown arm, got %v", err)
	}
}

func TestAnalyzer_RunLoadsFromStores(t *testing.T) {
	ctx := context.Background()
	assignments, events := buildExperiment(100, 2)

	assignmentStore := memory.NewAssignmentStore()
	eventStore := memory.NewEventStore()
	if err := assignmentStore.InsertBulk(ctx, assignments); err != nil {
		t.Fatalf("insert assignments: %v", err)
	}
	if err := eventStore.InsertBulk(ctx, events); err != nil {
		t.Fatalf("insert events: %v", err)
	}

	a := NewAnalyzer(assignmentStore, eventStore, Options{})
	report, err := a.Run(ctx, 2023)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Season != 2023 {
		t.Errorf("season = %d, want 2023", report.Season)
	}
	if report.SRM.NControl+report.SRM.NTreatment != 200 {
		t.Errorf("users = %d, want 200", report.SRM.NControl+report.SRM.NTreatment)
	}
}
