package experiment

import (
	"math"
	"testing"

	"fantasy-analytics/internal/domain"
)

func claimEvent(userID int64, arm string, week int, claimed bool) *domain.EventRecord {
	e := event(userID, arm, week)
	e.MadeClaim = claimed
	return e
}

func TestBuildNoveltyTable_WeeklyRates(t *testing.T) {
	events := []*domain.EventRecord{
		// Week 3: control 1/2, treatment 2/2.
		claimEvent(1, domain.ArmControl, 3, true),
		claimEvent(2, domain.ArmControl, 3, false),
		claimEvent(3, domain.ArmTreatment, 3, true),
		claimEvent(4, domain.ArmTreatment, 3, true),
		// Week 4: control 0/2, treatment 1/2.
		claimEvent(1, domain.ArmControl, 4, false),
		claimEvent(2, domain.ArmControl, 4, false),
		claimEvent(3, domain.ArmTreatment, 4, true),
		claimEvent(4, domain.ArmTreatment, 4, false),
	}

	rows := BuildNoveltyTable(events)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].Week != 3 || rows[1].Week != 4 {
		t.Errorf("weeks = %d, %d, want 3, 4", rows[0].Week, rows[1].Week)
	}

	if rows[0].ControlRate != 0.5 || rows[0].TreatmentRate != 1.0 {
		t.Errorf("week 3 rates = %v/%v, want 0.5/1.0", rows[0].ControlRate, rows[0].TreatmentRate)
	}
	if math.Abs(rows[0].LiftAbs-0.5) > 1e-12 {
		t.Errorf("week 3 lift = %v, want 0.5", rows[0].LiftAbs)
	}
	if rows[0].LiftRel == nil || math.Abs(*rows[0].LiftRel-1.0) > 1e-12 {
		t.Errorf("week 3 relative lift = %v, want 1.0", rows[0].LiftRel)
	}

	// Week 4's control rate is zero: relative lift undefined.
	if rows[1].ControlRate != 0 {
		t.Errorf("week 4 control rate = %v, want 0", rows[1].ControlRate)
	}
	if rows[1].LiftRel != nil {
		t.Error("relative lift must be nil for a zero control rate")
	}
}

func TestBuildNoveltyTable_Empty(t *testing.T) {
	rows := BuildNoveltyTable(nil)
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
