package experiment

import (
	"sort"

	"fantasy-analytics/internal/domain"
)

// BuildNoveltyTable produces the descriptive week-by-week claim rate
// table used to spot a decaying treatment effect. No significance test
// is applied per week; the table is ordered by week ascending.
func BuildNoveltyTable(events []*domain.EventRecord) []domain.NoveltyRow {
	type tally struct {
		claimsC, nC int
		claimsT, nT int
	}

	byWeek := make(map[int]*tally)
	for _, e := range events {
		t, ok := byWeek[e.Week]
		if !ok {
			t = &tally{}
			byWeek[e.Week] = t
		}
		switch e.Arm {
		case domain.ArmControl:
			t.nC++
			if e.MadeClaim {
				t.claimsC++
			}
		case domain.ArmTreatment:
			t.nT++
			if e.MadeClaim {
				t.claimsT++
			}
		}
	}

	weeks := make([]int, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	rows := make([]domain.NoveltyRow, 0, len(weeks))
	for _, w := range weeks {
		t := byWeek[w]
		row := domain.NoveltyRow{Week: w}
		if t.nC > 0 {
			row.ControlRate = float64(t.claimsC) / float64(t.nC)
		}
		if t.nT > 0 {
			row.TreatmentRate = float64(t.claimsT) / float64(t.nT)
		}
		row.LiftAbs = row.TreatmentRate - row.ControlRate
		if row.ControlRate != 0 {
			rel := row.LiftAbs / row.ControlRate
			row.LiftRel = &rel
		}
		rows = append(rows, row)
	}
	return rows
}
