package experiment

import (
	"sort"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/stats"
)

// Segment dimensions analyzed by the engine.
const (
	SegmentUserType   = "user_type"
	SegmentLeagueType = "league_type"
)

// AnalyzeSegments runs the claim-rate proportion test restricted to
// each distinct value of the given segment dimension, at user-week
// grain. Segments below minSegmentSize per arm are still computed but
// flagged low-confidence; a segment with an empty arm yields a
// degenerate (nil Stats) result rather than being suppressed.
//
// Results are ordered by segment value for deterministic output.
func AnalyzeSegments(events []*domain.EventRecord, dimension string, alpha float64, minSegmentSize int) []domain.SegmentResult {
	type tally struct {
		claimsC, nC int
		claimsT, nT int
	}

	byValue := make(map[string]*tally)
	for _, e := range events {
		var value string
		switch dimension {
		case SegmentUserType:
			value = e.UserType
		case SegmentLeagueType:
			value = e.LeagueType
		default:
			continue
		}

		t, ok := byValue[value]
		if !ok {
			t = &tally{}
			byValue[value] = t
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

	values := make([]string, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
	}
	sort.Strings(values)

	out := make([]domain.SegmentResult, 0, len(values))
	for _, v := range values {
		t := byValue[v]
		res := stats.ProportionTest(dimension+"="+v, t.claimsC, t.nC, t.claimsT, t.nT, alpha)
		out = append(out, domain.SegmentResult{
			Segment:       dimension,
			Value:         v,
			Result:        res,
			LowConfidence: t.nC < minSegmentSize || t.nT < minSegmentSize,
		})
	}
	return out
}
