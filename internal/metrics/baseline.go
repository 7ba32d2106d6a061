package metrics

import (
	"sort"

	"fantasy-analytics/internal/domain"
)

// ComputeBaselines derives one PositionBaseline per (season, week,
// position) from weekly metrics.
//
// The baseline averages PPR over the top-N players by that week's
// score, where N is the position's configured startable pool. When
// fewer than N players posted a stat line, the average covers however
// many are available; it is never padded with zeros. Positions without
// a configured pool are skipped.
//
// Output is sorted by (season, week, position).
func ComputeBaselines(weekly []*domain.WeeklyMetric, pools map[string]int) []*domain.PositionBaseline {
	groups := make(map[rankKey][]*domain.WeeklyMetric)
	for _, m := range weekly {
		if _, ok := pools[m.Position]; !ok {
			continue
		}
		k := rankKey{m.Season, m.Week, m.Position}
		groups[k] = append(groups[k], m)
	}

	out := make([]*domain.PositionBaseline, 0, len(groups))
	for k, group := range groups {
		pool := pools[k.position]

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].FantasyPointsPPR > group[j].FantasyPointsPPR
		})

		cut := pool
		if cut > len(group) {
			cut = len(group)
		}

		b := &domain.PositionBaseline{
			Season:          k.season,
			Week:            k.week,
			Position:        k.position,
			StartablePool:   pool,
			PlayersWithData: len(group),
			MaxPPR:          group[0].FantasyPointsPPR,
		}

		sumAll := 0.0
		for _, m := range group {
			sumAll += m.FantasyPointsPPR
		}
		b.AvgPPRAll = sumAll / float64(len(group))

		sumTop := 0.0
		for _, m := range group[:cut] {
			sumTop += m.FantasyPointsPPR
		}
		b.AvgPPRStartable = sumTop / float64(cut)

		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].Position < out[j].Position
	})

	return out
}
