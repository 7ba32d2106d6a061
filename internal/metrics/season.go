package metrics

import (
	"math"
	"sort"

	"fantasy-analytics/internal/domain"
)

// ComputeSeasonMetrics aggregates weekly metrics into one SeasonMetric
// per (player, season).
//
// Boom/bust classification uses position-specific thresholds: a game at
// or above the boom threshold counts toward boom rate, at or below the
// bust threshold toward bust rate. Positions without configured
// thresholds get nil rates.
//
// The coefficient of variation divides the population standard
// deviation of per-game PPR by the mean; it is nil when games played
// < 2 or when the mean is zero, never infinity.
//
// Output is sorted by (season, position, rank, player_id).
func ComputeSeasonMetrics(weekly []*domain.WeeklyMetric, boomThresholds, bustThresholds map[string]float64) []*domain.SeasonMetric {
	grouped := make(map[playerSeasonKey][]*domain.WeeklyMetric)
	order := make([]playerSeasonKey, 0)
	for _, m := range weekly {
		k := playerSeasonKey{m.PlayerID, m.Season}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], m)
	}

	out := make([]*domain.SeasonMetric, 0, len(order))
	for _, k := range order {
		games := grouped[k]
		sort.Slice(games, func(i, j int) bool { return games[i].Week < games[j].Week })
		out = append(out, aggregateSeason(games, boomThresholds, bustThresholds))
	}

	applySeasonRanks(out)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		if out[i].PositionRank != out[j].PositionRank {
			return out[i].PositionRank < out[j].PositionRank
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	return out
}

// aggregateSeason computes one player-season row. games must be
// non-empty and sorted by week ascending.
func aggregateSeason(games []*domain.WeeklyMetric, boomThresholds, bustThresholds map[string]float64) *domain.SeasonMetric {
	first := games[0]
	last := games[len(games)-1]
	n := len(games)

	sm := &domain.SeasonMetric{
		PlayerID:    first.PlayerID,
		PlayerName:  first.PlayerName,
		Position:    first.Position,
		Team:        last.Team,
		Season:      first.Season,
		GamesPlayed: n,
		CeilingPPR:  math.Inf(-1),
		FloorPPR:    math.Inf(1),
	}

	booms := 0
	busts := 0
	boomThresh, hasBoom := boomThresholds[first.Position]
	bustThresh, hasBust := bustThresholds[first.Position]

	for _, g := range games {
		ppr := g.FantasyPointsPPR
		sm.TotalFantasyPts += g.FantasyPoints
		sm.TotalPPR += ppr
		if ppr > sm.CeilingPPR {
			sm.CeilingPPR = ppr
		}
		if ppr < sm.FloorPPR {
			sm.FloorPPR = ppr
		}
		if hasBoom && ppr >= boomThresh {
			booms++
		}
		if hasBust && ppr <= bustThresh {
			busts++
		}
	}

	sm.AvgPPRPerGame = sm.TotalPPR / float64(n)

	if hasBoom {
		rate := float64(booms) / float64(n)
		sm.BoomRate = &rate
	}
	if hasBust {
		rate := float64(busts) / float64(n)
		sm.BustRate = &rate
	}

	sm.CoefficientOfVariation = coefficientOfVariation(games, sm.AvgPPRPerGame)

	return sm
}

// coefficientOfVariation returns population stddev / mean, nil when
// games < 2 or mean == 0.
func coefficientOfVariation(games []*domain.WeeklyMetric, mean float64) *float64 {
	n := len(games)
	if n < 2 || mean == 0 {
		return nil
	}
	sumSq := 0.0
	for _, g := range games {
		d := g.FantasyPointsPPR - mean
		sumSq += d * d
	}
	cv := math.Sqrt(sumSq/float64(n)) / mean
	return &cv
}

// seasonRankKey groups season rows for positional ranking.
type seasonRankKey struct {
	season   int
	position string
}

// applySeasonRanks assigns dense ranks by descending average PPR within
// (season, position).
func applySeasonRanks(seasons []*domain.SeasonMetric) {
	groups := make(map[seasonRankKey][]*domain.SeasonMetric)
	for _, s := range seasons {
		k := seasonRankKey{s.Season, s.Position}
		groups[k] = append(groups[k], s)
	}

	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].AvgPPRPerGame > group[j].AvgPPRPerGame
		})

		rank := 0
		prev := 0.0
		for i, s := range group {
			if i == 0 || s.AvgPPRPerGame != prev {
				rank++
				prev = s.AvgPPRPerGame
			}
			s.PositionRank = rank
		}
	}
}
