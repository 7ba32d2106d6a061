package metrics

import (
	"fmt"
	"sort"

	"fantasy-analytics/internal/domain"
)

// snapKey identifies a team's offensive snap total for one game.
type snapKey struct {
	team   string
	season int
	week   int
}

// playerSeasonKey groups rows for rolling-window computations.
type playerSeasonKey struct {
	playerID string
	season   int
}

// rankKey groups rows for positional ranking.
type rankKey struct {
	season   int
	week     int
	position string
}

// ComputeWeeklyMetrics derives one WeeklyMetric per (player, week) from
// player game records and team snap totals.
//
// Rules:
//   - every efficiency ratio is nil when its denominator is zero
//   - rolling PPR and rolling snap share average the most recent
//     <=window weeks strictly before the current one within the same
//     season; nil on a player's first observed week, and rolling snap
//     share skips weeks whose own snap share is nil
//   - week-over-week delta subtracts the previous observed week's PPR;
//     nil on the first observed week
//   - snap share is player snaps / team snaps, nil when the team total
//     is unknown or zero
//   - positional rank is a dense rank by descending PPR within
//     (season, week, position); ties share a rank
//
// Output preserves input ordering, so reruns over identical input are
// byte-identical. A duplicate (player, season, week) or a row missing
// its identity fields is a shape error.
func ComputeWeeklyMetrics(records []*domain.PlayerGameRecord, teamSnaps []*domain.TeamSnapRecord, window int) ([]*domain.WeeklyMetric, error) {
	if window < 1 {
		window = 1
	}

	snaps := make(map[snapKey]int, len(teamSnaps))
	for _, ts := range teamSnaps {
		if ts.Team == "" {
			return nil, domain.NewShapeError("team_snap_totals", fmt.Sprintf("season=%d week=%d", ts.Season, ts.Week), "missing team")
		}
		snaps[snapKey{ts.Team, ts.Season, ts.Week}] = ts.OffenseSnaps
	}

	seen := make(map[string]struct{}, len(records))
	out := make([]*domain.WeeklyMetric, 0, len(records))
	for _, r := range records {
		if err := validateRecord(r); err != nil {
			return nil, err
		}
		id := fmt.Sprintf("%s|%d|%d", r.PlayerID, r.Season, r.Week)
		if _, dup := seen[id]; dup {
			return nil, domain.NewShapeError("player_game_stats", id, "duplicate (player, season, week)")
		}
		seen[id] = struct{}{}

		m := &domain.WeeklyMetric{
			PlayerID:         r.PlayerID,
			PlayerName:       r.PlayerName,
			Position:         r.Position,
			Team:             r.Team,
			Season:           r.Season,
			Week:             r.Week,
			FantasyPoints:    r.FantasyPoints,
			FantasyPointsPPR: r.FantasyPointsPPR,

			YardsPerAttempt: ratio(r.PassingYards, r.Attempts),
			TDRate:          ratio(float64(r.PassingTDs), r.Attempts),
			IntRate:         ratio(float64(r.Interceptions), r.Attempts),
			YardsPerCarry:   ratio(r.RushingYards, r.Carries),

			CatchRate:         ratio(float64(r.Receptions), r.Targets),
			YardsPerTarget:    ratio(r.ReceivingYards, r.Targets),
			YardsPerReception: ratio(r.ReceivingYards, r.Receptions),

			Touches:       r.Carries + r.Receptions,
			Opportunities: r.Carries + r.Targets,
		}

		if team, ok := snaps[snapKey{r.Team, r.Season, r.Week}]; ok && team > 0 {
			share := float64(r.OffenseSnaps) / float64(team)
			m.SnapShare = &share
		}

		out = append(out, m)
	}

	applyRollingWindows(out, window)
	applyPositionRanks(out)

	return out, nil
}

func validateRecord(r *domain.PlayerGameRecord) error {
	key := fmt.Sprintf("%s|%d|%d", r.PlayerID, r.Season, r.Week)
	switch {
	case r.PlayerID == "":
		return domain.NewShapeError("player_game_stats", key, "missing player_id")
	case r.Position == "":
		return domain.NewShapeError("player_game_stats", key, "missing position")
	case r.Week < 1:
		return domain.NewShapeError("player_game_stats", key, "week must be >= 1")
	case r.Attempts < 0 || r.Carries < 0 || r.Targets < 0 || r.Receptions < 0:
		return domain.NewShapeError("player_game_stats", key, "negative count")
	}
	return nil
}

// ratio guards num/den so a zero denominator yields nil, never 0 or a
// divide fault.
func ratio(num float64, den int) *float64 {
	if den <= 0 {
		return nil
	}
	v := num / float64(den)
	return &v
}

// applyRollingWindows fills RollingPPR, RollingSnapShare, and
// WeekOverWeekPPR by walking each player's season in week order. The
// window anchors strictly on prior weeks; partial history averages
// over what exists.
func applyRollingWindows(metrics []*domain.WeeklyMetric, window int) {
	bySeason := make(map[playerSeasonKey][]*domain.WeeklyMetric)
	for _, m := range metrics {
		k := playerSeasonKey{m.PlayerID, m.Season}
		bySeason[k] = append(bySeason[k], m)
	}

	for _, seq := range bySeason {
		sort.Slice(seq, func(i, j int) bool { return seq[i].Week < seq[j].Week })

		for i, m := range seq {
			if i == 0 {
				continue // first observed week: both stay nil
			}

			delta := m.FantasyPointsPPR - seq[i-1].FantasyPointsPPR
			m.WeekOverWeekPPR = &delta

			lo := i - window
			if lo < 0 {
				lo = 0
			}
			sum := 0.0
			snapSum := 0.0
			snapN := 0
			for _, prior := range seq[lo:i] {
				sum += prior.FantasyPointsPPR
				if prior.SnapShare != nil {
					snapSum += *prior.SnapShare
					snapN++
				}
			}
			avg := sum / float64(i-lo)
			m.RollingPPR = &avg
			if snapN > 0 {
				snapAvg := snapSum / float64(snapN)
				m.RollingSnapShare = &snapAvg
			}
		}
	}
}

// applyPositionRanks assigns dense ranks by descending PPR within each
// (season, week, position). The sort is stable so tied players keep
// input order, and ties share a rank: scores 30, 30, 25 rank 1, 1, 2.
func applyPositionRanks(metrics []*domain.WeeklyMetric) {
	groups := make(map[rankKey][]*domain.WeeklyMetric)
	for _, m := range metrics {
		k := rankKey{m.Season, m.Week, m.Position}
		groups[k] = append(groups[k], m)
	}

	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].FantasyPointsPPR > group[j].FantasyPointsPPR
		})

		rank := 0
		prev := 0.0
		for i, m := range group {
			if i == 0 || m.FantasyPointsPPR != prev {
				rank++
				prev = m.FantasyPointsPPR
			}
			m.PositionRank = rank
		}
	}
}
