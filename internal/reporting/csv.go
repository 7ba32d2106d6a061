package reporting

import (
	"fmt"
	"strings"

	"fantasy-analytics/internal/domain"
)

// RenderWeeklyCSV renders weekly metrics as CSV. Nullable metrics are
// emitted as empty cells, never as zeros.
func RenderWeeklyCSV(metrics []*domain.WeeklyMetric) string {
	var sb strings.Builder

	sb.WriteString("player_id,player_name,position,team,season,week,")
	sb.WriteString("fantasy_points,fantasy_points_ppr,")
	sb.WriteString("yards_per_attempt,td_rate,int_rate,yards_per_carry,")
	sb.WriteString("catch_rate,yards_per_target,yards_per_reception,")
	sb.WriteString("touches,opportunities,snap_share,")
	sb.WriteString("rolling_ppr,rolling_snap_share,week_over_week_ppr,position_rank\n")

	for _, m := range metrics {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%d,%.4f,%.4f,%s,%s,%s,%s,%s,%s,%s,%d,%d,%s,%s,%s,%s,%d\n",
			m.PlayerID, csvEscape(m.PlayerName), m.Position, m.Team, m.Season, m.Week,
			m.FantasyPoints, m.FantasyPointsPPR,
			nullableCell(m.YardsPerAttempt), nullableCell(m.TDRate), nullableCell(m.IntRate),
			nullableCell(m.YardsPerCarry),
			nullableCell(m.CatchRate), nullableCell(m.YardsPerTarget), nullableCell(m.YardsPerReception),
			m.Touches, m.Opportunities, nullableCell(m.SnapShare),
			nullableCell(m.RollingPPR), nullableCell(m.RollingSnapShare), nullableCell(m.WeekOverWeekPPR), m.PositionRank,
		))
	}

	return sb.String()
}

// RenderSeasonCSV renders season metrics as CSV.
func RenderSeasonCSV(metrics []*domain.SeasonMetric) string {
	var sb strings.Builder

	sb.WriteString("player_id,player_name,position,team,season,")
	sb.WriteString("games_played,total_fantasy_pts,total_ppr,avg_ppr_per_game,")
	sb.WriteString("boom_rate,bust_rate,coefficient_of_variation,")
	sb.WriteString("ceiling_ppr,floor_ppr,position_rank\n")

	for _, m := range metrics {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%d,%.4f,%.4f,%.4f,%s,%s,%s,%.4f,%.4f,%d\n",
			m.PlayerID, csvEscape(m.PlayerName), m.Position, m.Team, m.Season,
			m.GamesPlayed, m.TotalFantasyPts, m.TotalPPR, m.AvgPPRPerGame,
			nullableCell(m.BoomRate), nullableCell(m.BustRate), nullableCell(m.CoefficientOfVariation),
			m.CeilingPPR, m.FloorPPR, m.PositionRank,
		))
	}

	return sb.String()
}

// RenderBaselineCSV renders position baselines as CSV.
func RenderBaselineCSV(baselines []*domain.PositionBaseline) string {
	var sb strings.Builder

	sb.WriteString("season,week,position,startable_pool,players_with_data,")
	sb.WriteString("avg_ppr_startable,avg_ppr_all,max_ppr\n")

	for _, b := range baselines {
		sb.WriteString(fmt.Sprintf("%d,%d,%s,%d,%d,%.4f,%.4f,%.4f\n",
			b.Season, b.Week, b.Position,
			b.StartablePool, b.PlayersWithData,
			b.AvgPPRStartable, b.AvgPPRAll, b.MaxPPR,
		))
	}

	return sb.String()
}

// RenderTestResultsCSV renders experiment test outcomes as CSV, one row
// per metric. Degenerate tests keep their sample counts with empty
// stat cells.
func RenderTestResultsCSV(results []*domain.TestResult) string {
	var sb strings.Builder

	sb.WriteString("metric,n_control,n_treatment,control,treatment,")
	sb.WriteString("lift_abs,lift_rel,statistic,df,p_value,ci_lower,ci_upper,effect_size,significant\n")

	for _, r := range results {
		if r.Stats == nil {
			sb.WriteString(fmt.Sprintf("%s,%d,%d,,,,,,,,,,,\n", r.Metric, r.NControl, r.NTreatment))
			continue
		}
		st := r.Stats
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%.6f,%.6f,%.6f,%s,%.6f,%s,%.6f,%.6f,%.6f,%.6f,%t\n",
			r.Metric, r.NControl, r.NTreatment, st.Control, st.Treatment,
			st.LiftAbs, nullableCell(st.LiftRel), st.Statistic, nullableCell(st.DF),
			st.PValue, st.CILower, st.CIUpper, st.EffectSize, st.Significant,
		))
	}

	return sb.String()
}

// nullableCell formats an optional metric, empty when nil.
func nullableCell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}

// csvEscape quotes a field containing commas or quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
