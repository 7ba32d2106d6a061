package reporting

import (
	"fmt"
	"strings"
	"time"

	"fantasy-analytics/internal/domain"
)

// RenderExperimentMarkdown renders an experiment report as Markdown.
// Section order mirrors the analysis flow: validity gate first, then
// the primary metric, secondaries, novelty, segments, and power.
func RenderExperimentMarkdown(r *domain.ExperimentReport, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Waiver Wire Nudge Experiment Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Season: %d | Weeks: %d-%d | Alpha: %.2f\n\n",
		r.Season, r.WeekStart, r.WeekEnd, r.Alpha))

	// Validity warnings up front so nobody reads results past a bad gate
	if len(r.ValidityWarnings) > 0 {
		sb.WriteString("## Validity Warnings\n\n")
		for _, w := range r.ValidityWarnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
		sb.WriteString("\n")
	}

	// Sample ratio check
	sb.WriteString("## Sample Ratio Check\n\n")
	total := r.SRM.NControl + r.SRM.NTreatment
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Control users | %d |\n", r.SRM.NControl))
	sb.WriteString(fmt.Sprintf("| Treatment users | %d |\n", r.SRM.NTreatment))
	sb.WriteString(fmt.Sprintf("| Expected split | %.0f%% / %.0f%% |\n",
		r.SRM.ExpectedSplit*100, (1-r.SRM.ExpectedSplit)*100))
	if total > 0 {
		sb.WriteString(fmt.Sprintf("| Actual split | %.1f%% / %.1f%% |\n",
			float64(r.SRM.NControl)/float64(total)*100,
			float64(r.SRM.NTreatment)/float64(total)*100))
	}
	sb.WriteString(fmt.Sprintf("| Chi-square | %.4f |\n", r.SRM.ChiSquare))
	sb.WriteString(fmt.Sprintf("| p-value | %.4f |\n", r.SRM.PValue))
	if r.SRM.Mismatch {
		sb.WriteString("\n**Sample ratio mismatch detected.** Randomization may be broken; treat all results below as unreliable.\n\n")
	} else {
		sb.WriteString("\nNo sample ratio mismatch detected.\n\n")
	}

	// Primary metric
	sb.WriteString("## Primary Metric\n\n")
	writeTestResult(&sb, &r.ClaimRate, true)

	// Secondary metrics
	sb.WriteString("## Secondary Metrics\n\n")
	writeTestResult(&sb, &r.ClaimsPerUser, false)
	writeTestResult(&sb, &r.LineupRate, true)
	writeTestResult(&sb, &r.Retention, true)

	// Novelty effect
	sb.WriteString("## Novelty Check\n\n")
	if len(r.Novelty) > 0 {
		sb.WriteString("Week-by-week claim rate. A lift that shrinks over time points to a novelty effect.\n\n")
		sb.WriteString("| Week | Control | Treatment | Lift (pp) | Lift (%) |\n")
		sb.WriteString("|------|---------|-----------|-----------|----------|\n")
		for _, row := range r.Novelty {
			sb.WriteString(fmt.Sprintf("| %d | %.4f | %.4f | %+.2f | %s |\n",
				row.Week, row.ControlRate, row.TreatmentRate,
				row.LiftAbs*100, fmtRelLift(row.LiftRel)))
		}
	} else {
		sb.WriteString("No weekly data available.\n")
	}
	sb.WriteString("\n")

	// Segments
	sb.WriteString("## Segment Analysis\n\n")
	if len(r.Segments) > 0 {
		sb.WriteString("| Segment | Value | Control | Treatment | Lift (pp) | p-value | Significant | Note |\n")
		sb.WriteString("|---------|-------|---------|-----------|-----------|---------|-------------|------|\n")
		for _, seg := range r.Segments {
			note := ""
			if seg.LowConfidence {
				note = "low sample"
			}
			if seg.Result.Stats == nil {
				sb.WriteString(fmt.Sprintf("| %s | %s | - | - | - | - | - | %s |\n",
					seg.Segment, seg.Value, note))
				continue
			}
			st := seg.Result.Stats
			sb.WriteString(fmt.Sprintf("| %s | %s | %.4f | %.4f | %+.2f | %.4f | %s | %s |\n",
				seg.Segment, seg.Value, st.Control, st.Treatment,
				st.LiftAbs*100, st.PValue, yesNo(st.Significant), note))
		}
	} else {
		sb.WriteString("No segment data available.\n")
	}
	sb.WriteString("\n")

	// Power
	sb.WriteString("## Power Analysis\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Users per arm | %d |\n", r.Power.NPerArm))
	sb.WriteString(fmt.Sprintf("| Baseline rate | %.4f |\n", r.Power.BaselineRate))
	sb.WriteString(fmt.Sprintf("| Observed effect (Cohen's h) | %.4f |\n", r.Power.ObservedEffect))
	sb.WriteString(fmt.Sprintf("| Achieved power | %.4f |\n", r.Power.AchievedPower))
	sb.WriteString(fmt.Sprintf("| MDE (Cohen's h) | %.4f |\n", r.Power.MDE))
	if r.Power.Approximate {
		sb.WriteString("\nBaseline rate is near 0 or 1; the normal approximation behind these figures is rough.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// writeTestResult renders one metric's test block. Binary metrics are
// shown as rates, continuous as means.
func writeTestResult(sb *strings.Builder, r *domain.TestResult, binary bool) {
	sb.WriteString(fmt.Sprintf("### %s\n\n", r.Metric))

	if r.Stats == nil {
		sb.WriteString(fmt.Sprintf("Not computable: control n=%d, treatment n=%d.\n\n",
			r.NControl, r.NTreatment))
		return
	}

	st := r.Stats
	statName := "z"
	effectName := "Cohen's h"
	if st.DF != nil {
		statName = "t"
		effectName = "Cohen's d"
	}
	valueName := "Mean"
	if binary {
		valueName = "Rate"
	}

	sb.WriteString("| Metric | Control | Treatment |\n")
	sb.WriteString("|--------|---------|-----------|\n")
	sb.WriteString(fmt.Sprintf("| N | %d | %d |\n", r.NControl, r.NTreatment))
	sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f |\n", valueName, st.Control, st.Treatment))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("- Lift: %+.4f absolute (%s relative)\n", st.LiftAbs, fmtRelLift(st.LiftRel)))
	if st.DF != nil {
		sb.WriteString(fmt.Sprintf("- %s = %.4f (df = %.1f), p = %.4f\n", statName, st.Statistic, *st.DF, st.PValue))
	} else {
		sb.WriteString(fmt.Sprintf("- %s = %.4f, p = %.4f\n", statName, st.Statistic, st.PValue))
	}
	sb.WriteString(fmt.Sprintf("- 95%% CI for lift: [%.4f, %.4f]\n", st.CILower, st.CIUpper))
	sb.WriteString(fmt.Sprintf("- %s = %.4f\n", effectName, st.EffectSize))

	if st.Significant {
		sb.WriteString("- **Statistically significant**\n")
	} else {
		sb.WriteString("- Not statistically significant\n")
	}
	sb.WriteString("\n")
}

func fmtRelLift(rel *float64) string {
	if rel == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *rel*100)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
