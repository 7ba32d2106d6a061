package stats

import (
	"math"

	"fantasy-analytics/internal/domain"
)

// WelchTest performs Welch's unequal-variance two-sample t-test on
// per-user continuous outcomes.
//
// The statistic is (mean_t - mean_c) / sqrt(s_c^2/n_c + s_t^2/n_t) with
// degrees of freedom from the Welch-Satterthwaite approximation; the
// p-value is two-sided from the Student-t distribution. Cohen's d uses
// the pooled standard deviation.
//
// Fewer than 2 observations in either arm makes the test undefined:
// the returned result carries the counts but a nil Stats.
func WelchTest(metric string, control, treatment []float64, alpha float64) domain.TestResult {
	nc := len(control)
	nt := len(treatment)
	res := domain.TestResult{
		Metric:     metric,
		NControl:   nc,
		NTreatment: nt,
	}
	if nc < 2 || nt < 2 {
		return res
	}

	mc := mean(control)
	mt := mean(treatment)
	vc := sampleVariance(control, mc)
	vt := sampleVariance(treatment, mt)
	diff := mt - mc

	seC := vc / float64(nc)
	seT := vt / float64(nt)
	se := math.Sqrt(seC + seT)

	t := 0.0
	p := 1.0
	df := float64(nc + nt - 2)
	if se > 0 {
		t = diff / se
		// Welch-Satterthwaite degrees of freedom.
		df = (seC + seT) * (seC + seT) /
			(seC*seC/float64(nc-1) + seT*seT/float64(nt-1))
		p = TTwoSidedP(t, df)
	}

	zCrit := NormalQuantile(1 - alpha/2)

	stats := &domain.TestStats{
		Control:     mc,
		Treatment:   mt,
		LiftAbs:     diff,
		Statistic:   t,
		DF:          &df,
		PValue:      p,
		CILower:     diff - zCrit*se,
		CIUpper:     diff + zCrit*se,
		EffectSize:  cohensD(diff, vc, vt),
		Significant: p < alpha,
	}
	if mc != 0 {
		rel := diff / mc
		stats.LiftRel = &rel
	}

	res.Stats = stats
	return res
}

// cohensD computes Cohen's d from the mean difference and the two
// sample variances, using the pooled standard deviation. Zero pooled
// spread yields 0 rather than infinity.
func cohensD(diff, varControl, varTreatment float64) float64 {
	pooled := math.Sqrt((varControl + varTreatment) / 2)
	if pooled == 0 {
		return 0
	}
	return diff / pooled
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleVariance uses the n-1 denominator.
func sampleVariance(xs []float64, mean float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return sumSq / float64(n-1)
}
