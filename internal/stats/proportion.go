package stats

import (
	"math"

	"fantasy-analytics/internal/domain"
)

// ProportionTest performs a two-sided two-proportion z-test.
//
// The test statistic uses the pooled proportion's standard error; the
// confidence interval on the difference is the unpooled Wald interval
// using each arm's own variance. The two variance estimates are
// intentionally different (standard practice) and must not be unified.
//
// An arm with zero trials makes the test undefined: the returned
// result carries the counts but a nil Stats.
func ProportionTest(metric string, successControl, nControl, successTreatment, nTreatment int, alpha float64) domain.TestResult {
	res := domain.TestResult{
		Metric:     metric,
		NControl:   nControl,
		NTreatment: nTreatment,
	}
	if nControl == 0 || nTreatment == 0 {
		return res
	}

	pc := float64(successControl) / float64(nControl)
	pt := float64(successTreatment) / float64(nTreatment)
	diff := pt - pc

	// Pooled SE for the test statistic.
	pPool := float64(successControl+successTreatment) / float64(nControl+nTreatment)
	sePool := math.Sqrt(pPool * (1 - pPool) * (1/float64(nControl) + 1/float64(nTreatment)))

	z := 0.0
	p := 1.0
	if sePool > 0 {
		z = diff / sePool
		p = 2 * (1 - NormalCDF(math.Abs(z)))
	}

	// Unpooled Wald CI on the difference.
	seDiff := math.Sqrt(pc*(1-pc)/float64(nControl) + pt*(1-pt)/float64(nTreatment))
	zCrit := NormalQuantile(1 - alpha/2)

	stats := &domain.TestStats{
		Control:     pc,
		Treatment:   pt,
		LiftAbs:     diff,
		Statistic:   z,
		PValue:      p,
		CILower:     diff - zCrit*seDiff,
		CIUpper:     diff + zCrit*seDiff,
		EffectSize:  CohensH(pt, pc),
		Significant: p < alpha,
	}
	if pc != 0 {
		rel := diff / pc
		stats.LiftRel = &rel
	}

	res.Stats = stats
	return res
}

// CohensH returns the arcsine-transformed effect size for two
// proportions: 2*asin(sqrt(p1)) - 2*asin(sqrt(p2)). Signed: positive
// when p1 exceeds p2.
func CohensH(p1, p2 float64) float64 {
	return 2*math.Asin(math.Sqrt(p1)) - 2*math.Asin(math.Sqrt(p2))
}
