package stats

import (
	"math"

	"fantasy-analytics/internal/domain"
)

// Baseline rates outside this band degrade the normal approximation;
// results are reported as approximate rather than refused.
const (
	approxRateLow  = 0.01
	approxRateHigh = 0.99
)

// PostHocPower returns the achieved power of a two-proportion test
// given the observed effect size (Cohen's h) and per-arm sample size:
// power = Phi(|h| * sqrt(n/2) - z_alpha).
func PostHocPower(effectH float64, nPerArm int, alpha float64) float64 {
	if nPerArm <= 0 {
		return 0
	}
	zAlpha := NormalQuantile(1 - alpha/2)
	return NormalCDF(math.Abs(effectH)*math.Sqrt(float64(nPerArm)/2) - zAlpha)
}

// MinDetectableEffect returns the smallest Cohen's h detectable at the
// target power with the given per-arm sample size:
// mde = (z_alpha + z_beta) / sqrt(n/2).
func MinDetectableEffect(nPerArm int, alpha, power float64) float64 {
	if nPerArm <= 0 {
		return math.Inf(1)
	}
	zAlpha := NormalQuantile(1 - alpha/2)
	zBeta := NormalQuantile(power)
	return (zAlpha + zBeta) / math.Sqrt(float64(nPerArm)/2)
}

// PowerAnalysis combines post-hoc power and MDE for the report.
// A baseline rate near 0 or 1 sets the Approximate flag.
func PowerAnalysis(baselineRate, observedEffectH float64, nPerArm int, alpha, targetPower float64) domain.PowerResult {
	return domain.PowerResult{
		NPerArm:        nPerArm,
		BaselineRate:   baselineRate,
		ObservedEffect: observedEffectH,
		AchievedPower:  PostHocPower(observedEffectH, nPerArm, alpha),
		MDE:            MinDetectableEffect(nPerArm, alpha, targetPower),
		Approximate:    baselineRate < approxRateLow || baselineRate > approxRateHigh,
	}
}
