package stats

import "fantasy-analytics/internal/domain"

// SRMCheck performs a chi-square goodness-of-fit test of observed
// assignment counts against the expected split. Degrees of freedom are
// arms-1 = 1 for a two-arm experiment.
//
// srmAlpha is deliberately stricter than the outcome-test alpha: a
// sample ratio mismatch invalidates the whole experiment, so the gate
// trips at p < 0.01 by default. The check never suppresses downstream
// tests; callers surface the mismatch as a validity warning.
func SRMCheck(nControl, nTreatment int, expectedControlShare, srmAlpha float64) domain.SRMResult {
	res := domain.SRMResult{
		NControl:      nControl,
		NTreatment:    nTreatment,
		ExpectedSplit: expectedControlShare,
	}

	total := nControl + nTreatment
	if total == 0 {
		res.PValue = 1
		return res
	}

	expC := float64(total) * expectedControlShare
	expT := float64(total) * (1 - expectedControlShare)

	chi2 := 0.0
	if expC > 0 {
		d := float64(nControl) - expC
		chi2 += d * d / expC
	}
	if expT > 0 {
		d := float64(nTreatment) - expT
		chi2 += d * d / expT
	}

	res.ChiSquare = chi2
	res.PValue = ChiSquareSurvival(chi2, 1)
	res.Mismatch = res.PValue < srmAlpha
	return res
}
