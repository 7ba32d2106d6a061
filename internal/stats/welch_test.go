package stats

import "testing"

func TestWelchTest_EqualVarianceExample(t *testing.T) {
	// Equal spreads one unit apart: t = 1 with Welch df = 8.
	control := []float64{1, 2, 3, 4, 5}
	treatment := []float64{2, 3, 4, 5, 6}

	res := WelchTest("claims_per_user", control, treatment, 0.05)
	if res.Stats == nil {
		t.Fatal("expected non-nil stats")
	}
	s := res.Stats

	if s.Control != 3 || s.Treatment != 4 {
		t.Errorf("means = %v, %v, want 3, 4", s.Control, s.Treatment)
	}
	if !approxEqual(s.Statistic, 1, 1e-9) {
		t.Errorf("t = %v, want 1", s.Statistic)
	}
	if s.DF == nil {
		t.Fatal("Welch test must carry degrees of freedom")
	}
	if !approxEqual(*s.DF, 8, 1e-9) {
		t.Errorf("df = %v, want 8", *s.DF)
	}
	if !approxEqual(s.PValue, 0.34659, 1e-4) {
		t.Errorf("p = %v, want 0.34659", s.PValue)
	}
	if s.Significant {
		t.Error("t = 1 must not be significant at alpha 0.05")
	}
	// d = diff / sqrt((2.5 + 2.5)/2) = 1/sqrt(2.5)
	if !approxEqual(s.EffectSize, 0.632456, 1e-5) {
		t.Errorf("Cohen's d = %v, want 0.632456", s.EffectSize)
	}
}

func TestWelchTest_UnequalSizes(t *testing.T) {
	control := []float64{0, 0, 1, 2, 0, 1, 3, 0, 1, 0}
	treatment := []float64{2, 3, 1, 4}

	res := WelchTest("claims_per_user", control, treatment, 0.05)
	if res.Stats == nil {
		t.Fatal("expected non-nil stats")
	}
	if res.NControl != 10 || res.NTreatment != 4 {
		t.Errorf("counts = %d, %d", res.NControl, res.NTreatment)
	}
	// Welch df falls below the pooled n1+n2-2 when variances differ.
	if *res.Stats.DF >= 12 {
		t.Errorf("df = %v, want < 12", *res.Stats.DF)
	}
	if res.Stats.CILower >= res.Stats.CIUpper {
		t.Error("CI bounds inverted")
	}
}

func TestWelchTest_ArmSwapAntisymmetry(t *testing.T) {
	// Swapping the arms negates the statistic, lift, and effect size
	// while the two-sided p-value stays the same.
	a := []float64{0, 1, 1, 2, 5, 0, 3, 1}
	b := []float64{2, 3, 1, 4, 6, 2}

	fwd := WelchTest("claims_per_user", a, b, 0.05)
	rev := WelchTest("claims_per_user", b, a, 0.05)
	if fwd.Stats == nil || rev.Stats == nil {
		t.Fatal("expected non-nil stats")
	}

	if !approxEqual(rev.Stats.Statistic, -fwd.Stats.Statistic, 1e-12) {
		t.Errorf("t = %v and %v, want negation", fwd.Stats.Statistic, rev.Stats.Statistic)
	}
	if !approxEqual(rev.Stats.LiftAbs, -fwd.Stats.LiftAbs, 1e-12) {
		t.Errorf("lift = %v and %v, want negation", fwd.Stats.LiftAbs, rev.Stats.LiftAbs)
	}
	if !approxEqual(rev.Stats.EffectSize, -fwd.Stats.EffectSize, 1e-12) {
		t.Errorf("d = %v and %v, want negation", fwd.Stats.EffectSize, rev.Stats.EffectSize)
	}
	if !approxEqual(rev.Stats.PValue, fwd.Stats.PValue, 1e-12) {
		t.Errorf("p = %v and %v, want equal", fwd.Stats.PValue, rev.Stats.PValue)
	}
	if !approxEqual(*rev.Stats.DF, *fwd.Stats.DF, 1e-12) {
		t.Errorf("df = %v and %v, want equal", *fwd.Stats.DF, *rev.Stats.DF)
	}
}

func TestWelchTest_TooFewObservations(t *testing.T) {
	res := WelchTest("claims_per_user", []float64{1}, []float64{2, 3, 4}, 0.05)
	if res.Stats != nil {
		t.Error("single-observation arm must yield nil stats")
	}
	if res.NControl != 1 || res.NTreatment != 3 {
		t.Errorf("counts = %d, %d", res.NControl, res.NTreatment)
	}

	res = WelchTest("claims_per_user", nil, nil, 0.05)
	if res.Stats != nil {
		t.Error("empty arms must yield nil stats")
	}
}

func TestWelchTest_ZeroVariance(t *testing.T) {
	// Identical constant samples: zero spread, zero difference.
	res := WelchTest("claims_per_user", []float64{2, 2, 2}, []float64{2, 2, 2}, 0.05)
	if res.Stats == nil {
		t.Fatal("expected non-nil stats")
	}
	s := res.Stats
	if s.Statistic != 0 || s.EffectSize != 0 {
		t.Errorf("t = %v, d = %v, want 0, 0", s.Statistic, s.EffectSize)
	}
	if s.Significant {
		t.Error("degenerate spread must not be significant")
	}
}

func TestWelchTest_RelLiftAgainstZeroMean(t *testing.T) {
	res := WelchTest("claims_per_user", []float64{0, 0, 0}, []float64{1, 2, 3}, 0.05)
	if res.Stats == nil {
		t.Fatal("expected non-nil stats")
	}
	if res.Stats.LiftRel != nil {
		t.Error("relative lift undefined for a zero control mean")
	}
}
