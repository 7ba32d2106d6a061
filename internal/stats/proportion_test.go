package stats

import (
	"math"
	"testing"
)

func TestProportionTest_KnownExample(t *testing.T) {
	// 10% vs 13% on 1000 users per arm.
	res := ProportionTest("claim_rate", 100, 1000, 130, 1000, 0.05)

	if res.Stats == nil {
		t.Fatal("expected non-nil stats")
	}
	s := res.Stats

	if s.Control != 0.10 || s.Treatment != 0.13 {
		t.Errorf("rates = %v, %v, want 0.10, 0.13", s.Control, s.Treatment)
	}
	if !approxEqual(s.LiftAbs, 0.03, 1e-12) {
		t.Errorf("LiftAbs = %v, want 0.03", s.LiftAbs)
	}
	if !approxEqual(s.Statistic, 2.1027, 1e-3) {
		t.Errorf("z = %v, want ~2.1027", s.Statistic)
	}
	if !approxEqual(s.PValue, 0.0355, 1e-3) {
		t.Errorf("p = %v, want ~0.0355", s.PValue)
	}
	if !s.Significant {
		t.Error("expected significance at alpha 0.05")
	}
	if s.DF != nil {
		t.Error("z-test must not carry degrees of freedom")
	}
	if !approxEqual(s.EffectSize, 0.0944, 1e-3) {
		t.Errorf("Cohen's h = %v, want ~0.0944", s.EffectSize)
	}
	if s.LiftRel == nil || !approxEqual(*s.LiftRel, 0.30, 1e-12) {
		t.Errorf("LiftRel = %v, want 0.30", s.LiftRel)
	}
}

func TestProportionTest_CIUsesUnpooledSE(t *testing.T) {
	res := ProportionTest("claim_rate", 100, 1000, 130, 1000, 0.05)
	s := res.Stats

	seDiff := math.Sqrt(0.10*0.90/1000 + 0.13*0.87/1000)
	wantLower := 0.03 - 1.959964*seDiff
	wantUpper := 0.03 + 1.959964*seDiff
	if !approxEqual(s.CILower, wantLower, 1e-6) || !approxEqual(s.CIUpper, wantUpper, 1e-6) {
		t.Errorf("CI = [%v, %v], want [%v, %v]", s.CILower, s.CIUpper, wantLower, wantUpper)
	}
	if s.CILower >= s.CIUpper {
		t.Error("CI bounds inverted")
	}
}

func TestProportionTest_NoDifference(t *testing.T) {
	res := ProportionTest("claim_rate", 200, 1000, 200, 1000, 0.05)
	s := res.Stats
	if s == nil {
		t.Fatal("expected non-nil stats")
	}
	if s.Statistic != 0 {
		t.Errorf("z = %v, want 0", s.Statistic)
	}
	if s.Significant {
		t.Error("identical rates must not be significant")
	}
	if !approxEqual(s.PValue, 1, 1e-9) {
		t.Errorf("p = %v, want 1", s.PValue)
	}
}

func TestProportionTest_EmptyArmUndefined(t *testing.T) {
	res := ProportionTest("claim_rate", 0, 0, 130, 1000, 0.05)
	if res.Stats != nil {
		t.Error("zero-trial arm must yield nil stats")
	}
	if res.NControl != 0 || res.NTreatment != 1000 {
		t.Errorf("counts = %d, %d", res.NControl, res.NTreatment)
	}
}

func TestProportionTest_ZeroControlRateOmitsRelLift(t *testing.T) {
	res := ProportionTest("claim_rate", 0, 500, 50, 500, 0.05)
	if res.Stats == nil {
		t.Fatal("expected non-nil stats")
	}
	if res.Stats.LiftRel != nil {
		t.Error("relative lift undefined for a zero control rate")
	}
}

func TestProportionTest_NegativeEffectIsSigned(t *testing.T) {
	res := ProportionTest("claim_rate", 130, 1000, 100, 1000, 0.05)
	s := res.Stats
	if s.LiftAbs >= 0 || s.Statistic >= 0 || s.EffectSize >= 0 {
		t.Errorf("expected negative lift, z, and effect: %v %v %v",
			s.LiftAbs, s.Statistic, s.EffectSize)
	}
}

func TestCohensH_Signed(t *testing.T) {
	h := CohensH(0.13, 0.10)
	if !approxEqual(h, 0.0944, 1e-3) {
		t.Errorf("CohensH(0.13, 0.10) = %v, want ~0.0944", h)
	}
	if got := CohensH(0.10, 0.13); !approxEqual(got, -h, 1e-12) {
		t.Errorf("CohensH not antisymmetric: %v vs %v", got, -h)
	}
	if got := CohensH(0.2, 0.2); got != 0 {
		t.Errorf("CohensH of equal rates = %v, want 0", got)
	}
}
