package stats

import (
	"math"
	"testing"
)

func TestPostHocPower_ZeroEffect(t *testing.T) {
	// With no effect the power equals the false positive rate's half:
	// Phi(-z_alpha) = alpha/2.
	got := PostHocPower(0, 1000, 0.05)
	if !approxEqual(got, 0.025, 1e-6) {
		t.Errorf("power = %v, want 0.025", got)
	}
}

func TestPostHocPower_GrowsWithNAndEffect(t *testing.T) {
	small := PostHocPower(0.05, 500, 0.05)
	largerN := PostHocPower(0.05, 5000, 0.05)
	largerH := PostHocPower(0.20, 500, 0.05)

	if largerN <= small {
		t.Errorf("more users must raise power: %v <= %v", largerN, small)
	}
	if largerH <= small {
		t.Errorf("bigger effect must raise power: %v <= %v", largerH, small)
	}
}

func TestPostHocPower_SignInsensitive(t *testing.T) {
	pos := PostHocPower(0.1, 2000, 0.05)
	neg := PostHocPower(-0.1, 2000, 0.05)
	if !approxEqual(pos, neg, 1e-12) {
		t.Errorf("power must use |h|: %v vs %v", pos, neg)
	}
}

func TestPostHocPower_NoSample(t *testing.T) {
	if got := PostHocPower(0.2, 0, 0.05); got != 0 {
		t.Errorf("power = %v, want 0", got)
	}
}

func TestMinDetectableEffect_KnownValue(t *testing.T) {
	// (1.959964 + 0.841621) / sqrt(500)
	got := MinDetectableEffect(1000, 0.05, 0.80)
	if !approxEqual(got, 0.125291, 1e-5) {
		t.Errorf("mde = %v, want 0.125291", got)
	}
}

func TestMinDetectableEffect_ShrinksWithN(t *testing.T) {
	if a, b := MinDetectableEffect(100, 0.05, 0.8), MinDetectableEffect(10000, 0.05, 0.8); b >= a {
		t.Errorf("mde must shrink with n: %v >= %v", b, a)
	}
	if got := MinDetectableEffect(0, 0.05, 0.8); !math.IsInf(got, 1) {
		t.Errorf("mde with no sample = %v, want +Inf", got)
	}
}

func TestMinDetectableEffect_ConsistentWithPower(t *testing.T) {
	// An effect exactly at the MDE achieves the target power.
	n := 2000
	mde := MinDetectableEffect(n, 0.05, 0.80)
	power := PostHocPower(mde, n, 0.05)
	if !approxEqual(power, 0.80, 1e-6) {
		t.Errorf("power at mde = %v, want 0.80", power)
	}
}

func TestPowerAnalysis_ApproximateFlag(t *testing.T) {
	res := PowerAnalysis(0.35, 0.09, 5000, 0.05, 0.80)
	if res.Approximate {
		t.Error("mid-range baseline must not flag approximate")
	}
	if res.NPerArm != 5000 || res.BaselineRate != 0.35 {
		t.Errorf("fields not carried: %+v", res)
	}

	res = PowerAnalysis(0.003, 0.09, 5000, 0.05, 0.80)
	if !res.Approximate {
		t.Error("baseline under 1% must flag approximate")
	}
	res = PowerAnalysis(0.995, 0.09, 5000, 0.05, 0.80)
	if !res.Approximate {
		t.Error("baseline over 99% must flag approximate")
	}
}
