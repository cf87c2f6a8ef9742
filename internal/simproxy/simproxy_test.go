package simproxy

import "testing"

func TestGaussianSampleNonNegative(t *testing.T) {
	v := GaussianSample(100.0, 200.0, 0.0001, 0.5)
	if v < 0 {
		t.Errorf("expected non-negative, got %v", v)
	}
}

func TestGaussianSampleNearMeanForZeroStd(t *testing.T) {
	v := GaussianSample(1000.0, 0.0, 0.5, 0.5)
	if diff := v - 1000.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected ~1000, got %v", v)
	}
}

func TestNextDelayConservativeLongerThanAggressive(t *testing.T) {
	cons := NextDelay(Conservative, 0.5, 0.5)
	aggr := NextDelay(Aggressive, 0.5, 0.5)
	if cons <= aggr {
		t.Errorf("expected conservative (%v) > aggressive (%v)", cons, aggr)
	}
}

func TestNextDelayNeverZero(t *testing.T) {
	for _, p := range []BehaviourProfile{Conservative, Aggressive, MixedAdaptive} {
		if d := NextDelay(p, 0.5, 0.5); d <= 0 {
			t.Errorf("delay must be > 0 for %s, got %v", p, d)
		}
	}
}

func TestNextStakeConservativeLow(t *testing.T) {
	if s := NextStake(Conservative, 0, 0.0); s >= 1.0 {
		t.Errorf("expected conservative stake < 1, got %v", s)
	}
}

func TestNextStakeAggressiveHigherThanConservative(t *testing.T) {
	cons := NextStake(Conservative, 5, 0.5)
	aggr := NextStake(Aggressive, 5, 0.5)
	if aggr <= cons {
		t.Errorf("expected aggressive (%v) > conservative (%v)", aggr, cons)
	}
}

func TestNextStakeAggressiveCappedAt100(t *testing.T) {
	if s := NextStake(Aggressive, 1000, 1.0); s > 100.0 {
		t.Errorf("expected <= 100, got %v", s)
	}
}

func TestMixedAdaptiveAlternatesStrategy(t *testing.T) {
	s0 := NextStake(MixedAdaptive, 0, 0.5)
	s20 := NextStake(MixedAdaptive, 20, 0.5)
	if s20 <= s0 {
		t.Errorf("expected spin 20 (aggressive, %v) > spin 0 (conservative, %v)", s20, s0)
	}
}

func TestShouldTakeBreakOnlyAtMultiplesOf25(t *testing.T) {
	if ShouldTakeBreak(0, 0.01) {
		t.Error("spin 0 should never break")
	}
	if ShouldTakeBreak(24, 0.01) {
		t.Error("spin 24 should never break")
	}
	if !ShouldTakeBreak(25, 0.01) {
		t.Error("spin 25 with r < 0.05 should break")
	}
	if ShouldTakeBreak(25, 0.5) {
		t.Error("spin 25 with r > 0.05 should not break")
	}
}

func TestProfileFromString(t *testing.T) {
	if ProfileFromString("aggressive") != Aggressive {
		t.Error("expected aggressive")
	}
	if ProfileFromString("mixed") != MixedAdaptive {
		t.Error("expected mixed")
	}
	if ProfileFromString("unknown-profile") != Conservative {
		t.Error("expected conservative default")
	}
}
