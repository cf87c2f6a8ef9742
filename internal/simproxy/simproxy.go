// Package simproxy implements the human-proxy behaviour profiles: Gaussian-jittered
// inter-spin delay and stake-tier sizing. Pure functions, no global state, no side effects —
// the orchestrator never calls these for reward computation (the play-action result is a
// deterministic stub, see SPEC_FULL.md §4.10 step 5); they are exercised via a session's
// stored PlayerProfile.BehaviorType for callers that want to simulate realistic pacing.
package simproxy

import (
	"math"
	"time"
)

// BehaviourProfile selects a stake-sizing and inter-spin pacing strategy.
type BehaviourProfile string

const (
	Conservative  BehaviourProfile = "conservative"
	Aggressive    BehaviourProfile = "aggressive"
	MixedAdaptive BehaviourProfile = "mixed"
)

// ProfileFromString maps a PlayerProfile.BehaviorType string onto a BehaviourProfile,
// defaulting to Conservative for anything unrecognised.
func ProfileFromString(s string) BehaviourProfile {
	switch BehaviourProfile(s) {
	case Aggressive:
		return Aggressive
	case MixedAdaptive:
		return MixedAdaptive
	default:
		return Conservative
	}
}

// GaussianSample draws from N(mean, stdDev^2) via the Box-Muller transform, clamped to be
// non-negative. seed1 and seed2 must both be in (0, 1); callers must ensure non-zero values.
func GaussianSample(mean, stdDev, seed1, seed2 float64) float64 {
	z := math.Sqrt(-2.0*math.Log(seed1)) * math.Cos(2.0*math.Pi*seed2)
	v := mean + z*stdDev
	if v < 0 {
		return 0
	}
	return v
}

const epsilon = 2.220446049250313e-16 // math.Nextafter(1, 2) - 1, the same value as Rust's f64::EPSILON.

// NextDelay chooses the next inter-spin delay for profile given two uniform samples in
// (0, 1].
func NextDelay(profile BehaviourProfile, r1, r2 float64) time.Duration {
	var meanMs, stdMs float64
	switch profile {
	case Aggressive:
		meanMs, stdMs = 800.0, 200.0
	case MixedAdaptive:
		meanMs, stdMs = 2200.0, 600.0
	default:
		meanMs, stdMs = 4000.0, 800.0
	}
	if r1 <= 0 {
		r1 = epsilon
	}
	if r2 <= 0 {
		r2 = epsilon
	}
	ms := GaussianSample(meanMs, stdMs, r1, r2)
	return time.Duration(math.Round(ms)) * time.Millisecond
}

// NextStake chooses the next stake amount (in the session's currency major unit) for
// profile, given spinCount and a uniform sample r in [0, 1].
func NextStake(profile BehaviourProfile, spinCount uint32, r float64) float64 {
	switch profile {
	case Aggressive:
		tier := float64(spinCount / 10)
		stake := 5.0 + tier*2.5 + r*5.0
		if stake > 100.0 {
			return 100.0
		}
		return stake
	case MixedAdaptive:
		if (spinCount/20)%2 == 0 {
			return NextStake(Conservative, spinCount, r)
		}
		return NextStake(Aggressive, spinCount, r)
	default:
		stake := 0.50 + r*0.20
		if stake < 0.01 {
			return 0.01
		}
		return stake
	}
}

// ShouldTakeBreak reports whether to simulate a session break (return to lobby, pause). True
// roughly 5% of the time, checked only every 25th spin.
func ShouldTakeBreak(spinCount uint32, r float64) bool {
	return spinCount > 0 && spinCount%25 == 0 && r < 0.05
}
