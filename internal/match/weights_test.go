package match

import (
	"math"
	"testing"
)

func TestBaseWeightRowsSumToOne(t *testing.T) {
	for role, w := range baseWeights {
		if s := w.Sum(); math.Abs(s-1.0) > 1e-9 {
			t.Fatalf("%s base weights sum to %v", role, s)
		}
	}
}

func TestDeriveWeightsClamped(t *testing.T) {
	// Stack the most extreme multipliers in the same direction and check no
	// component escapes the clamp band.
	p := &Player{
		Role:   Forward,
		Traits: map[string]bool{"poacher": true, "playmaker": true},
	}
	d := dials{Mentality: "attacking", PassingStyle: "direct", Tempo: "fast"}
	w := deriveWeights(p, d, PhaseTransition)
	for name, v := range map[string]float64{
		"distance":    w.Distance,
		"safety":      w.Safety,
		"readiness":   w.Readiness,
		"progression": w.Progression,
		"space":       w.Space,
		"tactical":    w.Tactical,
	} {
		if v < WeightMin || v > WeightMax {
			t.Fatalf("%s weight %v outside [%v,%v]", name, v, WeightMin, WeightMax)
		}
	}
	if w.Progression != WeightMax {
		t.Fatalf("stacked progression multipliers should hit the cap, got %v", w.Progression)
	}

	p2 := &Player{Role: Goalkeeper, Traits: map[string]bool{"anchor": true}}
	d2 := dials{Mentality: "defensive", PassingStyle: "direct", Tempo: "fast"}
	w2 := deriveWeights(p2, d2, PhaseTransition)
	if w2.Progression < WeightMin {
		t.Fatalf("progression %v below floor", w2.Progression)
	}
}

func TestDeriveWeightsTraitOrderStable(t *testing.T) {
	// Five traits share one multiplier accumulation; re-deriving must give the
	// bit-identical result every time regardless of map iteration order.
	p := &Player{Role: Midfielder, Traits: map[string]bool{
		"playmaker": true, "poacher": true, "ball_winner": true, "engine": true, "anchor": true,
	}}
	d := dials{Mentality: "attacking", PassingStyle: "direct", Tempo: "fast"}
	first := deriveWeights(p, d, PhaseTransition)
	for i := 0; i < 64; i++ {
		if got := deriveWeights(p, d, PhaseTransition); got != first {
			t.Fatalf("re-derivation %d diverged: %+v vs %+v", i, got, first)
		}
	}
}

func TestApplyWeightsNeutral(t *testing.T) {
	all := ActionScore{Distance: 1, Safety: 1, Readiness: 1, Progression: 1, Space: 1, Tactical: 1}
	for role := range baseWeights {
		p := &Player{Role: role}
		w := deriveWeights(p, dials{}, PhasePositional)
		if got := all.ApplyWeights(w); math.Abs(got-1.0) > 1e-9 {
			t.Fatalf("%s: all-ones score weighted to %v, want 1.0", role, got)
		}
	}
	var zero ActionScore
	w := baseWeights[Midfielder]
	if got := zero.ApplyWeights(w); got != 0 {
		t.Fatalf("zero score weighted to %v", got)
	}
}

func TestApplyWeightsFavorsWeightedFactor(t *testing.T) {
	w := ActionWeights{Distance: 0.05, Safety: 0.60, Readiness: 0.05, Progression: 0.05, Space: 0.05, Tactical: 0.05}
	safe := ActionScore{Safety: 1}
	far := ActionScore{Distance: 1}
	if safe.ApplyWeights(w) <= far.ApplyWeights(w) {
		t.Fatal("heavier factor should dominate the weighted total")
	}
}
