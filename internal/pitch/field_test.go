package pitch

import (
	"math"
	"testing"
)

func TestMetricRoundTrip(t *testing.T) {
	p := Vec2{X: 0.37, Y: 0.81}
	got := ToNorm(ToMetric(p))
	if math.Abs(got.X-p.X) > 1e-12 || math.Abs(got.Y-p.Y) > 1e-12 {
		t.Fatalf("round trip drifted: %v -> %v", p, got)
	}
}

func TestDistMAxes(t *testing.T) {
	// Same normalized delta along each axis covers different real distance.
	alongLength := DistM(Vec2{0.0, 0.5}, Vec2{0.1, 0.5})
	alongWidth := DistM(Vec2{0.5, 0.0}, Vec2{0.5, 0.1})
	if math.Abs(alongLength-10.5) > 1e-9 {
		t.Fatalf("length axis: got %.4f, want 10.5", alongLength)
	}
	if math.Abs(alongWidth-6.8) > 1e-9 {
		t.Fatalf("width axis: got %.4f, want 6.8", alongWidth)
	}
	if alongLength == alongWidth {
		t.Fatal("axes must not share a metric scale")
	}
}

func TestIsGoalStrictLine(t *testing.T) {
	center := 0.5
	cases := []struct {
		name string
		p    Vec2
		dir  int
		want bool
	}{
		{"at epsilon stays in play", Vec2{1 + GoalLineEpsilon, center}, 1, false},
		{"just beyond epsilon scores", Vec2{1 + GoalLineEpsilon + 1e-9, center}, 1, true},
		{"beyond line outside mouth", Vec2{1.01, 0.9}, 1, false},
		{"own goal line other direction", Vec2{-GoalLineEpsilon - 1e-9, center}, -1, true},
		{"at epsilon other direction", Vec2{-GoalLineEpsilon, center}, -1, false},
		{"inside field", Vec2{0.99, center}, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsGoal(tc.p, tc.dir); got != tc.want {
				t.Fatalf("IsGoal(%v, %d) = %v, want %v", tc.p, tc.dir, got, tc.want)
			}
		})
	}
}

func TestIsGoalMouthEdges(t *testing.T) {
	over := 1 + GoalLineEpsilon*2
	half := (GoalWidthM / 2) / WidthM
	if !IsGoal(Vec2{over, 0.5 + half}, 1) {
		t.Fatal("ball at the post edge should count")
	}
	if IsGoal(Vec2{over, 0.5 + half + 1e-6}, 1) {
		t.Fatal("ball outside the post should not count")
	}
}

func TestOutOfPlayAndClamp(t *testing.T) {
	if OutOfPlay(Vec2{0.5, 0.5}) {
		t.Fatal("center is in play")
	}
	if !OutOfPlay(Vec2{0.5, 1.0001}) {
		t.Fatal("over the touchline is out")
	}
	c := Clamp(Vec2{-0.3, 1.7})
	if OutOfPlay(c) {
		t.Fatalf("clamped position still out: %v", c)
	}
	if c.X != BoundsPad || c.Y != 1-BoundsPad {
		t.Fatalf("clamp landed at %v", c)
	}
}

func TestThirdRespectsDirection(t *testing.T) {
	p := Vec2{0.9, 0.5}
	if got := Third(p, 1); got != 2 {
		t.Fatalf("attacking right: got third %d, want 2", got)
	}
	if got := Third(p, -1); got != 0 {
		t.Fatalf("attacking left: got third %d, want 0", got)
	}
}

func TestZoneClamps(t *testing.T) {
	col, row := Zone(Vec2{1.2, -0.5})
	if col != 5 || row != 0 {
		t.Fatalf("got zone (%d,%d), want (5,0)", col, row)
	}
	col, row = Zone(Vec2{0.49, 0.49})
	if col != 2 || row != 1 {
		t.Fatalf("got zone (%d,%d), want (2,1)", col, row)
	}
}

func TestVecOps(t *testing.T) {
	a := Vec2{3, 4}
	if l := a.Len(); math.Abs(l-5) > 1e-12 {
		t.Fatalf("Len = %v, want 5", l)
	}
	n := a.Norm()
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Fatalf("Norm().Len() = %v, want 1", n.Len())
	}
	if (Vec2{}).Norm() != (Vec2{}) {
		t.Fatal("zero vector normalizes to zero")
	}
	c := a.ClampLen(2)
	if math.Abs(c.Len()-2) > 1e-12 {
		t.Fatalf("ClampLen(2).Len() = %v", c.Len())
	}
	mid := a.Lerp(Vec2{5, 8}, 0.5)
	if mid != (Vec2{4, 6}) {
		t.Fatalf("Lerp midpoint = %v", mid)
	}
}
