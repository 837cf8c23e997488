// Package pitch holds field geometry and the normalized/metric coordinate
// conversions shared by the simulation core.
//
// Positions travel through the engine in normalized coordinates: X in [0,1]
// along the length of the field, Y in [0,1] across its width. Team A attacks
// toward X=1, team B toward X=0 (directions swap at halftime at the engine
// level, not here). Distances and speeds are always computed in meters via
// ToMetric, never by scaling normalized deltas directly: the axes have
// different metric scales and a naive scale misclassifies lateral passes.
package pitch

import "math"

const (
	// FIFA standard dimensions, meters.
	LengthM = 105.0
	WidthM  = 68.0

	// GoalWidthM is the goal mouth width.
	GoalWidthM = 7.32

	// GoalLineEpsilon is the normalized-X tolerance for goal-line crossing.
	// A ball exactly at the epsilon boundary is NOT over the line; it must
	// pass strictly beyond it.
	GoalLineEpsilon = 0.0005

	// BoundsPad keeps clamped positions slightly inside the touchlines so a
	// clamped player is never exactly on the out-of-play boundary.
	BoundsPad = 0.001

	// Penalty area, normalized along X from the goal line and spanning Y.
	PenaltyDepthM = 16.5
	PenaltyWidthM = 40.32
)

// ToMetric converts a normalized position to meters.
func ToMetric(p Vec2) Vec2 { return Vec2{p.X * LengthM, p.Y * WidthM} }

// ToNorm converts a metric position to normalized coordinates.
func ToNorm(p Vec2) Vec2 { return Vec2{p.X / LengthM, p.Y / WidthM} }

// DistM is the true metric distance between two normalized positions.
func DistM(a, b Vec2) float64 {
	dx := (a.X - b.X) * LengthM
	dy := (a.Y - b.Y) * WidthM
	return math.Hypot(dx, dy)
}

// GoalCenter returns the normalized position of the goal a team attacking
// toward dir (+1 → X=1 goal, -1 → X=0 goal) is shooting at.
func GoalCenter(dir int) Vec2 {
	if dir > 0 {
		return Vec2{X: 1, Y: 0.5}
	}
	return Vec2{X: 0, Y: 0.5}
}

// halfGoalNorm is the goal mouth half-width in normalized Y.
const halfGoalNorm = (GoalWidthM / 2) / WidthM

// IsGoal reports whether a ball at p, traveling toward the dir goal, is over
// the goal line inside the mouth. The line test is strict: a ball exactly at
// the epsilon boundary stays in play.
func IsGoal(p Vec2, dir int) bool {
	if p.Y < 0.5-halfGoalNorm || p.Y > 0.5+halfGoalNorm {
		return false
	}
	if dir > 0 {
		return p.X > 1+GoalLineEpsilon
	}
	return p.X < -GoalLineEpsilon
}

// OutOfPlay reports whether a normalized position has left the field
// entirely (over a touchline or a goal line).
func OutOfPlay(p Vec2) bool {
	return p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1
}

// Clamp pulls a position back inside the padded playable bounds.
func Clamp(p Vec2) Vec2 {
	return Vec2{
		X: clamp01(p.X, BoundsPad),
		Y: clamp01(p.Y, BoundsPad),
	}
}

func clamp01(v, pad float64) float64 {
	if v < pad {
		return pad
	}
	if v > 1-pad {
		return 1 - pad
	}
	return v
}

// InPenaltyArea reports whether p is inside the penalty area in front of the
// dir goal.
func InPenaltyArea(p Vec2, dir int) bool {
	depth := PenaltyDepthM / LengthM
	halfW := (PenaltyWidthM / 2) / WidthM
	if p.Y < 0.5-halfW || p.Y > 0.5+halfW {
		return false
	}
	if dir > 0 {
		return p.X >= 1-depth
	}
	return p.X <= depth
}

// Third buckets a normalized X into thirds relative to the attacking
// direction: 0 own third, 1 middle third, 2 final third.
func Third(p Vec2, dir int) int {
	x := p.X
	if dir < 0 {
		x = 1 - x
	}
	switch {
	case x < 1.0/3:
		return 0
	case x < 2.0/3:
		return 1
	default:
		return 2
	}
}

// Zone buckets a position into a 6x4 grid (length x width) for the touch
// heat map. Out-of-range positions clamp to the edge cells.
func Zone(p Vec2) (col, row int) {
	col = int(p.X * 6)
	row = int(p.Y * 4)
	if col < 0 {
		col = 0
	}
	if col > 5 {
		col = 5
	}
	if row < 0 {
		row = 0
	}
	if row > 3 {
		row = 3
	}
	return col, row
}
