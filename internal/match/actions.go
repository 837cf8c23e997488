package match

import (
	"math"

	"matchsim/internal/pitch"
)

// ActionKind enumerates everything the evaluator can propose. On-ball and
// off-ball kinds share one scoring pipeline.
type ActionKind int

const (
	ActShoot ActionKind = iota
	ActPass
	ActDribble
	ActCross
	ActClear
	ActHold
	ActMark
	ActPress
	ActMoveTo
	ActCoverSpace
	ActMakeRun
)

func (k ActionKind) String() string {
	switch k {
	case ActShoot:
		return "shoot"
	case ActPass:
		return "pass"
	case ActDribble:
		return "dribble"
	case ActCross:
		return "cross"
	case ActClear:
		return "clear"
	case ActHold:
		return "hold"
	case ActMark:
		return "mark"
	case ActPress:
		return "press"
	case ActMoveTo:
		return "move_to"
	case ActCoverSpace:
		return "cover_space"
	case ActMakeRun:
		return "make_run"
	}
	return "?"
}

// ActionCandidate is one proposed action. Target carries the pass receiver
// or marked opponent when the kind needs one; Spot is the positional target.
type ActionCandidate struct {
	Kind   ActionKind
	Target int // player index or NoOwner
	Spot   pitch.Vec2
}

// ActionScore holds the six normalized [0,1] factors for one candidate.
type ActionScore struct {
	Distance    float64
	Safety      float64
	Readiness   float64
	Progression float64
	Space       float64
	Tactical    float64
}

// ApplyWeights combines the factors with the given weights, normalized by
// the weight sum so an all-1.0 score maps to ~1.0 regardless of clamping.
func (s ActionScore) ApplyWeights(w ActionWeights) float64 {
	total := s.Distance*w.Distance +
		s.Safety*w.Safety +
		s.Readiness*w.Readiness +
		s.Progression*w.Progression +
		s.Space*w.Space +
		s.Tactical*w.Tactical
	sum := w.Sum()
	if sum <= 0 {
		return 0
	}
	return total / sum
}

// ScoredAction pairs a candidate with its factors and weighted total.
type ScoredAction struct {
	Candidate ActionCandidate
	Score     ActionScore
	Total     float64
}

// Pass range classification, metric.
type PassRange int

const (
	PassShort PassRange = iota
	PassMedium
	PassLong
)

const (
	passShortMaxM  = 15.0
	passMediumMaxM = 30.0
)

// ClassifyPass buckets a pass by true metric distance between the two
// normalized positions. Normalized deltas must never be scaled uniformly
// here; a 0.3 lateral pass and a 0.3 longitudinal pass differ by 37 meters
// versus 31.5.
func ClassifyPass(from, to pitch.Vec2) PassRange {
	d := pitch.DistM(from, to)
	switch {
	case d <= passShortMaxM:
		return PassShort
	case d <= passMediumMaxM:
		return PassMedium
	default:
		return PassLong
	}
}

func clamp01f(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// posHash is the documented deterministic tie-break: equal weighted totals
// resolve by the lower hash of (quantized position, candidate identity),
// never by map iteration order.
func posHash(p pitch.Vec2, kind ActionKind, target int) uint64 {
	qx := uint64(int64(p.X*4096)) & 0xffff
	qy := uint64(int64(p.Y*4096)) & 0xffff
	h := qx<<32 | qy<<16 | uint64(kind)<<8 | uint64(uint8(target+1))
	// splitmix64 finalizer
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

// xgValue is a crude expected-goal estimate from a normalized shot origin:
// distance and angle to the goal mouth dominate.
func xgValue(from pitch.Vec2, dir int) float64 {
	goal := pitch.GoalCenter(dir)
	distM := pitch.DistM(from, goal)
	if distM < 1 {
		distM = 1
	}
	// Visible mouth angle shrinks with distance and lateral offset.
	lateral := math.Abs(from.Y-0.5) * pitch.WidthM
	angle := math.Atan2(pitch.GoalWidthM/2, distM+lateral*0.8)
	xg := angle / (math.Pi / 4) * math.Exp(-distM/25.0) * 1.8
	return clamp01f(xg)
}
