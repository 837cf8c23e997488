package match

import (
	"sort"

	"matchsim/internal/pitch"
)

// Aggregate statistics and per-player ratings. Anything accumulated out of
// a map is summed over sorted keys: floating-point addition is not
// associative and unordered iteration would let identical matches drift
// apart.

type statsAccum struct {
	names [2]string

	passesAttempted [2]int
	passesCompleted [2]int
	shots           [2]int
	shotsOnTarget   [2]int
	xg              [2]float64
	goals           [2]int
	fouls           [2]int
	yellows         [2]int
	reds            [2]int
	corners         [2]int
	turnovers       [2]int
	touches         [2]int

	heat [2][6][4]int
}

func (s *statsAccum) init(home, away string) {
	s.names[0] = home
	s.names[1] = away
}

func (s *statsAccum) passAttempt(team int)  { s.passesAttempted[team]++ }
func (s *statsAccum) passComplete(team int) { s.passesCompleted[team]++ }
func (s *statsAccum) goal(team int)         { s.goals[team]++ }
func (s *statsAccum) foul(team int)         { s.fouls[team]++ }
func (s *statsAccum) corner(team int)       { s.corners[team]++ }
func (s *statsAccum) turnover(team int)     { s.turnovers[team]++ }

func (s *statsAccum) shot(team int, onTarget bool, xg float64) {
	s.shots[team]++
	if onTarget {
		s.shotsOnTarget[team]++
	}
	s.xg[team] += xg
}

func (s *statsAccum) card(team int, red bool) {
	if red {
		s.reds[team]++
	} else {
		s.yellows[team]++
	}
}

func (s *statsAccum) touch(idx int, pos pitch.Vec2) {
	team := teamOf(idx)
	s.touches[team]++
	col, row := pitch.Zone(pos)
	s.heat[team][col][row]++
}

// tickSample records the possession heat cell for the carrying team.
func (s *statsAccum) tickSample(e *Engine) {
	o := e.state.Ball.Owner
	if o == NoOwner {
		return
	}
	col, row := pitch.Zone(e.state.Ball.Pos)
	s.heat[teamOf(o)][col][row]++
}

// disruptions feeds the stoppage-time heuristic.
func (s *statsAccum) disruptions() int {
	return s.goals[0] + s.goals[1] + s.fouls[0] + s.fouls[1] + s.yellows[0] + s.yellows[1] + s.reds[0] + s.reds[1]
}

// ratingAccum collects named per-player contributions; the final rating
// sums them over sorted keys.
type ratingAccum struct {
	parts map[string]float64
}

func (r *ratingAccum) add(key string, v float64) {
	if r.parts == nil {
		r.parts = make(map[string]float64)
	}
	r.parts[key] += v
}

// value folds the contributions onto the 6.0 baseline, clamped to the usual
// 1-10 scale. Keys are sorted before summation.
func (r *ratingAccum) value() float64 {
	total := 6.0
	keys := make([]string, 0, len(r.parts))
	for k := range r.parts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		total += r.parts[k]
	}
	if total < 1 {
		total = 1
	}
	if total > 10 {
		total = 10
	}
	return total
}
