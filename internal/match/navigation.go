package match

import "matchsim/internal/pitch"

// Force-field navigation for ball carriers: a blended direction from an
// attraction toward the opponent goal and repulsions away from nearby
// opponents and the sidelines. All blending happens in metric space.

const (
	opponentRepelRangeM  = 9.0
	sidelineRepelRangeM  = 6.0
	opponentRepelWeight  = 1.6
	sidelineRepelWeight  = 1.1
	goalAttractionWeight = 1.0
)

// carryDirection returns a unit direction (metric space) for the carrier's
// next dribble step.
func (e *Engine) carryDirection(p *Player) pitch.Vec2 {
	dir := e.state.Teams[p.Team].Dir
	posM := pitch.ToMetric(p.Pos)
	goalM := pitch.ToMetric(pitch.GoalCenter(dir))

	blend := goalM.Sub(posM).Norm().Scale(goalAttractionWeight)

	lo, hi := opponents(p.Team)
	for i := lo; i < hi; i++ {
		o := &e.state.Players[i]
		if !o.Active() {
			continue
		}
		away := posM.Sub(pitch.ToMetric(o.Pos))
		d := away.Len()
		if d >= opponentRepelRangeM || d == 0 {
			continue
		}
		// Inverse falloff: closer opponents push harder.
		blend = blend.Add(away.Norm().Scale(opponentRepelWeight * (1 - d/opponentRepelRangeM)))
	}

	// Sidelines push back in Y only.
	if posM.Y < sidelineRepelRangeM {
		blend = blend.Add(pitch.Vec2{Y: sidelineRepelWeight * (1 - posM.Y/sidelineRepelRangeM)})
	}
	if over := pitch.WidthM - posM.Y; over < sidelineRepelRangeM {
		blend = blend.Add(pitch.Vec2{Y: -sidelineRepelWeight * (1 - over/sidelineRepelRangeM)})
	}

	n := blend.Norm()
	if n.Len() == 0 {
		// Fully boxed in: face the goal anyway.
		return goalM.Sub(posM).Norm()
	}
	return n
}
