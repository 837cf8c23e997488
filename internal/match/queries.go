package match

import "matchsim/internal/pitch"

// Read-only state queries shared by behaviors, the evaluator and the
// off-ball scheduler. All iterate in fixed index order.

// possession is the team currently holding (or last holding) the ball.
func (e *Engine) possession() int {
	if o := e.state.Ball.Owner; o != NoOwner {
		return teamOf(o)
	}
	return e.lastPossession
}

// nearestTo returns the active player of team closest to pos, with the
// positional hash breaking exact distance ties.
func (e *Engine) nearestTo(team int, pos pitch.Vec2) int {
	lo, hi := teammates(team)
	best, bestD := NoOwner, 0.0
	for i := lo; i < hi; i++ {
		p := &e.state.Players[i]
		if !p.Active() {
			continue
		}
		d := pitch.DistM(p.Pos, pos)
		if best == NoOwner || d < bestD ||
			(d == bestD && posHash(p.Pos, ActPress, i) < posHash(e.state.Players[best].Pos, ActPress, best)) {
			best, bestD = i, d
		}
	}
	return best
}

// isNearestPresser reports whether p is the defending player of their team
// closest to the ball carrier (or loose ball).
func (e *Engine) isNearestPresser(p *Player) bool {
	return e.nearestTo(p.Team, e.state.Ball.Pos) == p.Idx
}

// markAssignment pairs a defender with the nearest opponent not already
// carrying the ball.
func (e *Engine) markAssignment(p *Player) int {
	lo, hi := opponents(p.Team)
	best, bestD := NoOwner, 0.0
	for i := lo; i < hi; i++ {
		o := &e.state.Players[i]
		if !o.Active() || i == e.state.Ball.Owner {
			continue
		}
		d := pitch.DistM(p.Pos, o.Pos)
		if best == NoOwner || d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// shapeAnchor is the player's formation anchor shifted toward the ball, the
// default spot when no objective is held.
func (e *Engine) shapeAnchor(p *Player) pitch.Vec2 {
	ball := e.state.Ball.Pos
	anchor := p.Home
	// Block shifts a third of the way toward the ball laterally, a fifth
	// longitudinally.
	shifted := pitch.Vec2{
		X: anchor.X + (ball.X-0.5)*0.20,
		Y: anchor.Y + (ball.Y-anchor.Y)*0.18,
	}
	return pitch.Clamp(shifted)
}

// coverGap is a midpoint pressing spot between the ball and own goal for a
// given line, used by defensive objective candidates.
func (e *Engine) coverGap(p *Player) pitch.Vec2 {
	own := pitch.GoalCenter(-e.state.Teams[p.Team].Dir)
	t := 0.35
	if p.Line == 0 {
		t = 0.55
	}
	return e.state.Ball.Pos.Lerp(own, t)
}

// pressureOn counts active opponents within radiusM of pos.
func (e *Engine) pressureOn(team int, pos pitch.Vec2, radiusM float64) int {
	lo, hi := opponents(team)
	n := 0
	for i := lo; i < hi; i++ {
		o := &e.state.Players[i]
		if !o.Active() {
			continue
		}
		if pitch.DistM(o.Pos, pos) <= radiusM {
			n++
		}
	}
	return n
}

// passLaneRisk estimates [0,1] interception danger on the segment from→to:
// opponents near the lane raise it, distance lowers precision anyway.
func (e *Engine) passLaneRisk(team int, from, to pitch.Vec2) float64 {
	lo, hi := opponents(team)
	fromM, toM := pitch.ToMetric(from), pitch.ToMetric(to)
	lane := toM.Sub(fromM)
	length := lane.Len()
	if length < 0.5 {
		return 0
	}
	dir := lane.Norm()
	risk := 0.0
	for i := lo; i < hi; i++ {
		o := &e.state.Players[i]
		if !o.Active() {
			continue
		}
		rel := pitch.ToMetric(o.Pos).Sub(fromM)
		along := rel.Dot(dir)
		if along < 0 || along > length {
			continue
		}
		perp := rel.Sub(dir.Scale(along)).Len()
		if perp < 4.0 {
			risk += (1 - perp/4.0) * 0.6
		}
	}
	return clamp01f(risk)
}

// spaceAround is [0,1]: how free of opponents the area around pos is.
func (e *Engine) spaceAround(team int, pos pitch.Vec2) float64 {
	n := e.pressureOn(team, pos, 8.0)
	return clamp01f(1 - float64(n)*0.34)
}
