package match

import (
	"math"

	"matchsim/internal/pitch"
)

// Unified action evaluator: one scoring pipeline for every decision in the
// sim. Build the legal candidate set for the player's phase state, score
// each candidate on six normalized factors, weight, pick.

// evalContext snapshots the situational inputs one decision needs.
type evalContext struct {
	player  *Player
	weights ActionWeights
	dir     int // attacking direction
}

func (e *Engine) newEvalContext(p *Player) evalContext {
	team := &e.state.Teams[p.Team]
	return evalContext{
		player:  p,
		weights: deriveWeights(p, team.Dials, team.AttackPhase),
		dir:     team.Dir,
	}
}

// onBallCandidates builds the legal set for a ball carrier: shoot, a pass
// per plausible target, dribble per force-field and probe directions, cross
// from wide final-third positions, clear under pressure in the own third.
func (e *Engine) onBallCandidates(p *Player) []ActionCandidate {
	dir := e.state.Teams[p.Team].Dir
	var out []ActionCandidate

	goal := pitch.GoalCenter(dir)
	if pitch.DistM(p.Pos, goal) < 35 {
		out = append(out, ActionCandidate{Kind: ActShoot, Target: NoOwner, Spot: goal})
	}

	lo, hi := teammates(p.Team)
	for i := lo; i < hi; i++ {
		t := &e.state.Players[i]
		if i == p.Idx || !t.Active() {
			continue
		}
		out = append(out, ActionCandidate{Kind: ActPass, Target: i, Spot: t.Pos})
	}

	// Dribble: force-field direction plus two 35° probes around it.
	base := e.carryDirection(p)
	for _, rot := range []float64{0, +0.6, -0.6} {
		d := rotate(base, rot)
		spot := pitch.Clamp(pitch.Vec2{
			X: p.Pos.X + d.X*8.0/pitch.LengthM,
			Y: p.Pos.Y + d.Y*8.0/pitch.WidthM,
		})
		out = append(out, ActionCandidate{Kind: ActDribble, Target: NoOwner, Spot: spot})
	}

	if pitch.Third(p.Pos, dir) == 2 && (p.Pos.Y < 0.25 || p.Pos.Y > 0.75) {
		box := pitch.Vec2{X: goal.X - float64(dir)*pitch.PenaltyDepthM/(2*pitch.LengthM), Y: 0.5}
		out = append(out, ActionCandidate{Kind: ActCross, Target: e.bestBoxTarget(p.Team, box), Spot: box})
	}

	if pitch.Third(p.Pos, dir) == 0 && e.pressureOn(p.Team, p.Pos, 6.0) >= 2 {
		upfield := pitch.Clamp(pitch.Vec2{X: p.Pos.X + 0.3*float64(dir), Y: p.Pos.Y})
		out = append(out, ActionCandidate{Kind: ActClear, Target: NoOwner, Spot: upfield})
	}

	return out
}

// bestBoxTarget picks the teammate nearest the box spot as a cross target.
func (e *Engine) bestBoxTarget(team int, box pitch.Vec2) int {
	return e.nearestTo(team, box)
}

// scoreOnBall computes the six factors for an on-ball candidate.
func (e *Engine) scoreOnBall(ctx evalContext, c ActionCandidate) ActionScore {
	p := ctx.player
	var s ActionScore
	switch c.Kind {
	case ActShoot:
		d := pitch.DistM(p.Pos, c.Spot)
		s.Distance = clamp01f(1 - d/35.0)
		s.Safety = clamp01f(0.3 + 0.2*e.spaceAround(p.Team, p.Pos)) // a shot always risks possession
		s.Readiness = clamp01f(p.Stamina*0.5 + 0.5)
		s.Progression = xgValue(p.Pos, ctx.dir)
		s.Space = e.spaceAround(p.Team, p.Pos)
		s.Tactical = e.tacticalFit(p.Team, c, p.Pos)

	case ActPass, ActCross:
		target := c.Spot
		s.Distance = e.passDistanceFit(p.Team, p.Pos, target)
		s.Safety = clamp01f(1 - e.passLaneRisk(p.Team, p.Pos, target))
		s.Readiness = e.receiverReadiness(c.Target)
		s.Progression = progressionGain(p.Pos, target, ctx.dir)
		s.Space = e.spaceAround(p.Team, target)
		s.Tactical = e.tacticalFit(p.Team, c, target)

	case ActDribble:
		s.Distance = 0.8 // always a short carry
		s.Safety = clamp01f(1 - float64(e.pressureOn(p.Team, c.Spot, 5.0))*0.35)
		s.Readiness = clamp01f(p.Stamina)
		s.Progression = progressionGain(p.Pos, c.Spot, ctx.dir)
		s.Space = e.spaceAround(p.Team, c.Spot)
		s.Tactical = e.tacticalFit(p.Team, c, c.Spot)

	case ActClear:
		s.Distance = 0.6
		s.Safety = 0.95
		s.Readiness = 0.9
		s.Progression = 0.15
		s.Space = 0.5
		s.Tactical = e.tacticalFit(p.Team, c, c.Spot)

	default: // ActHold
		s = ActionScore{Distance: 0.5, Safety: 0.7, Readiness: 0.5, Progression: 0.1, Space: 0.5, Tactical: 0.4}
	}
	return s
}

// passDistanceFit rates the metric pass length against the team's passing
// style preference.
func (e *Engine) passDistanceFit(team int, from, to pitch.Vec2) float64 {
	style := orDefault(e.state.Teams[team].Dials.PassingStyle, "mixed")
	switch ClassifyPass(from, to) {
	case PassShort:
		if style == "direct" {
			return 0.55
		}
		return 0.95
	case PassMedium:
		return 0.80
	default:
		if style == "direct" {
			return 0.75
		}
		if style == "short" {
			return 0.30
		}
		return 0.50
	}
}

// receiverReadiness rates how prepared a pass target is.
func (e *Engine) receiverReadiness(idx int) float64 {
	if idx == NoOwner {
		return 0.5
	}
	t := &e.state.Players[idx]
	r := 0.4 + 0.4*t.Stamina
	switch t.Phase {
	case StReadyToReceive:
		r += 0.2
	case StOffBallAttack, StTransitionWin:
		r += 0.1
	}
	return clamp01f(r)
}

// progressionGain is the normalized forward value gained by moving the ball
// from 'from' to 'to', folded with the xG uplift near goal.
func progressionGain(from, to pitch.Vec2, dir int) float64 {
	gain := (to.X - from.X) * float64(dir) // signed forward share
	base := clamp01f(0.5 + gain*1.2)
	return clamp01f(base*0.7 + xgValue(to, dir)*0.3)
}

// tacticalFit rates a candidate against the team's current attack phase and
// buildup third.
func (e *Engine) tacticalFit(team int, c ActionCandidate, spot pitch.Vec2) float64 {
	ts := &e.state.Teams[team]
	third := pitch.Third(spot, ts.Dir)
	fit := 0.5
	switch ts.AttackPhase {
	case PhaseCirculation:
		if c.Kind == ActPass {
			fit = 0.8
		}
		if c.Kind == ActShoot {
			fit = 0.3
		}
	case PhasePositional:
		switch c.Kind {
		case ActPass, ActDribble:
			fit = 0.65
		case ActCross:
			fit = 0.7
		case ActShoot:
			if third == 2 {
				fit = 0.75
			}
		}
	case PhaseTransition:
		switch c.Kind {
		case ActDribble, ActShoot:
			fit = 0.8
		case ActPass:
			fit = 0.6
		case ActClear:
			fit = 0.2
		}
	}
	// Momentum tilts aggression slightly.
	fit += ts.Momentum * 0.1
	return clamp01f(fit)
}

// scoreAll runs the pipeline over a candidate set.
func (e *Engine) scoreAll(ctx evalContext, cands []ActionCandidate) []ScoredAction {
	out := make([]ScoredAction, 0, len(cands))
	for _, c := range cands {
		sc := e.scoreOnBall(ctx, c)
		out = append(out, ScoredAction{
			Candidate: c,
			Score:     sc,
			Total:     sc.ApplyWeights(ctx.weights),
		})
	}
	return out
}

// pickGreedy returns the highest-total action; exact ties resolve by the
// positional hash, never by input order alone. An empty set yields a hold.
func pickGreedy(scored []ScoredAction) ScoredAction {
	if len(scored) == 0 {
		return holdAction()
	}
	best := scored[0]
	for _, s := range scored[1:] {
		if s.Total > best.Total {
			best = s
			continue
		}
		if s.Total == best.Total &&
			posHash(s.Candidate.Spot, s.Candidate.Kind, s.Candidate.Target) <
				posHash(best.Candidate.Spot, best.Candidate.Kind, best.Candidate.Target) {
			best = s
		}
	}
	return best
}

// pickSoftmax samples proportionally to exp(total/temp). Used by the
// off-ball scheduler so twenty agents don't all converge on one spot. Draws
// exactly one RNG value regardless of set size.
func (e *Engine) pickSoftmax(scored []ScoredAction, temp float64) ScoredAction {
	if len(scored) == 0 {
		return holdAction()
	}
	if temp <= 0 {
		return pickGreedy(scored)
	}
	max := scored[0].Total
	for _, s := range scored[1:] {
		if s.Total > max {
			max = s.Total
		}
	}
	sum := 0.0
	ws := make([]float64, len(scored))
	for i, s := range scored {
		w := math.Exp((s.Total - max) / temp)
		ws[i] = w
		sum += w
	}
	r := e.state.rng.Float64() * sum
	for i, w := range ws {
		r -= w
		if r <= 0 {
			return scored[i]
		}
	}
	return scored[len(scored)-1]
}

func holdAction() ScoredAction {
	return ScoredAction{
		Candidate: ActionCandidate{Kind: ActHold, Target: NoOwner},
		Score:     ActionScore{Safety: 0.7},
	}
}

// rotate turns a unit vector by the given angle (radians).
func rotate(v pitch.Vec2, rad float64) pitch.Vec2 {
	c, s := math.Cos(rad), math.Sin(rad)
	return pitch.Vec2{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}
