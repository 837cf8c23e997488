package match

import (
	"sort"

	"matchsim/internal/pitch"
)

// Off-ball decision scheduler. Not every agent re-decides every tick: a
// budgeted subset is selected by priority, everyone else keeps their
// objective until its TTL or a force-expire trigger fires.

type Urgency int

const (
	UrgencyJog Urgency = iota
	UrgencySprint
)

func (u Urgency) String() string {
	if u == UrgencySprint {
		return "sprint"
	}
	return "jog"
}

// Objective is one off-ball player's standing order.
type Objective struct {
	Target     pitch.Vec2
	Urgency    Urgency
	ExpireTick int
	Quality    float64 // normalized score at creation time
	kind       ActionKind
	issuedPoss int // possession holder when issued; flip force-expires
}

const (
	offBallBudget           = 6
	offBallBudgetTransition = 10
	nearestBallSelectN      = 3

	objTTLNormal     = 12 // ticks; 3s
	objTTLTransition = 6

	// forceExpireProximityM force-expires an objective when the ball comes
	// this close to the holder.
	forceExpireProximityM = 8.0

	staminaCollapse = 0.15
)

// scheduleOffBall runs one scheduler pass: expiry sweep, budgeted selection,
// decision, collision resolution.
func (e *Engine) scheduleOffBall() {
	e.expireObjectives()

	budget := offBallBudget
	if e.inTransitionWindow() {
		budget = offBallBudgetTransition
	}

	selected := e.selectDeciders(budget)
	for _, idx := range selected {
		e.decideObjective(idx)
	}
}

// inTransitionWindow reports whether either side is inside its post-turnover
// window.
func (e *Engine) inTransitionWindow() bool {
	return e.state.Teams[0].transitionUntil > e.state.Tick ||
		e.state.Teams[1].transitionUntil > e.state.Tick
}

// expireObjectives clears objectives whose TTL lapsed or whose force-expire
// conditions hold: possession changed since issue, ball arrived nearby,
// stamina collapsed while sprinting, or the target went invalid.
func (e *Engine) expireObjectives() {
	for i := range e.state.Players {
		p := &e.state.Players[i]
		obj := p.Objective
		if obj == nil {
			continue
		}
		switch {
		case e.state.Tick >= obj.ExpireTick:
			p.Objective = nil
		case e.possession() != obj.issuedPoss:
			p.Objective = nil
		case pitch.DistM(p.Pos, e.state.Ball.Pos) < forceExpireProximityM:
			p.Objective = nil
		case obj.Urgency == UrgencySprint && p.Stamina < staminaCollapse:
			p.Objective = nil
		case pitch.OutOfPlay(obj.Target):
			p.Objective = nil
		case pitch.DistM(p.Pos, obj.Target) < 0.5:
			// Target collapsed onto the player's own position.
			p.Objective = nil
		}
	}
}

// selectDeciders builds this tick's decision subset, in priority order:
// (1) the N active off-ball players nearest the ball, (2) one representative
// of any field line not yet covered, (3) players whose objective expired.
// The subset is capped at budget.
func (e *Engine) selectDeciders(budget int) []int {
	carrier := e.state.Ball.Owner
	taken := make(map[int]bool, budget)
	var out []int

	add := func(idx int) bool {
		if len(out) >= budget || taken[idx] {
			return len(out) < budget
		}
		taken[idx] = true
		out = append(out, idx)
		return true
	}

	// (1) nearest the ball, both teams interleaved by distance.
	type distIdx struct {
		d   float64
		idx int
	}
	var byDist []distIdx
	for i := range e.state.Players {
		p := &e.state.Players[i]
		if !p.Active() || i == carrier {
			continue
		}
		byDist = append(byDist, distIdx{pitch.DistM(p.Pos, e.state.Ball.Pos), i})
	}
	sort.Slice(byDist, func(a, b int) bool {
		if byDist[a].d != byDist[b].d {
			return byDist[a].d < byDist[b].d
		}
		return byDist[a].idx < byDist[b].idx
	})
	for i := 0; i < len(byDist) && i < nearestBallSelectN*2; i++ {
		if !add(byDist[i].idx) {
			return out
		}
	}

	// (2) line coverage: one player per (team, line) not yet represented.
	covered := make(map[[2]int]bool)
	for _, idx := range out {
		p := &e.state.Players[idx]
		covered[[2]int{p.Team, p.Line}] = true
	}
	for i := range e.state.Players {
		p := &e.state.Players[i]
		if !p.Active() || i == carrier {
			continue
		}
		key := [2]int{p.Team, p.Line}
		if covered[key] {
			continue
		}
		covered[key] = true
		if !add(i) {
			return out
		}
	}

	// (3) anyone whose objective was force-expired and not yet picked.
	for i := range e.state.Players {
		p := &e.state.Players[i]
		if !p.Active() || i == carrier || p.Objective != nil {
			continue
		}
		if !add(i) {
			return out
		}
	}
	return out
}

// decideObjective evaluates positional candidates for one selected player
// and installs the winning objective, resolving collisions against other
// players' standing objectives.
func (e *Engine) decideObjective(idx int) {
	p := &e.state.Players[idx]
	ctx := e.newEvalContext(p)
	cands := e.offBallCandidates(p)
	if len(cands) == 0 {
		p.Objective = nil // hold: fall back to shape anchor movement
		return
	}

	scored := make([]ScoredAction, 0, len(cands))
	for _, c := range cands {
		sc := e.scoreOffBall(ctx, c)
		scored = append(scored, ScoredAction{Candidate: c, Score: sc, Total: sc.ApplyWeights(ctx.weights)})
	}
	pick := e.pickSoftmax(scored, 0.08)

	spot, ok := e.resolveTargetCollision(idx, pick.Candidate.Spot)
	if !ok {
		p.Objective = nil
		return
	}

	p.Objective = &Objective{
		Target:     spot,
		Urgency:    e.urgencyFor(p),
		ExpireTick: e.state.Tick + e.objectiveTTL(),
		Quality:    pick.Total,
		kind:       pick.Candidate.Kind,
		issuedPoss: e.possession(),
	}
}

// offBallCandidates builds positional candidates legal for the player's
// phase state.
func (e *Engine) offBallCandidates(p *Player) []ActionCandidate {
	dir := e.state.Teams[p.Team].Dir
	var out []ActionCandidate
	switch p.Phase {
	case StOffBallAttack, StTransitionWin, StReadyToReceive:
		// Support the carrier, make a forward run, hold width, or sit in
		// the shape.
		anchor := e.shapeAnchor(p)
		out = append(out, ActionCandidate{Kind: ActMoveTo, Target: NoOwner, Spot: anchor})
		run := pitch.Clamp(pitch.Vec2{X: p.Pos.X + 0.12*float64(dir), Y: p.Pos.Y})
		out = append(out, ActionCandidate{Kind: ActMakeRun, Target: NoOwner, Spot: run})
		if carrier := e.state.Ball.Owner; carrier != NoOwner && teamOf(carrier) == p.Team {
			support := e.state.Players[carrier].Pos.Lerp(anchor, 0.5)
			out = append(out, ActionCandidate{Kind: ActMoveTo, Target: carrier, Spot: pitch.Clamp(support)})
		}
		wide := pitch.Clamp(pitch.Vec2{X: p.Pos.X, Y: widthHold(p.Home.Y)})
		out = append(out, ActionCandidate{Kind: ActMoveTo, Target: NoOwner, Spot: wide})

	case StDefendBallCarrier:
		out = append(out, ActionCandidate{Kind: ActPress, Target: e.state.Ball.Owner, Spot: e.state.Ball.Pos})

	case StDefendOffBallTarget:
		if mark := e.markAssignment(p); mark != NoOwner {
			own := pitch.GoalCenter(-dir)
			spot := e.state.Players[mark].Pos.Lerp(own, 0.15)
			out = append(out, ActionCandidate{Kind: ActMark, Target: mark, Spot: pitch.Clamp(spot)})
		}
		out = append(out, ActionCandidate{Kind: ActCoverSpace, Target: NoOwner, Spot: e.coverGap(p)})

	case StDefensiveShape, StTransitionLoss:
		out = append(out, ActionCandidate{Kind: ActMoveTo, Target: NoOwner, Spot: e.shapeAnchor(p)})
		out = append(out, ActionCandidate{Kind: ActCoverSpace, Target: NoOwner, Spot: e.coverGap(p)})
	}
	return out
}

// widthHold keeps wide players wide and central players central.
func widthHold(homeY float64) float64 {
	if homeY < 0.35 {
		return 0.12
	}
	if homeY > 0.65 {
		return 0.88
	}
	return homeY
}

// scoreOffBall computes factors for a positional candidate.
func (e *Engine) scoreOffBall(ctx evalContext, c ActionCandidate) ActionScore {
	p := ctx.player
	var s ActionScore
	d := pitch.DistM(p.Pos, c.Spot)
	s.Distance = clamp01f(1 - d/40.0)
	s.Safety = clamp01f(1 - float64(e.pressureOn(p.Team, c.Spot, 6.0))*0.25)
	s.Readiness = clamp01f(0.3 + 0.7*p.Stamina)
	s.Progression = progressionGain(p.Pos, c.Spot, ctx.dir)
	s.Space = e.spaceAround(p.Team, c.Spot)
	s.Tactical = e.tacticalFit(p.Team, c, c.Spot)
	if c.Kind == ActMark || c.Kind == ActPress || c.Kind == ActCoverSpace {
		// Defensive work is tactical, not progressive.
		s.Progression = 0.5
		s.Tactical = clamp01f(s.Tactical + 0.25)
	}
	return s
}

// resolveTargetCollision nudges a proposed spot laterally when another
// player already owns an objective within collisionRadiusM of it. Two nudges
// are tried; an unresolvable collision reports false and the caller falls
// back to no objective.
func (e *Engine) resolveTargetCollision(idx int, spot pitch.Vec2) (pitch.Vec2, bool) {
	const collisionRadiusM = 3.0
	const nudge = 4.0 / pitch.WidthM

	try := func(s pitch.Vec2) bool {
		for i := range e.state.Players {
			if i == idx {
				continue
			}
			o := e.state.Players[i].Objective
			if o == nil {
				continue
			}
			if pitch.DistM(o.Target, s) < collisionRadiusM {
				return false
			}
		}
		return true
	}

	if try(spot) {
		return spot, true
	}
	for _, dy := range []float64{nudge, -nudge} {
		alt := pitch.Clamp(pitch.Vec2{X: spot.X, Y: spot.Y + dy})
		if try(alt) {
			return alt, true
		}
	}
	return pitch.Vec2{}, false
}

// urgencyFor assigns the sprint/jog tier. Deliberately a simplified check:
// only stamina and ball zone decide, not the actual target distance.
func (e *Engine) urgencyFor(p *Player) Urgency {
	if p.Stamina < 0.35 {
		return UrgencyJog
	}
	ownThird := pitch.Third(e.state.Ball.Pos, e.state.Teams[p.Team].Dir) == 0
	if ownThird && e.possession() != p.Team {
		return UrgencySprint
	}
	if e.inTransitionWindow() {
		return UrgencySprint
	}
	return UrgencyJog
}

// objectiveTTL stamps the expiry from the game phase.
func (e *Engine) objectiveTTL() int {
	if e.inTransitionWindow() {
		return objTTLTransition
	}
	return objTTLNormal
}
