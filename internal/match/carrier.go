package match

import (
	"fmt"
	"math"

	"matchsim/internal/pitch"
)

// Ball-carrier decisions and kick mechanics. A kick's outcome is resolved
// at kick time from state and one fixed-order RNG draw; the flight then just
// animates toward it. Reception is therefore a pure function of what was
// already decided.

const (
	passSpeedMS  = 16.0
	crossSpeedMS = 19.0
	shotSpeedMS  = 26.0
	clearSpeedMS = 21.0

	claimRadiusM = 1.3
)

// decisionTemp maps the team's difficulty dial onto selection temperature:
// an easy side picks sloppier on-ball actions, a hard side plays greedy.
func decisionTemp(difficulty string) float64 {
	switch difficulty {
	case "easy":
		return 0.10
	case "hard":
		return 0
	default:
		return 0.04
	}
}

// decideCarrier evaluates and executes the on-ball action for this tick.
// Dribbles fall through to the carrier's movement behavior; kicks change the
// ball's mode immediately.
func (e *Engine) decideCarrier() {
	carrier := e.state.Ball.Owner
	if carrier == NoOwner || e.state.Ball.Mode != ballControlled {
		return
	}
	// Mid-duel the carrier is locked into the contest.
	if e.state.duel != nil && e.state.duel.Attacker == carrier {
		return
	}
	p := &e.state.Players[carrier]
	ctx := e.newEvalContext(p)
	scored := e.scoreAll(ctx, e.onBallCandidates(p))
	pick := e.pickSoftmax(scored, decisionTemp(e.state.Teams[p.Team].Dials.Difficulty))

	switch pick.Candidate.Kind {
	case ActShoot:
		e.executeShot(p, pick)
	case ActPass:
		e.executePass(p, pick, flightPass, passSpeedMS)
	case ActCross:
		e.executePass(p, pick, flightCross, crossSpeedMS)
	case ActClear:
		e.executeClear(p, pick)
	default:
		// Dribble or hold: movement handled by the on-ball behavior.
	}
}

// executeShot resolves goal/save/miss at kick time and launches the flight.
func (e *Engine) executeShot(p *Player, pick ScoredAction) {
	dir := e.state.Teams[p.Team].Dir
	xg := xgValue(p.Pos, dir)
	finish := xg * (0.55 + 0.65*p.Skill())
	gk := e.keeperOf(1 - p.Team)
	if gk != NoOwner {
		finish *= 1 - 0.35*e.state.Players[gk].Skill()
	}
	pressure := float64(e.pressureOn(p.Team, p.Pos, 3.0))
	finish *= 1 - 0.15*pressure

	roll := e.state.rng.Float64()
	var outcome kickOutcome
	switch {
	case roll < finish:
		outcome = kickGoal
	case roll < finish+(1-finish)*0.45:
		outcome = kickSaved
	default:
		outcome = kickOffTarget
	}

	target := pitch.GoalCenter(dir)
	// Aim inside a post; misses sail wide of the mouth.
	aimY := 0.5 + (e.state.rng.Float64()-0.5)*(pitch.GoalWidthM/pitch.WidthM)*0.8
	target.Y = aimY
	if outcome == kickOffTarget {
		target.Y = 0.5 + signOf(aimY-0.5)*(pitch.GoalWidthM/pitch.WidthM)*1.6
	}

	e.launch(p.Idx, target, flightShot, shotSpeedMS, flightMeta{
		kicker:    p.Idx,
		receiver:  NoOwner,
		intercept: NoOwner,
		outcome:   outcome,
	})
	onTarget := outcome != kickOffTarget
	e.emitShot(p.Idx, onTarget, xg)
	e.stats.shot(p.Team, onTarget, xg)
	e.state.Teams[p.Team].Momentum = clampMomentum(e.state.Teams[p.Team].Momentum + 0.08)
	e.state.Teams[1-p.Team].Momentum = clampMomentum(e.state.Teams[1-p.Team].Momentum - 0.05)
	e.spotlight(p.Idx, "takes a shot")
	p.rating.add("shots", 0.1)
}

// executePass resolves complete/intercepted/out at kick time.
func (e *Engine) executePass(p *Player, pick ScoredAction, kind flightKind, speed float64) {
	target := pick.Candidate.Spot
	receiver := pick.Candidate.Target
	if receiver != NoOwner {
		// Lead the receiver slightly toward goal.
		dir := float64(e.state.Teams[p.Team].Dir)
		target = pitch.Clamp(pitch.Vec2{X: target.X + 0.02*dir, Y: target.Y})
	}

	risk := e.passLaneRisk(p.Team, p.Pos, target)
	distPenalty := 0.0
	if ClassifyPass(p.Pos, target) == PassLong {
		distPenalty = 0.12
	}
	complete := clamp01f(0.92 - risk*0.55 - distPenalty + 0.10*p.Skill())

	roll := e.state.rng.Float64()
	meta := flightMeta{kicker: p.Idx, receiver: receiver, intercept: NoOwner}
	switch {
	case roll < complete:
		meta.outcome = kickComplete
	case roll < complete+(1-complete)*0.7:
		meta.outcome = kickIntercepted
		meta.intercept = e.laneInterceptor(p.Team, p.Pos, target)
		if meta.intercept == NoOwner {
			meta.outcome = kickOut
		}
	default:
		meta.outcome = kickOut
	}

	e.launch(p.Idx, target, kind, speed, meta)
	e.stats.passAttempt(p.Team)
	e.logDebug("pass", "from", p.Name, "outcome", int(meta.outcome))
}

// executeClear hoofs the ball upfield with no receiver; it lands loose.
func (e *Engine) executeClear(p *Player, pick ScoredAction) {
	e.launch(p.Idx, pick.Candidate.Spot, flightClear, clearSpeedMS, flightMeta{
		kicker:    p.Idx,
		receiver:  NoOwner,
		intercept: NoOwner,
		outcome:   kickComplete,
	})
}

// launch puts the ball in flight toward a target.
func (e *Engine) launch(kicker int, target pitch.Vec2, kind flightKind, speedMS float64, meta flightMeta) {
	b := &e.state.Ball
	b.Owner = NoOwner
	b.Mode = ballInFlight
	b.flightKind = kind
	b.flightTarget = target
	b.flightMeta = meta

	fromM := pitch.ToMetric(b.Pos)
	toM := pitch.ToMetric(target)
	deltaM := toM.Sub(fromM)
	dist := deltaM.Len()
	substeps := int(math.Ceil(dist / (speedMS * SubstepSeconds)))
	if substeps < 1 {
		substeps = 1
	}
	b.flightTicks = substeps
	vm := deltaM.Norm().Scale(speedMS)
	b.Vel = pitch.Vec2{X: vm.X / pitch.LengthM, Y: vm.Y / pitch.WidthM}
	e.lastTouch = teamOf(kicker)
	e.lastToucher = kicker
}

// laneInterceptor picks the opponent closest to the pass lane,
// deterministically.
func (e *Engine) laneInterceptor(team int, from, to pitch.Vec2) int {
	lo, hi := opponents(team)
	fromM, toM := pitch.ToMetric(from), pitch.ToMetric(to)
	lane := toM.Sub(fromM)
	length := lane.Len()
	if length == 0 {
		return NoOwner
	}
	dir := lane.Norm()
	best, bestPerp := NoOwner, math.MaxFloat64
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
		if perp < bestPerp {
			best, bestPerp = i, perp
		}
	}
	if bestPerp > 6.0 {
		return NoOwner
	}
	return best
}

// ballArrives applies the pre-resolved kick outcome when the flight reaches
// its target.
func (e *Engine) ballArrives() {
	b := &e.state.Ball
	meta := b.flightMeta
	kind := b.flightKind
	b.flightKind = flightNone
	b.flightTicks = 0

	switch meta.outcome {
	case kickGoal:
		e.goalScored(meta.kicker)
	case kickSaved:
		gk := e.keeperOf(1 - teamOf(meta.kicker))
		if gk == NoOwner {
			e.dropBall()
			return
		}
		e.setOwner(gk)
		e.emitLog("match", e.state.Players[gk].Name, "%s makes the save", e.state.Players[gk].Name)
	case kickOffTarget:
		// Sailed wide: dead ball behind the line, goal kick.
		e.pendingRestart = &restart{kind: EvGoalKick, team: 1 - teamOf(meta.kicker)}
		b.Mode = ballOutOfPlay
	case kickComplete:
		if meta.receiver != NoOwner {
			e.setOwner(meta.receiver)
			if kind == flightPass || kind == flightCross {
				e.stats.passComplete(teamOf(meta.kicker))
				e.lastAssist = meta.kicker
				// Only noteworthy deliveries make the event log; routine
				// passes live in the aggregate stats.
				if kind == flightCross || ClassifyPass(e.state.Players[meta.kicker].Pos, b.Pos) == PassLong {
					e.emit(Event{Minute: e.state.Minute(), Type: EvPass, Payload: map[string]any{
						"from":  e.state.Players[meta.kicker].Name,
						"to":    e.state.Players[meta.receiver].Name,
						"cross": kind == flightCross,
					}})
				}
			}
		} else if kind == flightClear || kind == flightCross {
			e.bounceBall()
		} else {
			e.dropBall()
		}
	case kickOut:
		// Overhit: the ball runs on past its target and over the nearest
		// line. The restart comes back the usual dead-ball way.
		b.Pos = flightOverrun(b.Pos, b.Vel)
		e.ballWentOut()
	case kickIntercepted:
		e.setOwner(meta.intercept)
		e.emit(Event{Minute: e.state.Minute(), Type: EvInterception, Payload: map[string]any{
			"player": e.state.Players[meta.intercept].Name,
			"team":   e.state.Teams[teamOf(meta.intercept)].Name,
		}})
	}
}

// setOwner gives a player the ball and runs the possession-change
// bookkeeping: transition windows, momentum, attack phase resets.
func (e *Engine) setOwner(idx int) {
	b := &e.state.Ball
	prev := e.possession()
	b.Owner = idx
	b.Mode = ballControlled
	b.Pos = e.state.Players[idx].Pos
	b.Height = 0
	e.lastTouch = teamOf(idx)
	e.lastToucher = idx
	e.stats.touch(idx, e.state.Players[idx].Pos)

	team := teamOf(idx)
	if team != prev {
		e.onTurnoverTo(team)
	}
	e.lastPossession = team
}

// onTurnoverTo opens the winner's transition window and swings momentum.
func (e *Engine) onTurnoverTo(team int) {
	const transitionTicks = 12
	e.state.Teams[team].transitionUntil = e.state.Tick + transitionTicks
	e.state.Teams[team].AttackPhase = PhaseTransition
	e.state.Teams[team].Momentum = clampMomentum(e.state.Teams[team].Momentum + 0.04)
	e.state.Teams[1-team].Momentum = clampMomentum(e.state.Teams[1-team].Momentum - 0.04)
	e.stats.turnover(team)
}

// turnover hands the ball directly to a winner (tackles, saves).
func (e *Engine) turnover(idx int, reason string) {
	e.setOwner(idx)
	e.logDebug("turnover", "to", e.state.Players[idx].Name, "reason", reason)
}

// flightOverrun extends a dying flight along its direction until it crosses
// a boundary. A kick already resolved as out never trickles into the goal
// mouth; it runs wide of the post instead.
func flightOverrun(pos, vel pitch.Vec2) pitch.Vec2 {
	dir := vel.Norm()
	if dir.Len() == 0 {
		dir = pitch.Vec2{X: 1}
	}
	t := math.MaxFloat64
	if dir.X > 0 {
		t = (1 - pos.X) / dir.X
	} else if dir.X < 0 {
		t = -pos.X / dir.X
	}
	if dir.Y > 0 {
		t = math.Min(t, (1-pos.Y)/dir.Y)
	} else if dir.Y < 0 {
		t = math.Min(t, -pos.Y/dir.Y)
	}
	if t == math.MaxFloat64 || t < 0 {
		t = 0
	}
	out := pos.Add(dir.Scale(t + 0.002))
	mouthHalf := (pitch.GoalWidthM / 2) / pitch.WidthM
	if (out.X < 0 || out.X > 1) && math.Abs(out.Y-0.5) < mouthHalf {
		out.Y = 0.5 + signOf(out.Y-0.5)*(mouthHalf+0.01)
	}
	return out
}

const (
	bounceTicks   = 6   // substeps a dropped high ball keeps hopping
	bounceSpeedMS = 7.0 // metric cap on the first hop
)

// bounceBall sits a dropped clear or cross up: a short bouncing run-on in
// the flight direction, then it settles into a rolling loose ball.
func (e *Engine) bounceBall() {
	b := &e.state.Ball
	b.Owner = NoOwner
	b.Mode = ballBouncing
	b.flightKind = flightNone
	b.flightMeta = flightMeta{kicker: b.flightMeta.kicker, receiver: NoOwner, intercept: NoOwner, outcome: kickComplete}
	hopM := pitch.Vec2{X: b.Vel.X * pitch.LengthM, Y: b.Vel.Y * pitch.WidthM}.Scale(0.4).ClampLen(bounceSpeedMS)
	b.Vel = pitch.Vec2{X: hopM.X / pitch.LengthM, Y: hopM.Y / pitch.WidthM}
	b.flightTarget = pitch.Clamp(b.Pos.Add(b.Vel.Scale(float64(bounceTicks) * SubstepSeconds)))
	b.flightTicks = bounceTicks
}

// looseBallGoal credits a rolling or deflected ball that crossed the line
// inside the mouth. The last touch decides the scorer; a defending touch
// goes down as an own goal for the attacking side.
func (e *Engine) looseBallGoal(goalDir int) {
	attacking := 1 - e.defendingTeamOf(goalDir)
	if e.lastToucher != NoOwner && teamOf(e.lastToucher) == attacking {
		e.goalScored(e.lastToucher)
		return
	}
	e.state.Score[attacking]++
	e.stats.goal(attacking)
	payload := map[string]any{
		"team":     e.state.Teams[attacking].Name,
		"own_goal": true,
		"score":    scoreString(e.state.Score),
	}
	if e.lastToucher != NoOwner {
		payload["player"] = e.state.Players[e.lastToucher].Name
	}
	e.emit(Event{Minute: e.state.Minute(), Type: EvGoal, Payload: payload})
	e.emitLog("match", e.state.Teams[attacking].Name, "it trickles over the line, own goal for %s (%s)",
		e.state.Teams[attacking].Name, scoreString(e.state.Score))
	e.state.Teams[attacking].Momentum = clampMomentum(e.state.Teams[attacking].Momentum + 0.25)
	e.state.Teams[1-attacking].Momentum = clampMomentum(e.state.Teams[1-attacking].Momentum - 0.2)
	e.state.Ball.Mode = ballOutOfPlay
	e.pendingRestart = &restart{kind: EvKickOff, team: 1 - attacking}
}

// dropBall makes the ball loose and rolling from its current spot.
func (e *Engine) dropBall() {
	b := &e.state.Ball
	b.Owner = NoOwner
	b.Mode = ballRolling
	// Small deterministic scatter so the loose ball isn't claimed in place.
	ang := e.state.rng.Float64() * 2 * math.Pi
	sp := 3.0 + e.state.rng.Float64()*2.0
	b.Vel = pitch.Vec2{X: math.Cos(ang) * sp / pitch.LengthM, Y: math.Sin(ang) * sp / pitch.WidthM}
	b.Height = 0
}

// claimLooseBall lets the nearest player take a slow or stopped loose ball.
func (e *Engine) claimLooseBall() {
	b := &e.state.Ball
	if b.Owner != NoOwner || b.Mode == ballInFlight || b.Mode == ballOutOfPlay {
		return
	}
	best, bestD := NoOwner, 0.0
	for i := range e.state.Players {
		p := &e.state.Players[i]
		if !p.Active() || p.StunUntil > e.state.Tick {
			continue
		}
		d := pitch.DistM(p.Pos, b.Pos)
		if d > claimRadiusM {
			continue
		}
		if best == NoOwner || d < bestD ||
			(d == bestD && posHash(p.Pos, ActHold, i) < posHash(e.state.Players[best].Pos, ActHold, best)) {
			best, bestD = i, d
		}
	}
	if best != NoOwner {
		e.setOwner(best)
	}
}

// keeperOf finds a team's goalkeeper index.
func (e *Engine) keeperOf(team int) int {
	lo, hi := teammates(team)
	for i := lo; i < hi; i++ {
		if e.state.Players[i].Role == Goalkeeper && e.state.Players[i].Active() {
			return i
		}
	}
	return NoOwner
}

// goalScored updates the score and schedules the kickoff restart.
func (e *Engine) goalScored(scorer int) {
	team := teamOf(scorer)
	e.state.Score[team]++
	e.stats.goal(team)
	assist := NoOwner
	if e.lastAssist != NoOwner && teamOf(e.lastAssist) == team && e.lastAssist != scorer {
		assist = e.lastAssist
	}
	e.emitGoal(scorer, assist)
	e.state.Players[scorer].rating.add("goals", 1.2)
	if assist != NoOwner {
		e.state.Players[assist].rating.add("assists", 0.6)
	}
	e.state.Teams[team].Momentum = clampMomentum(e.state.Teams[team].Momentum + 0.25)
	e.state.Teams[1-team].Momentum = clampMomentum(e.state.Teams[1-team].Momentum - 0.2)

	e.state.Ball.Mode = ballOutOfPlay
	e.pendingRestart = &restart{kind: EvKickOff, team: 1 - team}
}

func clampMomentum(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func scoreString(s [2]int) string {
	return fmt.Sprintf("%d-%d", s[0], s[1])
}
