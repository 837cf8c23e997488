package match

import "matchsim/internal/pitch"

// Dead-ball handling: out-of-play classification, restart placement, fouls,
// cards, injuries and substitutions.

// restart is a scheduled dead-ball resumption applied at the end of the
// tick the ball died in.
type restart struct {
	kind string // event type: KickOff, GoalKick, Corner, ThrowIn, Foul
	team int    // team taking the restart
	spot pitch.Vec2
}

// ballWentOut classifies which boundary the ball crossed and schedules the
// matching restart. Shot outcomes resolve at kick time and arrive via
// ballArrives; a loose ball over the line inside the mouth still counts.
func (e *Engine) ballWentOut() {
	b := &e.state.Ball
	pos := b.Pos
	b.Mode = ballOutOfPlay
	b.Vel = pitch.Vec2{}
	other := 1 - e.lastTouch

	switch {
	case pos.Y < 0 || pos.Y > 1:
		spot := pitch.Clamp(pos)
		e.pendingRestart = &restart{kind: EvThrowIn, team: other, spot: spot}
	case pos.X < 0 || pos.X > 1:
		// Behind a goal line: inside the mouth it is a goal, else corner for
		// the attacker or goal kick.
		goalDir := 1
		if pos.X < 0 {
			goalDir = -1
		}
		if pitch.IsGoal(pos, goalDir) {
			e.looseBallGoal(goalDir)
			return
		}
		defending := e.defendingTeamOf(goalDir)
		if e.lastTouch == defending {
			corner := pitch.Vec2{X: boundaryX(goalDir), Y: cornerY(pos.Y)}
			e.pendingRestart = &restart{kind: EvCorner, team: 1 - defending, spot: corner}
		} else {
			e.pendingRestart = &restart{kind: EvGoalKick, team: defending}
		}
	}
}

// defendingTeamOf maps a goal direction (+1 is the X=1 goal) to the team
// defending that goal this half.
func (e *Engine) defendingTeamOf(goalDir int) int {
	if e.state.Teams[0].Dir == goalDir {
		return 1
	}
	return 0
}

func boundaryX(goalDir int) float64 {
	if goalDir > 0 {
		return 1 - pitch.BoundsPad
	}
	return pitch.BoundsPad
}

func cornerY(y float64) float64 {
	if y < 0.5 {
		return pitch.BoundsPad
	}
	return 1 - pitch.BoundsPad
}

// applyRestart resumes play from a scheduled dead ball.
func (e *Engine) applyRestart() {
	r := e.pendingRestart
	if r == nil {
		return
	}
	e.pendingRestart = nil

	switch r.kind {
	case EvKickOff:
		e.placeKickoff(r.team)
	case EvGoalKick:
		gk := e.keeperOf(r.team)
		if gk == NoOwner {
			gk = e.nearestTo(r.team, pitch.GoalCenter(-e.state.Teams[r.team].Dir))
		}
		spot := pitch.GoalCenter(-e.state.Teams[r.team].Dir)
		spot.X = clampRestartX(spot.X + float64(e.state.Teams[r.team].Dir)*0.055)
		e.state.Players[gk].Pos = spot
		e.state.Ball.Pos = spot
		e.setOwner(gk)
		e.emit(Event{Minute: e.state.Minute(), Type: EvGoalKick, Payload: map[string]any{
			"team": e.state.Teams[r.team].Name,
		}})
	case EvCorner:
		taker := e.nearestTo(r.team, r.spot)
		e.state.Players[taker].Pos = r.spot
		e.state.Ball.Pos = r.spot
		e.setOwner(taker)
		e.emit(Event{Minute: e.state.Minute(), Type: EvCorner, Payload: map[string]any{
			"team": e.state.Teams[r.team].Name, "taker": e.state.Players[taker].Name,
		}})
		e.stats.corner(r.team)
	case EvThrowIn:
		taker := e.nearestTo(r.team, r.spot)
		e.state.Players[taker].Pos = r.spot
		e.state.Ball.Pos = r.spot
		e.setOwner(taker)
		e.emit(Event{Minute: e.state.Minute(), Type: EvThrowIn, Payload: map[string]any{
			"team": e.state.Teams[r.team].Name,
		}})
	case EvFoul:
		taker := e.nearestTo(r.team, r.spot)
		e.state.Players[taker].Pos = r.spot
		e.state.Ball.Pos = r.spot
		e.setOwner(taker)
	}
}

func clampRestartX(x float64) float64 {
	if x < pitch.BoundsPad {
		return pitch.BoundsPad
	}
	if x > 1-pitch.BoundsPad {
		return 1 - pitch.BoundsPad
	}
	return x
}

// placeKickoff resets everyone to formation and gives the ball to a central
// player of the kicking team at the spot.
func (e *Engine) placeKickoff(team int) {
	center := pitch.Vec2{X: 0.5, Y: 0.5}
	for i := range e.state.Players {
		p := &e.state.Players[i]
		p.Pos = p.Home
		p.Vel = pitch.Vec2{}
		p.Objective = nil
		p.Phase = StDefensiveShape
		p.PhaseSince = e.state.Tick
	}
	e.state.duel = nil
	taker := e.centralForward(team)
	e.state.Players[taker].Pos = center
	e.state.Ball = Ball{Pos: center, Owner: NoOwner, Mode: ballControlled}
	e.setOwner(taker)
	e.state.Teams[team].AttackPhase = PhaseCirculation
}

// centralForward picks the most advanced central player to take kickoff.
func (e *Engine) centralForward(team int) int {
	lo, hi := teammates(team)
	best, bestScore := lo, -1.0
	for i := lo; i < hi; i++ {
		p := &e.state.Players[i]
		if !p.Active() || p.Role == Goalkeeper {
			continue
		}
		score := float64(p.Line) - absf(p.Home.Y-0.5)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// awardFoul emits the foul, rolls cards and injuries, and schedules the
// free kick.
func (e *Engine) awardFoul(offender, victim int) {
	off := &e.state.Players[offender]
	vic := &e.state.Players[victim]
	e.emit(Event{Minute: e.state.Minute(), Type: EvFoul, Payload: map[string]any{
		"by":   off.Name,
		"on":   vic.Name,
		"team": e.state.Teams[off.Team].Name,
	}})
	e.stats.foul(off.Team)
	off.rating.add("fouls", -0.15)

	// Card roll: nastier near the offender's own goal.
	cardChance := 0.22
	if pitch.Third(vic.Pos, e.state.Teams[vic.Team].Dir) == 2 {
		cardChance = 0.35
	}
	roll := e.state.rng.Float64()
	switch {
	case roll < cardChance*0.12:
		e.sendOff(offender, "serious foul play")
	case roll < cardChance:
		e.bookPlayer(offender, "reckless challenge")
	}

	// Injury roll for the fouled player.
	if e.state.rng.Float64() < 0.05 {
		e.injure(victim)
	}

	e.state.Ball.Owner = NoOwner
	e.state.Ball.Mode = ballOutOfPlay
	e.pendingRestart = &restart{kind: EvFoul, team: vic.Team, spot: vic.Pos}
}

// bookPlayer shows a yellow; the second yellow converts to a red.
func (e *Engine) bookPlayer(idx int, reason string) {
	p := &e.state.Players[idx]
	p.Yellow++
	e.stats.card(p.Team, false)
	e.emitCard(idx, "yellow", reason)
	if p.Yellow >= 2 {
		e.sendOff(idx, "second booking")
	}
}

// sendOff removes a player for the rest of the match.
func (e *Engine) sendOff(idx int, reason string) {
	p := &e.state.Players[idx]
	if p.SentOff {
		return
	}
	p.SentOff = true
	p.Objective = nil
	e.stats.card(p.Team, true)
	e.emitCard(idx, "red", reason)
	if e.state.Ball.Owner == idx {
		e.dropBall()
	}
}

// injure marks the event and substitutes when a bench is available;
// otherwise the player limps on at reduced condition.
func (e *Engine) injure(idx int) {
	p := &e.state.Players[idx]
	e.emit(Event{Minute: e.state.Minute(), Type: EvInjury, Payload: map[string]any{
		"player": p.Name,
		"team":   e.state.Teams[p.Team].Name,
	}})
	e.emitLog("physio", p.Name, "%s is down and needs treatment", p.Name)
	if !e.substitute(idx, "injury") {
		p.Condition *= 0.75
	}
}

// substitute swaps a bench player into the slot. Returns false when no subs
// remain or the bench has nobody left.
func (e *Engine) substitute(outIdx int, reason string) bool {
	p := &e.state.Players[outIdx]
	ts := &e.state.Teams[p.Team]
	if ts.subsUsed >= 3 || len(ts.bench) == 0 || p.Subbed {
		return false
	}
	// Prefer a like-for-like role replacement, else take the first listed.
	pick := 0
	for i, b := range ts.bench {
		if roleFromString(b.Position) == p.Role {
			pick = i
			break
		}
	}
	in := ts.bench[pick]
	ts.bench = append(ts.bench[:pick:pick], ts.bench[pick+1:]...)
	ts.subsUsed++

	e.emit(Event{Minute: e.state.Minute(), Type: EvSubstitution, Payload: map[string]any{
		"team":   ts.Name,
		"out":    p.Name,
		"in":     in.Name,
		"reason": reason,
	}})
	e.emitLog("bench", in.Name, "%s replaces %s", in.Name, p.Name)

	cond := in.Condition
	if cond == 0 {
		cond = 1
	}
	p.Name = in.Name
	// The slot takes the incoming player's role; Line stays with the slot.
	p.Role = roleFromString(in.Position)
	p.Overall = in.Overall
	p.Condition = cond
	p.Stamina = cond
	p.Subbed = true
	p.Traits = make(map[string]bool, len(in.Traits))
	for _, t := range in.Traits {
		p.Traits[t] = true
	}
	p.rating = ratingAccum{}
	return true
}
