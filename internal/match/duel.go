package match

import "matchsim/internal/pitch"

// 1v1 duel resolver. An isolated carrier-versus-defender contest runs as a
// four-phase sequence; the defender chooses Contain or Commit at the gate,
// the attacker chooses Carry or TakeOn, and the crossing of the two plus the
// wrong-foot factor decides the outcome.

type duelPhase int

const (
	duelFeint duelPhase = iota
	duelCut
	duelBurst
	duelFinished
)

type DefenderChoice int

const (
	Contain DefenderChoice = iota
	Commit
)

type AttackerChoice int

const (
	Carry AttackerChoice = iota
	TakeOn
)

// DuelOutcome is the resolved result of a contest.
type DuelOutcome int

const (
	Stalemate DuelOutcome = iota
	AttackerBlocked
	DefenderWins
	AnkleBreaker // defender wrong-footed hard; stunned
	Beaten       // defender beaten, recovering
	LooseBall
	FoulOutcome
)

func (o DuelOutcome) String() string {
	switch o {
	case Stalemate:
		return "stalemate"
	case AttackerBlocked:
		return "attacker_blocked"
	case DefenderWins:
		return "defender_wins"
	case AnkleBreaker:
		return "ankle_breaker"
	case Beaten:
		return "beaten"
	case LooseBall:
		return "loose_ball"
	case FoulOutcome:
		return "foul"
	}
	return "?"
}

// DuelState is the transient per-contest record.
type DuelState struct {
	Attacker int
	Defender int

	Phase      duelPhase
	StartTick  int
	PhaseTicks int

	FeintSign float64    // which side of the carry line the feint sold
	FeintDir  pitch.Vec2 // attacker's feint direction (unit, metric)
	BurstDir  pitch.Vec2 // attacker's actual burst direction (unit, metric)

	DefChoice DefenderChoice
	AtkChoice AttackerChoice

	// Commitment in [0,1]: how much weight the defender threw behind the
	// chosen balance direction. Drives stun/recovery durations.
	Commitment float64

	// WrongFoot is dot(defender balance dir, attacker burst dir) in [-1,1].
	// Strongly negative means the defender bit on the feint.
	WrongFoot float64
}

const (
	duelIsolationRadiusM = 5.0
	duelEngageRangeM     = 2.2

	// staminaContainFloor forces Contain when the defender is too spent to
	// gamble on a lunge.
	staminaContainFloor = 0.25

	// feintAngleRad is how far the feint and the burst break off the carry
	// line, mirrored sides. Wide enough that a defender who fully buys the
	// feint ends up facing away from the burst.
	feintAngleRad = 1.1

	ankleBreakerThreshold = -0.5
)

// maybeStartDuel opens a contest when the carrier meets a lone pressing
// defender: within engage range, with no covering teammate close enough to
// matter.
func (e *Engine) maybeStartDuel() {
	if e.state.duel != nil {
		return
	}
	carrier := e.state.Ball.Owner
	if carrier == NoOwner {
		return
	}
	atk := &e.state.Players[carrier]
	defIdx := e.nearestTo(1-atk.Team, atk.Pos)
	if defIdx == NoOwner {
		return
	}
	def := &e.state.Players[defIdx]
	if def.Phase != StDefendBallCarrier || def.StunUntil > e.state.Tick {
		return
	}
	if pitch.DistM(atk.Pos, def.Pos) > duelEngageRangeM {
		return
	}
	// Isolation: no second defender inside the radius.
	lo, hi := teammates(def.Team)
	for i := lo; i < hi; i++ {
		if i == defIdx || !e.state.Players[i].Active() {
			continue
		}
		if pitch.DistM(e.state.Players[i].Pos, atk.Pos) < duelIsolationRadiusM {
			return
		}
	}

	goalDir := e.carryDirection(atk)
	sign := feintSign(e)
	e.state.duel = &DuelState{
		Attacker:  carrier,
		Defender:  defIdx,
		Phase:     duelFeint,
		StartTick: e.state.Tick,
		FeintSign: sign,
		FeintDir:  rotate(goalDir, sign*feintAngleRad),
	}
}

func feintSign(e *Engine) float64 {
	if e.state.rng.Intn(2) == 0 {
		return 1
	}
	return -1
}

// updateDuel advances an active contest one tick and applies the resolution
// when it finishes.
func (e *Engine) updateDuel() {
	d := e.state.duel
	if d == nil {
		return
	}
	atk := &e.state.Players[d.Attacker]
	def := &e.state.Players[d.Defender]

	// The contest dissolves if the ball moved on or someone is gone.
	if e.state.Ball.Owner != d.Attacker || !atk.Active() || !def.Active() {
		e.state.duel = nil
		return
	}

	d.PhaseTicks++
	switch d.Phase {
	case duelFeint:
		if d.PhaseTicks >= 2 {
			d.Phase = duelCut
			d.PhaseTicks = 0
			e.decideDuelChoices(d, atk, def)
		}
	case duelCut:
		if d.PhaseTicks >= 1 {
			d.Phase = duelBurst
			d.PhaseTicks = 0
			// Burst breaks the mirror side of the carry line from the feint.
			d.BurstDir = rotate(e.carryDirection(atk), -d.FeintSign*feintAngleRad)
			e.computeWrongFoot(d)
		}
	case duelBurst:
		if d.PhaseTicks >= 2 {
			d.Phase = duelFinished
			e.resolveDuel(d, atk, def)
			e.state.duel = nil
		}
	}
}

// decideDuelChoices runs the defender's Contain/Commit gate and the
// attacker's Carry/TakeOn pick.
func (e *Engine) decideDuelChoices(d *DuelState, atk, def *Player) {
	// Stamina override first: an exhausted defender never lunges.
	if def.Stamina < staminaContainFloor {
		d.DefChoice = Contain
	} else {
		score := 0.0
		ownGoal := pitch.GoalCenter(-e.state.Teams[def.Team].Dir)
		distGoal := pitch.DistM(def.Pos, ownGoal)
		if distGoal < 25 {
			score += 0.25 // danger zone: try to win it
		}
		if e.hasCover(def) {
			score += 0.30
		}
		score += (1 - atk.Skill()) * 0.35 // weak control invites the lunge
		score += def.Skill() * 0.20       // composure and timing
		if orDefault(e.state.Teams[def.Team].Dials.PressingLine, "mid") == "high" {
			score += 0.15
		}
		if pitch.InPenaltyArea(def.Pos, -e.state.Teams[def.Team].Dir) {
			score -= 0.25 // a lunge inside your own box invites the foul
		}
		score -= 0.10 // committing is a risk by default
		roll := e.state.rng.Float64()
		if roll < clamp01f(score) {
			d.DefChoice = Commit
			d.Commitment = clamp01f(0.4 + score*0.6)
		} else {
			d.DefChoice = Contain
		}
	}

	atkScore := atk.Skill()*0.5 + e.spaceAround(atk.Team, atk.Pos)*0.3 + 0.1
	if e.state.rng.Float64() < clamp01f(atkScore) {
		d.AtkChoice = TakeOn
	} else {
		d.AtkChoice = Carry
	}
}

// hasCover reports whether a teammate backs the defender up behind the play.
func (e *Engine) hasCover(def *Player) bool {
	lo, hi := teammates(def.Team)
	ownGoal := pitch.GoalCenter(-e.state.Teams[def.Team].Dir)
	for i := lo; i < hi; i++ {
		t := &e.state.Players[i]
		if t.Idx == def.Idx || !t.Active() {
			continue
		}
		if pitch.DistM(t.Pos, def.Pos) < 10 &&
			pitch.DistM(t.Pos, ownGoal) < pitch.DistM(def.Pos, ownGoal) {
			return true
		}
	}
	return false
}

// computeWrongFoot derives the wrong-foot factor: the defender's balance
// commits toward the feint in proportion to Commitment.
func (e *Engine) computeWrongFoot(d *DuelState) {
	balance := d.FeintDir.Scale(d.Commitment).Add(d.BurstDir.Scale(1 - d.Commitment)).Norm()
	d.WrongFoot = balance.Dot(d.BurstDir.Norm())
	if d.DefChoice == Contain {
		// A containing defender never over-commits.
		if d.WrongFoot < 0 {
			d.WrongFoot = 0
		}
	}
}

// resolveDuel crosses the two choices through the outcome matrix and applies
// the result to match state.
func (e *Engine) resolveDuel(d *DuelState, atk, def *Player) {
	outcome := duelOutcome(d, e.state.rng.Float64())
	e.applyDuelOutcome(d, outcome, atk, def)
}

// duelOutcome is the pure outcome matrix. Contain never dispossesses and is
// never beaten; Commit-vs-TakeOn swings on the wrong-foot factor.
func duelOutcome(d *DuelState, roll float64) DuelOutcome {
	switch {
	case d.DefChoice == Contain && d.AtkChoice == Carry:
		return Stalemate
	case d.DefChoice == Contain && d.AtkChoice == TakeOn:
		if roll < 0.25 {
			return AttackerBlocked
		}
		return Stalemate
	case d.DefChoice == Commit && d.AtkChoice == Carry:
		// Lunging at a player who just shields it usually wins the ball.
		if roll < 0.55 {
			return DefenderWins
		}
		if roll < 0.75 {
			return LooseBall
		}
		return FoulOutcome
	default: // Commit vs TakeOn: the wrong-foot factor decides
		wf := d.WrongFoot
		switch {
		case wf < ankleBreakerThreshold:
			return AnkleBreaker
		case wf < -0.15:
			return Beaten
		case wf < 0.2:
			if roll < 0.5 {
				return LooseBall
			}
			return FoulOutcome
		default:
			return DefenderWins
		}
	}
}

// stunTicksFor scales stun duration by how hard the defender committed.
func stunTicksFor(commitment float64) int {
	return 4 + int(commitment*8)
}

// recoveryTicksFor scales the beaten-recovery by commitment.
func recoveryTicksFor(commitment float64) int {
	return 2 + int(commitment*6)
}

func (e *Engine) applyDuelOutcome(d *DuelState, outcome DuelOutcome, atk, def *Player) {
	switch outcome {
	case Stalemate:
		// Nothing changes; the carrier keeps probing.
	case AttackerBlocked:
		// Forward progress denied: shove the carrier's velocity flat.
		atk.Vel = pitch.Vec2{}
	case DefenderWins:
		e.turnover(def.Idx, "tackle")
		e.emit(Event{Minute: e.state.Minute(), Type: EvTackle, Payload: map[string]any{
			"winner": def.Name, "loser": atk.Name, "clean": true,
		}})
	case AnkleBreaker:
		def.StunUntil = e.state.Tick + stunTicksFor(d.Commitment)
		e.emitLog("duel", atk.Name, "%s sends %s the wrong way!", atk.Name, def.Name)
		e.spotlight(atk.Idx, "beat a defender off the dribble")
	case Beaten:
		def.StunUntil = e.state.Tick + recoveryTicksFor(d.Commitment)
	case LooseBall:
		e.dropBall()
		e.emit(Event{Minute: e.state.Minute(), Type: EvTackle, Payload: map[string]any{
			"winner": def.Name, "loser": atk.Name, "clean": false, "loose": true,
		}})
	case FoulOutcome:
		e.awardFoul(def.Idx, atk.Idx)
	}
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
