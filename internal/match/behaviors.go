package match

import "matchsim/internal/pitch"

// Base speeds, meters per second, before skill and stamina scaling.
const (
	speedSprint = 8.0
	speedRun    = 6.3
	speedJog    = 4.2

	// pressRangeM is the carrier-defender distance that counts as pressing
	// contact and can open a duel.
	pressRangeM = 2.2
)

// effectiveSpeed scales a base speed by skill and stamina.
func effectiveSpeed(p *Player, base float64) float64 {
	return base * (0.75 + 0.35*p.Skill()) * (0.60 + 0.40*p.Stamina)
}

// toward returns a normalized-coordinate velocity moving p to target at the
// given metric speed, slowing on final approach to avoid overshoot.
func toward(p *Player, target pitch.Vec2, speedMS float64) pitch.Vec2 {
	deltaM := pitch.ToMetric(target).Sub(pitch.ToMetric(p.Pos))
	d := deltaM.Len()
	if d < 0.05 {
		return pitch.Vec2{}
	}
	if d < speedMS*0.5 {
		speedMS = d * 2
	}
	v := deltaM.Norm().Scale(speedMS)
	return pitch.Vec2{X: v.X / pitch.LengthM, Y: v.Y / pitch.WidthM}
}

// OnBall

type onBallBehavior struct{}

func (onBallBehavior) velocity(e *Engine, p *Player) pitch.Vec2 {
	dir := e.carryDirection(p)
	speed := effectiveSpeed(p, speedRun) * 0.85 // carrying slows you down
	v := dir.Scale(speed)
	return pitch.Vec2{X: v.X / pitch.LengthM, Y: v.Y / pitch.WidthM}
}

func (onBallBehavior) tryFastTransition(e *Engine, p *Player) (PhaseState, bool) {
	if e.state.Ball.Owner == p.Idx {
		return 0, false
	}
	if e.possession() == p.Team {
		return StOffBallAttack, true
	}
	return StTransitionLoss, true
}

func (onBallBehavior) shouldTimeout(*Engine, *Player) bool       { return false }
func (onBallBehavior) timeoutTarget(*Engine, *Player) PhaseState { return StOnBall }

// ReadyToReceive

type readyToReceiveBehavior struct{}

func (readyToReceiveBehavior) velocity(e *Engine, p *Player) pitch.Vec2 {
	b := &e.state.Ball
	if b.Mode == ballInFlight && b.flightMeta.receiver == p.Idx {
		return toward(p, b.flightTarget, effectiveSpeed(p, speedRun))
	}
	return toward(p, p.Pos, 0)
}

func (readyToReceiveBehavior) tryFastTransition(e *Engine, p *Player) (PhaseState, bool) {
	if e.state.Ball.Owner == p.Idx {
		return StOnBall, true
	}
	if e.possession() != p.Team {
		return StTransitionLoss, true
	}
	return 0, false
}

func (readyToReceiveBehavior) shouldTimeout(e *Engine, p *Player) bool {
	// The expected ball never arrived.
	return e.ticksInPhase(p) >= 8 && e.state.Ball.flightMeta.receiver != p.Idx
}

func (readyToReceiveBehavior) timeoutTarget(*Engine, *Player) PhaseState {
	return StOffBallAttack
}

// OffBallAttack

type offBallAttackBehavior struct{}

func (offBallAttackBehavior) velocity(e *Engine, p *Player) pitch.Vec2 {
	if obj := p.Objective; obj != nil {
		base := speedJog
		if obj.Urgency == UrgencySprint {
			base = speedSprint
		}
		return toward(p, obj.Target, effectiveSpeed(p, base))
	}
	return toward(p, e.shapeAnchor(p), effectiveSpeed(p, speedJog))
}

func (offBallAttackBehavior) tryFastTransition(e *Engine, p *Player) (PhaseState, bool) {
	if e.state.Ball.Owner == p.Idx {
		return StOnBall, true
	}
	if e.state.Ball.Mode == ballInFlight && e.state.Ball.flightMeta.receiver == p.Idx {
		return StReadyToReceive, true
	}
	if e.possession() != p.Team {
		return StTransitionLoss, true
	}
	return 0, false
}

func (offBallAttackBehavior) shouldTimeout(*Engine, *Player) bool       { return false }
func (offBallAttackBehavior) timeoutTarget(*Engine, *Player) PhaseState { return StOffBallAttack }

// DefendBallCarrier

type defendCarrierBehavior struct{}

func (defendCarrierBehavior) velocity(e *Engine, p *Player) pitch.Vec2 {
	carrier := e.state.Ball.Owner
	if carrier == NoOwner {
		return toward(p, e.state.Ball.Pos, effectiveSpeed(p, speedSprint))
	}
	return toward(p, e.state.Players[carrier].Pos, effectiveSpeed(p, speedSprint))
}

func (defendCarrierBehavior) tryFastTransition(e *Engine, p *Player) (PhaseState, bool) {
	if e.possession() == p.Team {
		return StTransitionWin, true
	}
	if !e.isNearestPresser(p) {
		return StDefendOffBallTarget, true
	}
	return 0, false
}

func (defendCarrierBehavior) shouldTimeout(e *Engine, p *Player) bool {
	return e.ticksInPhase(p) >= 24 // chased too long without winning it
}

func (defendCarrierBehavior) timeoutTarget(*Engine, *Player) PhaseState {
	return StDefensiveShape
}

// DefendOffBallTarget

type defendTargetBehavior struct{}

func (defendTargetBehavior) velocity(e *Engine, p *Player) pitch.Vec2 {
	mark := e.markAssignment(p)
	if mark == NoOwner {
		return toward(p, e.shapeAnchor(p), effectiveSpeed(p, speedJog))
	}
	// Goal-side: sit between the mark and our own goal mouth.
	own := pitch.GoalCenter(-e.state.Teams[p.Team].Dir)
	spot := e.state.Players[mark].Pos.Lerp(own, 0.15)
	return toward(p, spot, effectiveSpeed(p, speedRun))
}

func (defendTargetBehavior) tryFastTransition(e *Engine, p *Player) (PhaseState, bool) {
	if e.possession() == p.Team {
		return StTransitionWin, true
	}
	if e.isNearestPresser(p) {
		return StDefendBallCarrier, true
	}
	return 0, false
}

func (defendTargetBehavior) shouldTimeout(e *Engine, p *Player) bool {
	return e.ticksInPhase(p) >= 16
}

func (defendTargetBehavior) timeoutTarget(*Engine, *Player) PhaseState {
	return StDefensiveShape
}

// DefensiveShape

type defensiveShapeBehavior struct{}

func (defensiveShapeBehavior) velocity(e *Engine, p *Player) pitch.Vec2 {
	return toward(p, e.shapeAnchor(p), effectiveSpeed(p, speedJog))
}

func (defensiveShapeBehavior) tryFastTransition(e *Engine, p *Player) (PhaseState, bool) {
	if e.possession() == p.Team {
		return StTransitionWin, true
	}
	if e.isNearestPresser(p) {
		return StDefendBallCarrier, true
	}
	return 0, false
}

func (defensiveShapeBehavior) shouldTimeout(*Engine, *Player) bool       { return false }
func (defensiveShapeBehavior) timeoutTarget(*Engine, *Player) PhaseState { return StDefensiveShape }

// TransitionWin

type transitionWinBehavior struct{}

func (transitionWinBehavior) velocity(e *Engine, p *Player) pitch.Vec2 {
	if obj := p.Objective; obj != nil {
		return toward(p, obj.Target, effectiveSpeed(p, speedSprint))
	}
	// Push up field immediately after winning the ball.
	dir := e.state.Teams[p.Team].Dir
	ahead := pitch.Clamp(pitch.Vec2{X: p.Pos.X + 0.08*float64(dir), Y: p.Pos.Y})
	return toward(p, ahead, effectiveSpeed(p, speedRun))
}

func (transitionWinBehavior) tryFastTransition(e *Engine, p *Player) (PhaseState, bool) {
	if e.state.Ball.Owner == p.Idx {
		return StOnBall, true
	}
	if e.possession() != p.Team {
		return StTransitionLoss, true
	}
	return 0, false
}

func (transitionWinBehavior) shouldTimeout(e *Engine, p *Player) bool {
	return e.ticksInPhase(p) >= 8
}

func (transitionWinBehavior) timeoutTarget(*Engine, *Player) PhaseState {
	return StOffBallAttack
}

// TransitionLoss

type transitionLossBehavior struct{}

func (transitionLossBehavior) velocity(e *Engine, p *Player) pitch.Vec2 {
	// Recover goal-side at full tilt.
	own := pitch.GoalCenter(-e.state.Teams[p.Team].Dir)
	spot := p.Pos.Lerp(own, 0.25)
	return toward(p, spot, effectiveSpeed(p, speedSprint))
}

func (transitionLossBehavior) tryFastTransition(e *Engine, p *Player) (PhaseState, bool) {
	if e.possession() == p.Team {
		return StTransitionWin, true
	}
	return 0, false
}

func (transitionLossBehavior) shouldTimeout(e *Engine, p *Player) bool {
	return e.ticksInPhase(p) >= 8
}

func (transitionLossBehavior) timeoutTarget(e *Engine, p *Player) PhaseState {
	if e.isNearestPresser(p) {
		return StDefendBallCarrier
	}
	return StDefensiveShape
}
