package match

import "matchsim/internal/pitch"

// PhaseState is a player's behavioral mode. Exactly one is active per player
// per tick.
type PhaseState int

const (
	StOnBall PhaseState = iota
	StReadyToReceive
	StOffBallAttack
	StDefendBallCarrier
	StDefendOffBallTarget
	StDefensiveShape
	StTransitionWin
	StTransitionLoss
)

func (s PhaseState) String() string {
	switch s {
	case StOnBall:
		return "on_ball"
	case StReadyToReceive:
		return "ready_to_receive"
	case StOffBallAttack:
		return "off_ball_attack"
	case StDefendBallCarrier:
		return "defend_carrier"
	case StDefendOffBallTarget:
		return "defend_target"
	case StDefensiveShape:
		return "defensive_shape"
	case StTransitionWin:
		return "transition_win"
	case StTransitionLoss:
		return "transition_loss"
	}
	return "?"
}

// stateBehavior is the strategy for one phase state: a velocity
// contribution, an O(1) fast-transition rule checked every tick, and a
// timeout predicate with its successor state. One implementation per state,
// selected via the behaviors table; no monolithic switch.
type stateBehavior interface {
	velocity(e *Engine, p *Player) pitch.Vec2
	tryFastTransition(e *Engine, p *Player) (PhaseState, bool)
	shouldTimeout(e *Engine, p *Player) bool
	timeoutTarget(e *Engine, p *Player) PhaseState
}

var behaviors = map[PhaseState]stateBehavior{
	StOnBall:              onBallBehavior{},
	StReadyToReceive:      readyToReceiveBehavior{},
	StOffBallAttack:       offBallAttackBehavior{},
	StDefendBallCarrier:   defendCarrierBehavior{},
	StDefendOffBallTarget: defendTargetBehavior{},
	StDefensiveShape:      defensiveShapeBehavior{},
	StTransitionWin:       transitionWinBehavior{},
	StTransitionLoss:      transitionLossBehavior{},
}

// setPhase records a transition, stamping the entry tick.
func (e *Engine) setPhase(p *Player, next PhaseState) {
	if p.Phase == next {
		return
	}
	p.Phase = next
	p.PhaseSince = e.state.Tick
}

// ticksInPhase is how long the player has held the current state.
func (e *Engine) ticksInPhase(p *Player) int {
	return e.state.Tick - p.PhaseSince
}

// updatePhases runs the per-tick state machine pass for all active players:
// fast transitions first, then timeout transitions. Order is fixed by index
// for determinism.
func (e *Engine) updatePhases() {
	for i := range e.state.Players {
		p := &e.state.Players[i]
		if !p.Active() {
			continue
		}
		b := behaviors[p.Phase]
		if next, ok := b.tryFastTransition(e, p); ok {
			e.setPhase(p, next)
			continue
		}
		if b.shouldTimeout(e, p) {
			e.setPhase(p, b.timeoutTarget(e, p))
		}
	}
}

// desiredVelocity asks the player's current behavior for its movement
// contribution this tick. Stunned players hold still.
func (e *Engine) desiredVelocity(p *Player) pitch.Vec2 {
	if p.StunUntil > e.state.Tick {
		return pitch.Vec2{}
	}
	return behaviors[p.Phase].velocity(e, p)
}
