package match

import (
	"github.com/expr-lang/expr/vm"

	"matchsim/internal/pitch"
)

// Team-level tactical layer: attack phase tracking, momentum decay, and the
// per-minute evaluation of compiled instruction rules.

const momentumDecay = 0.995

// updateTeamLayer runs once per tick, with the per-minute work gated on the
// minute boundary.
func (e *Engine) updateTeamLayer() {
	for t := 0; t < 2; t++ {
		e.updateAttackPhase(t)
		ts := &e.state.Teams[t]
		ts.Momentum = clampMomentum(ts.Momentum * momentumDecay)
	}

	if e.state.Tick%TicksPerMinute == 0 {
		for t := 0; t < 2; t++ {
			e.evaluateRules(t)
			e.staminaSubs(t)
		}
	}
}

// updateAttackPhase derives the team's mode from possession, the ball's
// third, and the transition window.
func (e *Engine) updateAttackPhase(team int) {
	ts := &e.state.Teams[team]
	if ts.transitionUntil > e.state.Tick {
		ts.AttackPhase = PhaseTransition
		return
	}
	if e.possession() != team {
		ts.AttackPhase = PhaseCirculation
		return
	}
	switch pitch.Third(e.state.Ball.Pos, ts.Dir) {
	case 0:
		ts.AttackPhase = PhaseCirculation
	default:
		ts.AttackPhase = PhasePositional
	}
}

// evaluateRules runs each compiled instruction condition against the
// current match situation and applies the adjustments of rules that fire.
// Rule order is the plan's listed order; a Once rule fires at most one time.
func (e *Engine) evaluateRules(team int) {
	ts := &e.state.Teams[team]
	if len(ts.Rules) == 0 {
		return
	}
	env := e.ruleEnv(team)
	for _, r := range ts.Rules {
		if r.Once && ts.ruleFired[r.Name] {
			continue
		}
		out, err := vm.Run(r.Program, env)
		if err != nil {
			e.logDebug("instruction rule error", "team", ts.Name, "rule", r.Name, "err", err)
			continue
		}
		fire, ok := out.(bool)
		if !ok || !fire {
			continue
		}
		ts.ruleFired[r.Name] = true
		for _, adj := range r.Then {
			e.applyAdjustment(team, adj.Dial, adj.Value)
		}
		e.emitLog("bench", ts.Name, "%s adjust tactics (%s)", ts.Name, r.Name)
	}
}

// ruleEnv builds the variable scope instruction conditions see. Keys must
// stay in lockstep with config.RuleScope.
func (e *Engine) ruleEnv(team int) map[string]any {
	own := e.state.Score[team]
	opp := e.state.Score[1-team]
	total := e.state.possessionTicks[0] + e.state.possessionTicks[1]
	share := 0.5
	if total > 0 {
		share = float64(e.state.possessionTicks[team]) / float64(total)
	}
	reds := 0
	lo, hi := teammates(team)
	for i := lo; i < hi; i++ {
		if e.state.Players[i].SentOff {
			reds++
		}
	}
	return map[string]any{
		"minute":        e.state.Minute(),
		"goal_diff":     own - opp,
		"goals_for":     own,
		"goals_against": opp,
		"possession":    share,
		"momentum":      e.state.Teams[team].Momentum,
		"red_cards":     reds,
		"second_half":   e.state.Half == 2,
	}
}

func (e *Engine) applyAdjustment(team int, dial, value string) {
	d := &e.state.Teams[team].Dials
	switch dial {
	case "mentality":
		d.Mentality = value
	case "passing_style":
		d.PassingStyle = value
	case "tempo":
		d.Tempo = value
	case "pressing_line":
		d.PressingLine = value
	}
}

// staminaSubs burns a substitution on badly gassed outfielders late on.
func (e *Engine) staminaSubs(team int) {
	if e.state.Minute() < 60 {
		return
	}
	lo, hi := teammates(team)
	for i := lo; i < hi; i++ {
		p := &e.state.Players[i]
		if !p.Active() || p.Role == Goalkeeper || p.Subbed {
			continue
		}
		if p.Stamina < 0.18 {
			if e.substitute(i, "fatigue") {
				return // one per check
			}
		}
	}
}

// drainStamina applies the per-tick cost: a base trickle plus the sprint
// premium, scaled down by overall fitness.
func (e *Engine) drainStamina() {
	for i := range e.state.Players {
		p := &e.state.Players[i]
		if !p.Active() {
			continue
		}
		drain := 0.00009
		if p.Objective != nil && p.Objective.Urgency == UrgencySprint {
			drain += 0.00035
		}
		if p.Phase == StDefendBallCarrier || p.Phase == StTransitionLoss {
			drain += 0.00020
		}
		drain *= 2 - p.Condition
		p.Stamina -= drain
		if p.Stamina < 0 {
			p.Stamina = 0
		}
	}
	// Possession accounting rides the same per-tick sweep.
	if o := e.state.Ball.Owner; o != NoOwner {
		e.state.possessionTicks[teamOf(o)]++
	}
}
