package match

import (
	"log/slog"
	"time"

	"matchsim/internal/config"
	"matchsim/internal/pitch"
	"matchsim/internal/util"
)

// Engine owns the full match state and drives the simulation tick by tick.
// Single-threaded and synchronous: every decision and every substep of a
// tick completes before the next tick starts, and all randomness flows from
// one seeded stream in fixed code order. That is the whole determinism
// story.
type Engine struct {
	state MatchState
	plan  *config.MatchPlan

	events []Event
	stats  statsAccum

	log        *slog.Logger
	userPlayer string

	lastPossession int
	lastTouch      int // team that last touched the ball
	lastToucher    int // player that last touched it, for loose-ball goals
	lastAssist     int // most recent completed-pass sender, for goal credit

	durationMin int
	stoppage    [2]int // added minutes per half
	kickoffTeam int

	now func() time.Time // injectable clock for budget tests

	pendingRestart *restart
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger. Nil (the default) is silent.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// withClock overrides the wall clock; tests use it to force budget stops.
func withClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// New builds an engine from a validated plan. The plan is not re-validated
// here beyond what state construction needs; call plan.Validate first (or
// use Simulate, which does).
func New(plan *config.MatchPlan, opts ...Option) (*Engine, error) {
	e := &Engine{
		plan:           plan,
		now:            time.Now,
		lastPossession: 0,
		lastToucher:    NoOwner,
		lastAssist:     NoOwner,
		durationMin:    plan.Match.DurationMinutes,
	}
	if e.durationMin == 0 {
		e.durationMin = 90
	}
	e.userPlayer = plan.Match.UserPlayer

	for _, opt := range opts {
		opt(e)
	}

	e.state.rng = util.New(plan.Seed)

	if err := e.setupTeam(0, &plan.Home); err != nil {
		return nil, err
	}
	if err := e.setupTeam(1, &plan.Away); err != nil {
		return nil, err
	}
	e.state.Half = 1
	e.stats.init(plan.Home.Name, plan.Away.Name)

	// Home kicks off the first half.
	e.kickoffTeam = 0
	e.placeKickoff(e.kickoffTeam)
	return e, nil
}

// setupTeam builds player state from a team sheet and its formation.
func (e *Engine) setupTeam(team int, sheet *config.TeamSheet) error {
	f, err := config.ParseFormation(sheet.Formation)
	if err != nil {
		return err
	}
	rules, err := config.CompileRules(sheet.Instructions.Rules)
	if err != nil {
		return err
	}

	dir := 1
	if team == 1 {
		dir = -1
	}
	ts := &e.state.Teams[team]
	ts.Name = sheet.Name
	ts.Dir = dir
	ts.Dials = dials{
		Mentality:    sheet.Instructions.Mentality,
		PassingStyle: sheet.Instructions.PassingStyle,
		Tempo:        sheet.Instructions.Tempo,
		PressingLine: sheet.Instructions.PressingLine,
		Difficulty:   sheet.Instructions.AIDifficulty,
	}
	ts.Rules = rules
	ts.ruleFired = make(map[string]bool)
	ts.AttackPhase = PhaseCirculation
	ts.bench = sheet.Bench

	// Slot assignment: the sheet's goalkeeper takes slot 0, everyone else
	// fills outfield slots in listed order.
	lo, _ := teammates(team)
	slot := 1
	for _, def := range sheet.Players {
		var idx int
		var sl config.Slot
		if def.Position == "GK" {
			idx = lo
			sl = f.Slots[0]
		} else {
			idx = lo + slot
			sl = f.Slots[slot]
			slot++
		}
		cond := def.Condition
		if cond == 0 {
			cond = 1
		}
		traits := make(map[string]bool, len(def.Traits))
		for _, t := range def.Traits {
			traits[t] = true
		}
		p := Player{
			Idx:       idx,
			Team:      team,
			Name:      def.Name,
			Role:      roleFromString(def.Position),
			Line:      sl.Line,
			Overall:   def.Overall,
			Condition: cond,
			Traits:    traits,
			Home:      mirrorFor(pitch.Vec2{X: sl.X, Y: sl.Y}, dir),
			Stamina:   cond,
			Phase:     StDefensiveShape,
		}
		p.Pos = p.Home
		e.state.Players[idx] = p
	}
	return nil
}

// mirrorFor flips a formation slot (defined for dir=+1) for the team
// attacking the other way.
func mirrorFor(p pitch.Vec2, dir int) pitch.Vec2 {
	if dir > 0 {
		return p
	}
	return pitch.Vec2{X: 1 - p.X, Y: 1 - p.Y}
}

// Simulate validates and runs a full match under the budget. This is the
// single entry point the surrounding layers consume.
func Simulate(plan *config.MatchPlan, budget SimBudget, opts ...Option) (*Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	e, err := New(plan, opts...)
	if err != nil {
		return nil, err
	}
	return e.Run(budget), nil
}

// Run drives the tick loop until full time or budget exhaustion.
func (e *Engine) Run(budget SimBudget) *Result {
	start := e.now()
	e.logInfo("kickoff", "home", e.plan.Home.Name, "away", e.plan.Away.Name, "seed", e.plan.Seed)
	e.emit(Event{Minute: 1, Type: EvKickOff, Payload: map[string]any{
		"home": e.plan.Home.Name, "away": e.plan.Away.Name,
	}})

	for {
		if reason, hit := budget.exceeded(e.now().Sub(start), e.minutesSimulated(), len(e.events)); hit {
			e.logInfo("budget stop", "reason", reason, "minute", e.state.Minute())
			return e.partialResult(reason)
		}
		// Recomputed each pass: stoppage time is stamped mid-match.
		if e.state.Tick >= e.fullTimeTick() {
			break
		}
		e.tick()
	}

	e.emit(Event{Minute: e.state.Minute(), Type: EvFullTime, Payload: map[string]any{
		"score": scoreString(e.state.Score),
	}})
	e.logInfo("full time", "score", scoreString(e.state.Score))
	return e.finalResult()
}

// tick advances the world one 250ms step in the fixed pipeline order:
// tactical layer, phase states, off-ball scheduling, carrier decision, duel,
// physics, restart handling.
func (e *Engine) tick() {
	e.maybeHalftime()

	e.updateTeamLayer()
	e.updatePhases()
	e.scheduleOffBall()
	e.decideCarrier()
	e.maybeStartDuel()
	e.updateDuel()

	w := e.buildWindow()
	for e.step(w) {
	}

	e.claimLooseBall()
	e.applyRestart()
	e.drainStamina()
	e.stats.tickSample(e)

	e.state.Tick++
}

// minutesSimulated is the budget-facing clock; it lags Minute by the
// in-flight tick.
func (e *Engine) minutesSimulated() int {
	return e.state.Tick / TicksPerMinute
}

// fullTimeTick accounts for both halves' stoppage time.
func (e *Engine) fullTimeTick() int {
	return (e.durationMin + e.stoppage[0] + e.stoppage[1]) * TicksPerMinute
}

// halfTimeTick is the tick the first half (plus its stoppage) ends on.
func (e *Engine) halfTimeTick() int {
	return (e.durationMin/2 + e.stoppage[0]) * TicksPerMinute
}

// maybeHalftime handles the break: direction swap, partial stamina
// recovery, second-half kickoff.
func (e *Engine) maybeHalftime() {
	if e.state.Half != 1 {
		return
	}
	if e.stoppage[0] == 0 {
		// Stamp first-half stoppage when the regulation half ends.
		if e.state.Tick >= (e.durationMin/2)*TicksPerMinute {
			e.stoppage[0] = e.addedMinutes()
		}
		if e.stoppage[0] == 0 {
			return
		}
	}
	if e.state.Tick < e.halfTimeTick() {
		return
	}
	e.state.Half = 2
	e.emit(Event{Minute: e.state.Minute(), Type: EvHalfTime, Payload: map[string]any{
		"score": scoreString(e.state.Score),
	}})
	e.logInfo("halftime", "score", scoreString(e.state.Score))

	for t := 0; t < 2; t++ {
		ts := &e.state.Teams[t]
		ts.Dir = -ts.Dir
		ts.transitionUntil = 0
	}
	for i := range e.state.Players {
		p := &e.state.Players[i]
		p.Home = pitch.Vec2{X: 1 - p.Home.X, Y: 1 - p.Home.Y}
		p.Stamina = clamp01f(p.Stamina + 0.18)
		p.Objective = nil
	}
	// The second-half kickoff goes to the team that did not start.
	e.placeKickoff(1 - e.kickoffTeam)
	e.stoppage[1] = e.addedMinutes()
}

// addedMinutes derives stoppage from how eventful the half was.
func (e *Engine) addedMinutes() int {
	n := 1 + e.stats.disruptions()/4
	if n > 5 {
		n = 5
	}
	return n
}

func (e *Engine) logInfo(msg string, args ...any) {
	if e.log != nil {
		e.log.Info(msg, args...)
	}
}

func (e *Engine) logDebug(msg string, args ...any) {
	if e.log != nil {
		e.log.Debug(msg, args...)
	}
}
