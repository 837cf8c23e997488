package match

import (
	"math/rand"

	"matchsim/internal/config"
	"matchsim/internal/pitch"
)

const (
	// One logical tick is 250ms of match time, integrated in five 50ms
	// physics substeps.
	TickMS          = 250
	SubstepsPerTick = 5
	SubstepSeconds  = 0.050
	TicksPerSecond  = 4
	TicksPerMinute  = TicksPerSecond * 60

	TeamSize    = 11
	PlayerCount = 2 * TeamSize

	// NoOwner marks a loose or in-flight ball.
	NoOwner = -1
)

type Role int

const (
	Goalkeeper Role = iota
	Defender
	Midfielder
	Forward
)

func (r Role) String() string {
	switch r {
	case Goalkeeper:
		return "GK"
	case Defender:
		return "DF"
	case Midfielder:
		return "MF"
	case Forward:
		return "FW"
	}
	return "?"
}

func roleFromString(s string) Role {
	switch s {
	case "GK":
		return Goalkeeper
	case "DF":
		return Defender
	case "MF":
		return Midfielder
	default:
		return Forward
	}
}

// Player is the per-agent simulation state. Index encodes the team: 0-10 is
// the home side, 11-21 the away side.
type Player struct {
	Idx  int
	Team int // 0 home, 1 away
	Name string
	Role Role
	Line int // 0 defense, 1 midfield, 2 attack, from the formation

	Overall   int
	Condition float64
	Traits    map[string]bool

	Pos  pitch.Vec2
	Vel  pitch.Vec2
	Home pitch.Vec2 // formation anchor for the current attacking direction

	Phase      PhaseState
	PhaseSince int // tick the current phase was entered

	Objective *Objective // nil when no off-ball objective is held

	Stamina float64 // [0,1]

	Yellow  int
	SentOff bool
	Subbed  bool

	// StunUntil freezes the player after losing a duel badly.
	StunUntil int

	rating ratingAccum
}

// Skill maps overall and condition onto a [0,1] working ability.
func (p *Player) Skill() float64 {
	s := float64(p.Overall) / 99.0 * p.Condition
	if s < 0.05 {
		s = 0.05
	}
	return s
}

// Active reports whether the player is still participating.
func (p *Player) Active() bool { return !p.SentOff }

type ballMode int

const (
	ballControlled ballMode = iota
	ballInFlight
	ballRolling
	ballBouncing
	ballOutOfPlay
)

// Ball state. Velocity is stored in normalized units per second; conversions
// to meters go through pitch.ToMetric so the axis scales stay honest.
type Ball struct {
	Pos    pitch.Vec2
	Vel    pitch.Vec2
	Height float64
	Owner  int // player index or NoOwner
	Mode   ballMode

	// flight bookkeeping for in-flight balls
	flightTarget pitch.Vec2
	flightTicks  int
	flightKind   flightKind
	flightMeta   flightMeta
}

type flightKind int

const (
	flightNone flightKind = iota
	flightPass
	flightShot
	flightClear
	flightCross
)

// flightMeta carries the pre-resolved outcome of a kick so reception is a
// pure function of state decided at kick time.
type flightMeta struct {
	kicker    int
	receiver  int // intended receiver, or NoOwner
	intercept int // interceptor index, or NoOwner
	outcome   kickOutcome
}

type kickOutcome int

const (
	kickComplete kickOutcome = iota
	kickIntercepted
	kickOut
	kickGoal
	kickSaved
	kickOffTarget
)

// teamState is the per-side tactical layer: live instruction dials, attack
// phase, momentum, and compiled instruction rules.
type teamState struct {
	Name      string
	Dir       int // +1 attacks toward X=1, flipped at halftime
	Dials     dials
	Rules     []config.CompiledRule
	ruleFired map[string]bool

	AttackPhase AttackPhase
	Momentum    float64 // [-1,1]

	// transitionUntil marks the post-turnover window during which the
	// off-ball scheduler budget is raised.
	transitionUntil int

	subsUsed int
	bench    []config.PlayerDef
}

type dials struct {
	Mentality    string
	PassingStyle string
	Tempo        string
	PressingLine string
	Difficulty   string
}

// AttackPhase is the team-level tactical mode feeding evaluator weights.
type AttackPhase int

const (
	PhaseCirculation AttackPhase = iota
	PhasePositional
	PhaseTransition
)

func (a AttackPhase) String() string {
	switch a {
	case PhaseCirculation:
		return "circulation"
	case PhasePositional:
		return "positional"
	default:
		return "transition"
	}
}

// MatchState is the full mutable world, owned exclusively by the Engine for
// its lifetime and mutated only by tick advancement.
type MatchState struct {
	Tick    int
	Players [PlayerCount]Player
	Ball    Ball
	Score   [2]int
	Teams   [2]teamState

	Half int // 1 or 2

	duel *DuelState

	possessionTicks [2]int
	rng             *rand.Rand
}

// Minute maps the tick counter onto the match clock, 1-based like a
// broadcast clock (tick 0 is minute 1).
func (s *MatchState) Minute() int {
	return s.Tick/TicksPerMinute + 1
}

// teamOf returns the side an index belongs to.
func teamOf(idx int) int {
	if idx < TeamSize {
		return 0
	}
	return 1
}

// opponents returns the index range [lo,hi) of the other side.
func opponents(team int) (int, int) {
	if team == 0 {
		return TeamSize, PlayerCount
	}
	return 0, TeamSize
}

// teammates returns the index range [lo,hi) of the given side.
func teammates(team int) (int, int) {
	if team == 0 {
		return 0, TeamSize
	}
	return TeamSize, PlayerCount
}
