package config

// MatchPlan is the fully resolved input for one simulation run. It is
// produced by the surrounding roster/tactics layers and consumed read-only
// by the engine.
type MatchPlan struct {
	SchemaVersion int         `yaml:"schema_version" json:"schema_version"`
	Seed          int64       `yaml:"seed" json:"seed"`
	Home          TeamSheet   `yaml:"home" json:"home"`
	Away          TeamSheet   `yaml:"away" json:"away"`
	Match         MatchConfig `yaml:"match" json:"match"`
}

type TeamSheet struct {
	Name         string       `yaml:"name" json:"name"`
	Formation    string       `yaml:"formation" json:"formation"`
	Players      []PlayerDef  `yaml:"players" json:"players"`
	Bench        []PlayerDef  `yaml:"bench" json:"bench"`
	Instructions Instructions `yaml:"instructions" json:"instructions"`
}

type PlayerDef struct {
	Name      string  `yaml:"name" json:"name"`
	Position  string  `yaml:"position" json:"position"`   // GK, DF, MF, FW
	Overall   int     `yaml:"overall" json:"overall"`     // 1..99
	Condition float64 `yaml:"condition" json:"condition"` // 0..1, 0 means unset (treated as 1)

	// Optional trait tags, e.g. "playmaker", "poacher", "ball_winner".
	Traits []string `yaml:"traits" json:"traits"`
}

type MatchConfig struct {
	// DurationMinutes defaults to 90.
	DurationMinutes int `yaml:"duration_minutes" json:"duration_minutes"`

	// UserPlayer optionally spotlights one player by name; the engine emits
	// extra commentary for them but simulates them like anyone else.
	UserPlayer string `yaml:"user_player" json:"user_player"`
}

// Instructions carries per-team tactical dials plus free-form rules. All
// dials have neutral defaults when empty; unknown values are validation
// errors.
type Instructions struct {
	Mentality    string `yaml:"mentality" json:"mentality"`         // defensive, balanced, attacking
	PassingStyle string `yaml:"passing_style" json:"passing_style"` // short, mixed, direct
	Tempo        string `yaml:"tempo" json:"tempo"`                 // slow, normal, fast
	PressingLine string `yaml:"pressing_line" json:"pressing_line"` // low, mid, high
	AIDifficulty string `yaml:"ai_difficulty" json:"ai_difficulty"` // easy, normal, hard

	// Rules are conditional tactical adjustments evaluated once per
	// simulated minute, e.g. when: "minute > 70 && goal_diff < 0",
	// then: "mentality=attacking".
	Rules []InstructionRule `yaml:"rules" json:"rules"`
}

type InstructionRule struct {
	Name string `yaml:"name" json:"name"`
	When string `yaml:"when" json:"when"`
	Then string `yaml:"then" json:"then"`
	Once bool   `yaml:"once" json:"once"`
}
