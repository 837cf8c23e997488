package config

import "fmt"

// Code is a machine-readable validation error code.
type Code string

const (
	CodePlanSeedMissing       Code = "PLAN_SEED_MISSING"
	CodeTeamNameEmpty         Code = "TEAM_NAME_EMPTY"
	CodeRosterSize            Code = "ROSTER_SIZE_INVALID"
	CodeGoalkeeperCount       Code = "GOALKEEPER_COUNT_INVALID"
	CodePlayerNameEmpty       Code = "PLAYER_NAME_EMPTY"
	CodePlayerPositionInvalid Code = "PLAYER_POSITION_INVALID"
	CodePlayerOverallRange    Code = "PLAYER_OVERALL_OUT_OF_RANGE"
	CodePlayerConditionRange  Code = "PLAYER_CONDITION_OUT_OF_RANGE"
	CodeFormationUnknown      Code = "FORMATION_UNKNOWN"
	CodeInstructionInvalid    Code = "INSTRUCTION_INVALID"
	CodeInstructionRuleBad    Code = "INSTRUCTION_RULE_INVALID"
)

// ValidationError is the typed failure returned for malformed match plans.
// Simulation never starts on one of these.
type ValidationError struct {
	Code  Code
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid match plan: %s: %s (%s)", e.Field, e.Msg, e.Code)
}

func invalid(code Code, field, format string, args ...any) error {
	return &ValidationError{Code: code, Field: field, Msg: fmt.Sprintf(format, args...)}
}

var validPositions = map[string]bool{"GK": true, "DF": true, "MF": true, "FW": true}

func enumOK(v string, allowed ...string) bool {
	if v == "" {
		return true
	}
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Validate checks the plan before any simulation state is built. The first
// violation found is returned.
func (p *MatchPlan) Validate() error {
	if p.Seed == 0 {
		return invalid(CodePlanSeedMissing, "seed", "seed must be non-zero")
	}
	if err := p.Home.validate("home"); err != nil {
		return err
	}
	if err := p.Away.validate("away"); err != nil {
		return err
	}
	if d := p.Match.DurationMinutes; d < 0 || d > 120 {
		return invalid(CodeInstructionInvalid, "match.duration_minutes", "duration %d out of range", d)
	}
	return nil
}

func (t *TeamSheet) validate(field string) error {
	if t.Name == "" {
		return invalid(CodeTeamNameEmpty, field+".name", "team name required")
	}
	if len(t.Players) != 11 {
		return invalid(CodeRosterSize, field+".players", "got %d players, want 11", len(t.Players))
	}
	if _, err := ParseFormation(t.Formation); err != nil {
		return invalid(CodeFormationUnknown, field+".formation", "%v", err)
	}
	keepers := 0
	for i, pl := range t.Players {
		pf := fmt.Sprintf("%s.players[%d]", field, i)
		if pl.Name == "" {
			return invalid(CodePlayerNameEmpty, pf+".name", "player name required")
		}
		if !validPositions[pl.Position] {
			return invalid(CodePlayerPositionInvalid, pf+".position", "unknown position %q", pl.Position)
		}
		if pl.Position == "GK" {
			keepers++
		}
		if pl.Overall < 1 || pl.Overall > 99 {
			return invalid(CodePlayerOverallRange, pf+".overall", "overall %d out of [1,99]", pl.Overall)
		}
		if pl.Condition < 0 || pl.Condition > 1 {
			return invalid(CodePlayerConditionRange, pf+".condition", "condition %.2f out of [0,1]", pl.Condition)
		}
	}
	if keepers != 1 {
		return invalid(CodeGoalkeeperCount, field+".players", "got %d goalkeepers, want exactly 1", keepers)
	}
	if len(t.Bench) > 7 {
		return invalid(CodeRosterSize, field+".bench", "got %d bench players, max 7", len(t.Bench))
	}
	for i, pl := range t.Bench {
		pf := fmt.Sprintf("%s.bench[%d]", field, i)
		if pl.Name == "" {
			return invalid(CodePlayerNameEmpty, pf+".name", "player name required")
		}
		if !validPositions[pl.Position] {
			return invalid(CodePlayerPositionInvalid, pf+".position", "unknown position %q", pl.Position)
		}
		if pl.Overall < 1 || pl.Overall > 99 {
			return invalid(CodePlayerOverallRange, pf+".overall", "overall %d out of [1,99]", pl.Overall)
		}
		if pl.Condition < 0 || pl.Condition > 1 {
			return invalid(CodePlayerConditionRange, pf+".condition", "condition %.2f out of [0,1]", pl.Condition)
		}
	}
	ins := t.Instructions
	if !enumOK(ins.Mentality, "defensive", "balanced", "attacking") {
		return invalid(CodeInstructionInvalid, field+".instructions.mentality", "unknown mentality %q", ins.Mentality)
	}
	if !enumOK(ins.PassingStyle, "short", "mixed", "direct") {
		return invalid(CodeInstructionInvalid, field+".instructions.passing_style", "unknown passing style %q", ins.PassingStyle)
	}
	if !enumOK(ins.Tempo, "slow", "normal", "fast") {
		return invalid(CodeInstructionInvalid, field+".instructions.tempo", "unknown tempo %q", ins.Tempo)
	}
	if !enumOK(ins.PressingLine, "low", "mid", "high") {
		return invalid(CodeInstructionInvalid, field+".instructions.pressing_line", "unknown pressing line %q", ins.PressingLine)
	}
	if !enumOK(ins.AIDifficulty, "easy", "normal", "hard") {
		return invalid(CodeInstructionInvalid, field+".instructions.ai_difficulty", "unknown difficulty %q", ins.AIDifficulty)
	}
	for i, r := range ins.Rules {
		if r.When == "" || r.Then == "" {
			return invalid(CodeInstructionRuleBad, fmt.Sprintf("%s.instructions.rules[%d]", field, i), "rule needs both when and then")
		}
	}
	return nil
}
