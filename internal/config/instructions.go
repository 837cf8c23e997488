package config

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CompiledRule is an instruction rule with its condition compiled to expr
// bytecode. Conditions are compiled once at plan load; a rule that fails to
// compile fails plan validation rather than being skipped silently.
type CompiledRule struct {
	Name    string
	When    string
	Program *vm.Program
	Then    []Adjustment
	Once    bool
}

// Adjustment is one tactical dial change fired by a rule.
type Adjustment struct {
	Dial  string // mentality, passing_style, tempo, pressing_line
	Value string
}

// RuleScope lists the variables instruction conditions may reference. The
// engine fills a map with exactly these keys each evaluation.
var RuleScope = map[string]any{
	"minute":        0,
	"goal_diff":     0, // own goals minus opponent goals
	"goals_for":     0,
	"goals_against": 0,
	"possession":    0.0, // own share in [0,1]
	"momentum":      0.0, // [-1,1], positive favors this team
	"red_cards":     0,
	"second_half":   false,
}

var adjustableDials = map[string][]string{
	"mentality":     {"defensive", "balanced", "attacking"},
	"passing_style": {"short", "mixed", "direct"},
	"tempo":         {"slow", "normal", "fast"},
	"pressing_line": {"low", "mid", "high"},
}

// CompileRules compiles all instruction rules for one team. Returns a
// ValidationError on the first bad rule.
func CompileRules(rules []InstructionRule) ([]CompiledRule, error) {
	compiled := make([]CompiledRule, 0, len(rules))
	for i, r := range rules {
		field := fmt.Sprintf("instructions.rules[%d]", i)
		prog, err := expr.Compile(r.When, expr.Env(RuleScope), expr.AsBool())
		if err != nil {
			return nil, invalid(CodeInstructionRuleBad, field+".when", "compile %q: %v", r.When, err)
		}
		adjs, err := parseAdjustments(r.Then)
		if err != nil {
			return nil, invalid(CodeInstructionRuleBad, field+".then", "%v", err)
		}
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("rule-%d", i)
		}
		compiled = append(compiled, CompiledRule{
			Name:    name,
			When:    r.When,
			Program: prog,
			Then:    adjs,
			Once:    r.Once,
		})
	}
	return compiled, nil
}

// parseAdjustments parses "dial=value" pairs separated by commas, e.g.
// "mentality=attacking, tempo=fast".
func parseAdjustments(s string) ([]Adjustment, error) {
	var out []Adjustment
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("bad adjustment %q, want dial=value", part)
		}
		dial := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		allowed, ok := adjustableDials[dial]
		if !ok {
			return nil, fmt.Errorf("unknown dial %q", dial)
		}
		found := false
		for _, a := range allowed {
			if a == val {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("dial %s does not accept %q", dial, val)
		}
		out = append(out, Adjustment{Dial: dial, Value: val})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty adjustment list")
	}
	return out, nil
}
