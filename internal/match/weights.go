package match

import "sort"

// ActionWeights are the six factor weights the evaluator combines scores
// with. Base values per position sum to ~1.0; trait, mentality, passing
// style, tempo and phase-state multipliers then reshape them; every
// component is clamped to [WeightMin, WeightMax] after all multipliers so no
// single factor can dominate or vanish.
type ActionWeights struct {
	Distance    float64
	Safety      float64
	Readiness   float64
	Progression float64
	Space       float64
	Tactical    float64
}

const (
	WeightMin = 0.05
	WeightMax = 0.60
)

// baseWeights per role. Each row sums to 1.0.
var baseWeights = map[Role]ActionWeights{
	Goalkeeper: {Distance: 0.10, Safety: 0.40, Readiness: 0.15, Progression: 0.10, Space: 0.10, Tactical: 0.15},
	Defender:   {Distance: 0.15, Safety: 0.30, Readiness: 0.15, Progression: 0.15, Space: 0.10, Tactical: 0.15},
	Midfielder: {Distance: 0.15, Safety: 0.20, Readiness: 0.15, Progression: 0.20, Space: 0.15, Tactical: 0.15},
	Forward:    {Distance: 0.15, Safety: 0.10, Readiness: 0.15, Progression: 0.30, Space: 0.15, Tactical: 0.15},
}

// weightMods is a multiplicative adjustment; 1.0 everywhere is neutral.
type weightMods struct {
	Distance    float64
	Safety      float64
	Readiness   float64
	Progression float64
	Space       float64
	Tactical    float64
}

func neutralMods() weightMods {
	return weightMods{1, 1, 1, 1, 1, 1}
}

func (m *weightMods) mul(o weightMods) {
	m.Distance *= o.Distance
	m.Safety *= o.Safety
	m.Readiness *= o.Readiness
	m.Progression *= o.Progression
	m.Space *= o.Space
	m.Tactical *= o.Tactical
}

var mentalityMods = map[string]weightMods{
	"defensive": {1, 1.35, 1, 0.70, 0.9, 1.1},
	"balanced":  {1, 1, 1, 1, 1, 1},
	"attacking": {1, 0.70, 1, 1.35, 1.1, 0.95},
}

var passingStyleMods = map[string]weightMods{
	"short":  {1.25, 1.10, 1, 0.90, 1, 1},
	"mixed":  {1, 1, 1, 1, 1, 1},
	"direct": {0.80, 0.90, 1, 1.20, 1.05, 1},
}

var tempoMods = map[string]weightMods{
	"slow":   {1, 1.15, 1.10, 0.90, 1, 1},
	"normal": {1, 1, 1, 1, 1, 1},
	"fast":   {1, 0.88, 0.92, 1.12, 1.05, 1},
}

var traitMods = map[string]weightMods{
	"playmaker":   {1, 0.95, 1.10, 1.10, 1.10, 1},
	"poacher":     {1, 0.85, 1, 1.30, 1.05, 0.95},
	"ball_winner": {1, 1.20, 1, 0.90, 1, 1.10},
	"engine":      {1, 1, 1.15, 1, 1.05, 1},
	"anchor":      {1, 1.25, 1, 0.80, 0.95, 1.15},
}

// phaseMods reshape weights by the team-level attack phase.
var phaseMods = map[AttackPhase]weightMods{
	PhaseCirculation: {1.10, 1.15, 1, 0.85, 1, 1},
	PhasePositional:  {1, 1, 1, 1.05, 1.05, 1},
	PhaseTransition:  {0.90, 0.80, 0.95, 1.30, 1.10, 0.95},
}

// deriveWeights builds the final weights for one decision: role base values
// times every applicable multiplier, then the per-component clamp.
func deriveWeights(p *Player, d dials, phase AttackPhase) ActionWeights {
	w := baseWeights[p.Role]
	mods := neutralMods()
	if m, ok := mentalityMods[orDefault(d.Mentality, "balanced")]; ok {
		mods.mul(m)
	}
	if m, ok := passingStyleMods[orDefault(d.PassingStyle, "mixed")]; ok {
		mods.mul(m)
	}
	if m, ok := tempoMods[orDefault(d.Tempo, "normal")]; ok {
		mods.mul(m)
	}
	mods.mul(phaseMods[phase])
	// Trait names are sorted before multiplying so float accumulation never
	// depends on map iteration order.
	traits := make([]string, 0, len(p.Traits))
	for t := range p.Traits {
		traits = append(traits, t)
	}
	sort.Strings(traits)
	for _, trait := range traits {
		if m, ok := traitMods[trait]; ok {
			mods.mul(m)
		}
	}

	w.Distance = clampWeight(w.Distance * mods.Distance)
	w.Safety = clampWeight(w.Safety * mods.Safety)
	w.Readiness = clampWeight(w.Readiness * mods.Readiness)
	w.Progression = clampWeight(w.Progression * mods.Progression)
	w.Space = clampWeight(w.Space * mods.Space)
	w.Tactical = clampWeight(w.Tactical * mods.Tactical)
	return w
}

func clampWeight(v float64) float64 {
	if v < WeightMin {
		return WeightMin
	}
	if v > WeightMax {
		return WeightMax
	}
	return v
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Sum is the total of all six components.
func (w ActionWeights) Sum() float64 {
	return w.Distance + w.Safety + w.Readiness + w.Progression + w.Space + w.Tactical
}
