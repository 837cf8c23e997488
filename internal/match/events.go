package match

import "fmt"

// Event is one discrete entry in the match log. Payload keys are
// type-specific; new keys never invalidate existing consumers.
type Event struct {
	Minute  int            `json:"minute"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

const (
	EvKickOff      = "KickOff"
	EvGoal         = "Goal"
	EvShot         = "Shot"
	EvPass         = "Pass"
	EvTackle       = "Tackle"
	EvInterception = "Interception"
	EvFoul         = "Foul"
	EvCard         = "Card"
	EvCorner       = "Corner"
	EvThrowIn      = "ThrowIn"
	EvGoalKick     = "GoalKick"
	EvSubstitution = "Substitution"
	EvInjury       = "Injury"
	EvHalfTime     = "HalfTime"
	EvFullTime     = "FullTime"
	EvLogLine      = "LogLine"
)

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}

// emitLog appends a human-readable commentary line to the event stream,
// next to the structured events it narrates.
func (e *Engine) emitLog(source, id, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	payload := map[string]any{"text": text}
	if source != "" {
		payload["source"] = source
	}
	if id != "" {
		payload["id"] = id
	}
	e.emit(Event{Minute: e.state.Minute(), Type: EvLogLine, Payload: payload})
}

func (e *Engine) emitGoal(scorer, assist int) {
	s := &e.state.Players[scorer]
	payload := map[string]any{
		"team":   e.state.Teams[s.Team].Name,
		"player": s.Name,
		"score":  fmt.Sprintf("%d-%d", e.state.Score[0], e.state.Score[1]),
	}
	if assist >= 0 && assist != scorer {
		payload["assist"] = e.state.Players[assist].Name
	}
	e.emit(Event{Minute: e.state.Minute(), Type: EvGoal, Payload: payload})
	e.emitLog("match", s.Name, "GOAL! %s scores for %s (%d-%d)",
		s.Name, e.state.Teams[s.Team].Name, e.state.Score[0], e.state.Score[1])
	e.spotlight(scorer, "your player scored")
}

func (e *Engine) emitShot(shooter int, onTarget bool, xg float64) {
	s := &e.state.Players[shooter]
	e.emit(Event{Minute: e.state.Minute(), Type: EvShot, Payload: map[string]any{
		"team":      e.state.Teams[s.Team].Name,
		"player":    s.Name,
		"on_target": onTarget,
		"xg":        xg,
	}})
}

func (e *Engine) emitCard(idx int, color string, reason string) {
	p := &e.state.Players[idx]
	e.emit(Event{Minute: e.state.Minute(), Type: EvCard, Payload: map[string]any{
		"team":   e.state.Teams[p.Team].Name,
		"player": p.Name,
		"color":  color,
		"reason": reason,
	}})
	e.emitLog("referee", p.Name, "%s card for %s (%s)", color, p.Name, reason)
}

// spotlight emits extra commentary when the plan marks a hero player.
func (e *Engine) spotlight(idx int, note string) {
	if e.userPlayer == "" || e.state.Players[idx].Name != e.userPlayer {
		return
	}
	e.emitLog("spotlight", e.userPlayer, "%s: %s", e.userPlayer, note)
}
