package match

import "encoding/json"

// Result is the document a simulation run produces: final (or partial)
// score, the chronological event list, aggregate statistics and per-player
// ratings. On budget exhaustion Partial is set with a reason; the rest of
// the document is still populated from the state reached.
type Result struct {
	Home  string `json:"home"`
	Away  string `json:"away"`
	Score [2]int `json:"score"`

	Events []Event `json:"events"`

	Stats   MatchStats     `json:"stats"`
	Ratings []PlayerRating `json:"ratings"`

	Partial          bool   `json:"partial,omitempty"`
	Reason           string `json:"reason,omitempty"`
	MinutesSimulated int    `json:"minutes_simulated"`
}

type MatchStats struct {
	Possession      [2]float64   `json:"possession"`
	PassesAttempted [2]int       `json:"passes_attempted"`
	PassesCompleted [2]int       `json:"passes_completed"`
	Shots           [2]int       `json:"shots"`
	ShotsOnTarget   [2]int       `json:"shots_on_target"`
	XG              [2]float64   `json:"xg"`
	Fouls           [2]int       `json:"fouls"`
	Yellows         [2]int       `json:"yellow_cards"`
	Reds            [2]int       `json:"red_cards"`
	Corners         [2]int       `json:"corners"`
	Turnovers       [2]int       `json:"turnovers"`
	Heat            [2][6][4]int `json:"heat_map"`
}

type PlayerRating struct {
	Team   string  `json:"team"`
	Player string  `json:"player"`
	Rating float64 `json:"rating"`
}

func (e *Engine) finalResult() *Result {
	return e.buildResult(false, "")
}

func (e *Engine) partialResult(reason string) *Result {
	return e.buildResult(true, reason)
}

func (e *Engine) buildResult(partial bool, reason string) *Result {
	total := e.state.possessionTicks[0] + e.state.possessionTicks[1]
	var poss [2]float64
	if total > 0 {
		poss[0] = float64(e.state.possessionTicks[0]) / float64(total)
		poss[1] = 1 - poss[0]
	} else {
		poss = [2]float64{0.5, 0.5}
	}

	res := &Result{
		Home:             e.state.Teams[0].Name,
		Away:             e.state.Teams[1].Name,
		Score:            e.state.Score,
		Events:           e.events,
		Partial:          partial,
		Reason:           reason,
		MinutesSimulated: e.minutesSimulated(),
		Stats: MatchStats{
			Possession:      poss,
			PassesAttempted: e.stats.passesAttempted,
			PassesCompleted: e.stats.passesCompleted,
			Shots:           e.stats.shots,
			ShotsOnTarget:   e.stats.shotsOnTarget,
			XG:              e.stats.xg,
			Fouls:           e.stats.fouls,
			Yellows:         e.stats.yellows,
			Reds:            e.stats.reds,
			Corners:         e.stats.corners,
			Turnovers:       e.stats.turnovers,
			Heat:            e.stats.heat,
		},
	}
	for i := range e.state.Players {
		p := &e.state.Players[i]
		res.Ratings = append(res.Ratings, PlayerRating{
			Team:   e.state.Teams[p.Team].Name,
			Player: p.Name,
			Rating: p.rating.value(),
		})
	}
	return res
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
