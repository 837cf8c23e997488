package match

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"matchsim/internal/config"
)

func testSheet(name, formation string) config.TeamSheet {
	players := []config.PlayerDef{{Name: name + "-gk", Position: "GK", Overall: 74}}
	add := func(pos string, n int) {
		for i := 0; i < n; i++ {
			players = append(players, config.PlayerDef{
				Name:     fmt.Sprintf("%s-%s%d", name, strings.ToLower(pos), i),
				Position: pos,
				Overall:  68 + (i*3)%12,
			})
		}
	}
	add("DF", 4)
	add("MF", 4)
	add("FW", 2)
	return config.TeamSheet{
		Name:      name,
		Formation: formation,
		Players:   players,
		Bench: []config.PlayerDef{
			{Name: name + "-sub-df", Position: "DF", Overall: 66},
			{Name: name + "-sub-mf", Position: "MF", Overall: 67},
			{Name: name + "-sub-fw", Position: "FW", Overall: 68},
		},
	}
}

func testPlan(seed int64) *config.MatchPlan {
	return &config.MatchPlan{
		SchemaVersion: 1,
		Seed:          seed,
		Home:          testSheet("home", "4-4-2"),
		Away:          testSheet("away", "4-3-3"),
	}
}

func TestSimulateDeterministic(t *testing.T) {
	budget := SimBudget{MaxMinutes: 200, MaxEvents: 100000}

	a, err := Simulate(testPlan(99), budget)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Simulate(testPlan(99), budget)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !bytes.Equal(MarshalPretty(a), MarshalPretty(b)) {
		t.Fatalf("same seed diverged: %d-%d events=%d vs %d-%d events=%d",
			a.Score[0], a.Score[1], len(a.Events),
			b.Score[0], b.Score[1], len(b.Events))
	}
}

func TestSimulateDeterministicWithTraits(t *testing.T) {
	mk := func() *config.MatchPlan {
		plan := testPlan(42)
		for i := range plan.Home.Players {
			plan.Home.Players[i].Traits = []string{"playmaker", "engine", "ball_winner", "poacher", "anchor"}
		}
		for i := range plan.Away.Players {
			plan.Away.Players[i].Traits = []string{"anchor", "poacher", "engine"}
		}
		return plan
	}
	budget := SimBudget{MaxMinutes: 200, MaxEvents: 100000}
	a, err := Simulate(mk(), budget)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Simulate(mk(), budget)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !bytes.Equal(MarshalPretty(a), MarshalPretty(b)) {
		t.Fatal("same seed diverged once players carried multiple traits")
	}
}

func TestSimulateFullMatch(t *testing.T) {
	res, err := Simulate(testPlan(7), SimBudget{MaxMinutes: 200, MaxEvents: 100000})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if res.Partial {
		t.Fatalf("full match flagged partial: %s", res.Reason)
	}
	if res.MinutesSimulated < 90 {
		t.Fatalf("only %d minutes simulated", res.MinutesSimulated)
	}
	if len(res.Events) == 0 || res.Events[0].Type != EvKickOff {
		t.Fatal("missing kickoff event")
	}
	last := res.Events[len(res.Events)-1]
	if last.Type != EvFullTime {
		t.Fatalf("last event %s, want full time", last.Type)
	}

	halftimes, goals := 0, 0
	for _, ev := range res.Events {
		switch ev.Type {
		case EvHalfTime:
			halftimes++
		case EvGoal:
			goals++
		}
	}
	if halftimes != 1 {
		t.Fatalf("got %d halftime events", halftimes)
	}
	if goals != res.Score[0]+res.Score[1] {
		t.Fatalf("%d goal events vs score %d-%d", goals, res.Score[0], res.Score[1])
	}

	if len(res.Ratings) != PlayerCount {
		t.Fatalf("got %d ratings", len(res.Ratings))
	}
	for _, r := range res.Ratings {
		if r.Rating < 1 || r.Rating > 10 {
			t.Fatalf("%s rated %v", r.Player, r.Rating)
		}
	}

	poss := res.Stats.Possession[0] + res.Stats.Possession[1]
	if poss < 0.999 || poss > 1.001 {
		t.Fatalf("possession shares sum to %v", poss)
	}
	if res.Stats.PassesAttempted[0] == 0 && res.Stats.PassesAttempted[1] == 0 {
		t.Fatal("nobody attempted a pass in 90 minutes")
	}
}

func TestSimulateSeedsDiffer(t *testing.T) {
	budget := SimBudget{MaxMinutes: 200, MaxEvents: 100000}
	a, err := Simulate(testPlan(1), budget)
	if err != nil {
		t.Fatalf("seed 1: %v", err)
	}
	var diverged bool
	for seed := int64(2); seed <= 5 && !diverged; seed++ {
		b, err := Simulate(testPlan(seed), budget)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		diverged = !bytes.Equal(MarshalPretty(a), MarshalPretty(b))
	}
	if !diverged {
		t.Fatal("five seeds produced identical matches")
	}
}

func TestMinuteBudgetPartial(t *testing.T) {
	res, err := Simulate(testPlan(3), SimBudget{MaxMinutes: 10})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !res.Partial {
		t.Fatal("expected partial result")
	}
	if !strings.Contains(res.Reason, "minute") {
		t.Fatalf("reason %q", res.Reason)
	}
	if res.MinutesSimulated != 11 {
		t.Fatalf("stopped at minute %d, want 11", res.MinutesSimulated)
	}
	// A truncated run still carries everything simulated so far.
	if len(res.Events) == 0 || len(res.Ratings) != PlayerCount {
		t.Fatal("partial result missing events or ratings")
	}
}

func TestEventBudgetPartial(t *testing.T) {
	res, err := Simulate(testPlan(3), SimBudget{MaxEvents: 1})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !res.Partial || !strings.Contains(res.Reason, "event") {
		t.Fatalf("partial=%v reason=%q", res.Partial, res.Reason)
	}
}

func TestWallClockBudgetPartial(t *testing.T) {
	plan := testPlan(3)
	if err := plan.Validate(); err != nil {
		t.Fatalf("plan: %v", err)
	}
	// The fake clock jumps an hour per reading, so the second budget check
	// trips no matter how fast the host is.
	base := time.Unix(0, 0)
	calls := 0
	e, err := New(plan, withClock(func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Hour)
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	res := e.Run(SimBudget{MaxWallClock: 30 * time.Minute})
	if !res.Partial || !strings.Contains(res.Reason, "wall clock") {
		t.Fatalf("partial=%v reason=%q", res.Partial, res.Reason)
	}
}

func TestHalftimeFlipsDirections(t *testing.T) {
	plan := testPlan(11)
	if err := plan.Validate(); err != nil {
		t.Fatalf("plan: %v", err)
	}
	e, err := New(plan)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if e.state.Teams[0].Dir != 1 || e.state.Teams[1].Dir != -1 {
		t.Fatalf("first-half directions %d/%d", e.state.Teams[0].Dir, e.state.Teams[1].Dir)
	}
	res := e.Run(SimBudget{MaxMinutes: 200, MaxEvents: 100000})
	if res == nil {
		t.Fatal("nil result")
	}
	if e.state.Half != 2 {
		t.Fatalf("half = %d after full run", e.state.Half)
	}
	if e.state.Teams[0].Dir != -1 || e.state.Teams[1].Dir != 1 {
		t.Fatalf("second-half directions %d/%d", e.state.Teams[0].Dir, e.state.Teams[1].Dir)
	}
}

func TestInstructionRuleFires(t *testing.T) {
	plan := testPlan(21)
	plan.Home.Instructions.Rules = []config.InstructionRule{{
		Name: "early-push",
		When: "minute > 5",
		Then: "mentality=attacking",
		Once: true,
	}}
	res, err := Simulate(plan, SimBudget{MaxMinutes: 200, MaxEvents: 100000})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	fired := 0
	for _, ev := range res.Events {
		if ev.Type != EvLogLine {
			continue
		}
		if text, ok := ev.Payload["text"].(string); ok && strings.Contains(text, "early-push") {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("once-rule fired %d times", fired)
	}
}
