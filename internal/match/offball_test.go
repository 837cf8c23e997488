package match

import (
	"testing"

	"matchsim/internal/pitch"
)

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	plan := testPlan(seed)
	if err := plan.Validate(); err != nil {
		t.Fatalf("plan: %v", err)
	}
	e, err := New(plan)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return e
}

func TestExpireObjectivesTTL(t *testing.T) {
	e := newTestEngine(t, 5)
	e.state.Tick = 100

	p := &e.state.Players[7]
	p.Pos = pitch.Vec2{X: 0.3, Y: 0.2}
	e.state.Ball.Pos = pitch.Vec2{X: 0.8, Y: 0.8}
	fresh := func(expire int) *Objective {
		return &Objective{
			Target:     pitch.Vec2{X: 0.4, Y: 0.3},
			ExpireTick: expire,
			issuedPoss: e.possession(),
		}
	}

	p.Objective = fresh(99)
	e.expireObjectives()
	if p.Objective != nil {
		t.Fatal("lapsed TTL must clear the objective")
	}

	p.Objective = fresh(200)
	e.expireObjectives()
	if p.Objective == nil {
		t.Fatal("live objective must survive the sweep")
	}
}

func TestExpireObjectivesForceTriggers(t *testing.T) {
	e := newTestEngine(t, 5)
	e.state.Tick = 100
	p := &e.state.Players[7]
	p.Pos = pitch.Vec2{X: 0.3, Y: 0.2}
	e.state.Ball.Pos = pitch.Vec2{X: 0.8, Y: 0.8}

	// Possession flip since issue.
	p.Objective = &Objective{
		Target:     pitch.Vec2{X: 0.4, Y: 0.3},
		ExpireTick: 200,
		issuedPoss: 1 - e.possession(),
	}
	e.expireObjectives()
	if p.Objective != nil {
		t.Fatal("possession flip must force-expire")
	}

	// Ball arriving within proximity.
	p.Objective = &Objective{
		Target:     pitch.Vec2{X: 0.4, Y: 0.3},
		ExpireTick: 200,
		issuedPoss: e.possession(),
	}
	e.state.Ball.Pos = p.Pos
	e.expireObjectives()
	if p.Objective != nil {
		t.Fatal("nearby ball must force-expire")
	}
	e.state.Ball.Pos = pitch.Vec2{X: 0.8, Y: 0.8}

	// Stamina collapse under a sprint order.
	p.Objective = &Objective{
		Target:     pitch.Vec2{X: 0.4, Y: 0.3},
		Urgency:    UrgencySprint,
		ExpireTick: 200,
		issuedPoss: e.possession(),
	}
	p.Stamina = staminaCollapse / 2
	e.expireObjectives()
	if p.Objective != nil {
		t.Fatal("stamina collapse must force-expire a sprint order")
	}
}

func TestSelectDecidersBudget(t *testing.T) {
	e := newTestEngine(t, 5)
	for _, budget := range []int{offBallBudget, offBallBudgetTransition} {
		out := e.selectDeciders(budget)
		if len(out) > budget {
			t.Fatalf("selected %d with budget %d", len(out), budget)
		}
		seen := make(map[int]bool)
		for _, idx := range out {
			if seen[idx] {
				t.Fatalf("player %d selected twice", idx)
			}
			seen[idx] = true
			if idx == e.state.Ball.Owner {
				t.Fatal("carrier must never be scheduled off-ball")
			}
		}
	}
}

func TestSelectDecidersCoversLines(t *testing.T) {
	e := newTestEngine(t, 5)
	out := e.selectDeciders(offBallBudgetTransition)
	if len(out) < nearestBallSelectN {
		t.Fatalf("only %d deciders selected", len(out))
	}
}

func TestResolveTargetCollision(t *testing.T) {
	e := newTestEngine(t, 5)
	spot := pitch.Vec2{X: 0.5, Y: 0.5}
	e.state.Players[3].Objective = &Objective{Target: spot, ExpireTick: 1000}

	got, ok := e.resolveTargetCollision(7, spot)
	if !ok {
		t.Fatal("a single collision must resolve by nudge")
	}
	if pitch.DistM(got, spot) < 3.0 {
		t.Fatalf("nudged spot %v still within collision radius of %v", got, spot)
	}
	if got.X != spot.X {
		t.Fatal("nudges are lateral only")
	}

	// Occupy both nudge spots too: now the collision is unresolvable.
	e.state.Players[4].Objective = &Objective{Target: pitch.Vec2{X: 0.5, Y: 0.5 + 4.0/pitch.WidthM}, ExpireTick: 1000}
	e.state.Players[5].Objective = &Objective{Target: pitch.Vec2{X: 0.5, Y: 0.5 - 4.0/pitch.WidthM}, ExpireTick: 1000}
	if _, ok := e.resolveTargetCollision(7, spot); ok {
		t.Fatal("fully blocked spot must report failure")
	}
}

func TestObjectiveTTLAndUrgency(t *testing.T) {
	e := newTestEngine(t, 5)
	if ttl := e.objectiveTTL(); ttl != objTTLNormal {
		t.Fatalf("normal TTL %d", ttl)
	}
	e.state.Teams[0].transitionUntil = e.state.Tick + 10
	if ttl := e.objectiveTTL(); ttl != objTTLTransition {
		t.Fatalf("transition TTL %d", ttl)
	}

	p := &e.state.Players[2]
	p.Stamina = 0.2
	if u := e.urgencyFor(p); u != UrgencyJog {
		t.Fatalf("tired player urgency %v", u)
	}
	p.Stamina = 0.9
	if u := e.urgencyFor(p); u != UrgencySprint {
		t.Fatalf("transition window urgency %v", u)
	}
}
