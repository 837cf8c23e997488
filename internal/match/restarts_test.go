package match

import (
	"testing"

	"matchsim/internal/config"
	"matchsim/internal/pitch"
)

func TestLooseBallOverLineInsideMouthScores(t *testing.T) {
	e := newTestEngine(t, 17)
	scorer := 9 // home forward
	e.setOwner(scorer)

	b := &e.state.Ball
	b.Owner = NoOwner
	b.Mode = ballRolling
	b.Pos = pitch.Vec2{X: 1.001, Y: 0.5}
	before := e.state.Score[0]
	e.ballWentOut()

	if e.state.Score[0] != before+1 {
		t.Fatalf("score %d-%d, want the rolling ball to count", e.state.Score[0], e.state.Score[1])
	}
	if e.pendingRestart == nil || e.pendingRestart.kind != EvKickOff {
		t.Fatalf("restart %+v, want a kickoff", e.pendingRestart)
	}
	if e.pendingRestart.team != 1 {
		t.Fatalf("kickoff to team %d, want the conceding side", e.pendingRestart.team)
	}
}

func TestLooseBallOwnGoal(t *testing.T) {
	e := newTestEngine(t, 17)
	defender := TeamSize + 2 // away defender, defending the X=1 goal
	e.setOwner(defender)

	b := &e.state.Ball
	b.Owner = NoOwner
	b.Mode = ballRolling
	b.Pos = pitch.Vec2{X: 1.01, Y: 0.52}
	e.ballWentOut()

	if e.state.Score[0] != 1 {
		t.Fatalf("score %d-%d, want the own goal credited to the home side", e.state.Score[0], e.state.Score[1])
	}
	var ownGoal bool
	for _, ev := range e.events {
		if ev.Type == EvGoal {
			og, _ := ev.Payload["own_goal"].(bool)
			ownGoal = ownGoal || og
		}
	}
	if !ownGoal {
		t.Fatal("no own-goal event recorded")
	}
}

func TestBallWentOutRespectsMouthGeometry(t *testing.T) {
	// At the epsilon boundary, or wide of the posts, the dead ball is a goal
	// kick rather than a goal.
	cases := []struct {
		name string
		pos  pitch.Vec2
	}{
		{"at the epsilon line", pitch.Vec2{X: 1 + pitch.GoalLineEpsilon, Y: 0.5}},
		{"wide of the mouth", pitch.Vec2{X: 1.01, Y: 0.9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, 17)
			e.setOwner(9) // home attacker takes the last touch
			b := &e.state.Ball
			b.Owner = NoOwner
			b.Mode = ballRolling
			b.Pos = tc.pos
			e.ballWentOut()

			if e.state.Score[0] != 0 || e.state.Score[1] != 0 {
				t.Fatalf("score moved to %d-%d", e.state.Score[0], e.state.Score[1])
			}
			if e.pendingRestart == nil || e.pendingRestart.kind != EvGoalKick {
				t.Fatalf("restart %+v, want a goal kick", e.pendingRestart)
			}
		})
	}
}

func TestSubstituteReassignsRole(t *testing.T) {
	e := newTestEngine(t, 23)
	out := 2 // a home defender slot
	if e.state.Players[out].Role != Defender {
		t.Fatalf("slot %d starts as %v", out, e.state.Players[out].Role)
	}
	// Only a forward left on the bench: no like-for-like swap available.
	e.state.Teams[0].bench = []config.PlayerDef{{Name: "fresh-legs", Position: "FW", Overall: 70}}

	if !e.substitute(out, "injury") {
		t.Fatal("substitution refused")
	}
	p := &e.state.Players[out]
	if p.Name != "fresh-legs" {
		t.Fatalf("slot carries %s after the swap", p.Name)
	}
	if p.Role != Forward {
		t.Fatalf("incoming forward evaluates as %v", p.Role)
	}
	if p.Line != e.state.Players[3].Line {
		t.Fatal("the slot's formation line must stay put")
	}
}
