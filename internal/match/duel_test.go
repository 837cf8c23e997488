package match

import (
	"testing"

	"matchsim/internal/pitch"
)

func TestWrongFootScalesWithCommitment(t *testing.T) {
	base := pitch.Vec2{X: 1}
	wf := func(c float64) float64 {
		d := &DuelState{
			FeintSign:  1,
			FeintDir:   rotate(base, feintAngleRad),
			BurstDir:   rotate(base, -feintAngleRad),
			DefChoice:  Commit,
			Commitment: c,
		}
		(&Engine{}).computeWrongFoot(d)
		return d.WrongFoot
	}

	if full := wf(1); full >= ankleBreakerThreshold {
		t.Fatalf("full commitment wrong-foot %v, want < %v", full, ankleBreakerThreshold)
	}
	if mid := wf(0.75); mid >= -0.15 || mid < ankleBreakerThreshold {
		t.Fatalf("mid commitment wrong-foot %v, want a beaten defender", mid)
	}
	if low := wf(0.4); low < 0.2 {
		t.Fatalf("minimum commitment wrong-foot %v should stay in the defender's favor", low)
	}
}

func TestFullCommitTakeOnBreaksAnkles(t *testing.T) {
	e := newTestEngine(t, 13)
	atkIdx := 9
	defIdx := TeamSize + 5
	atk := &e.state.Players[atkIdx]
	def := &e.state.Players[defIdx]
	atk.Pos = pitch.Vec2{X: 0.60, Y: 0.50}
	def.Pos = pitch.Vec2{X: 0.62, Y: 0.50}
	e.setOwner(atkIdx)

	d := &DuelState{
		Attacker:   atkIdx,
		Defender:   defIdx,
		Phase:      duelCut,
		FeintSign:  1,
		FeintDir:   rotate(e.carryDirection(atk), feintAngleRad),
		DefChoice:  Commit,
		AtkChoice:  TakeOn,
		Commitment: 1,
	}
	e.state.duel = d

	e.updateDuel() // cut -> burst, wrong-foot computed from live geometry
	if d.Phase != duelBurst {
		t.Fatalf("phase %v after the cut", d.Phase)
	}
	if d.WrongFoot >= ankleBreakerThreshold {
		t.Fatalf("wrong-foot %v against a fully committed defender, want < %v",
			d.WrongFoot, ankleBreakerThreshold)
	}

	e.updateDuel()
	e.updateDuel() // burst resolves
	if e.state.duel != nil {
		t.Fatal("duel still open after the burst")
	}
	if e.state.Ball.Owner != atkIdx {
		t.Fatalf("ball owner %d, the attacker must keep it", e.state.Ball.Owner)
	}
	if def.StunUntil <= e.state.Tick {
		t.Fatal("wrong-footed defender must be stunned")
	}
}

func TestDuelOutcomeContainNeverConcedes(t *testing.T) {
	// A containing defender is never dispossessed himself and never beaten:
	// the worst case for either side is a block or a stalemate.
	for _, atk := range []AttackerChoice{Carry, TakeOn} {
		for _, roll := range []float64{0, 0.24, 0.25, 0.5, 0.99} {
			d := &DuelState{DefChoice: Contain, AtkChoice: atk, WrongFoot: -0.9}
			got := duelOutcome(d, roll)
			switch got {
			case Stalemate, AttackerBlocked:
			default:
				t.Fatalf("contain vs %v roll %v produced %v", atk, roll, got)
			}
		}
	}
}

func TestDuelOutcomeContainVsCarryIsStalemate(t *testing.T) {
	for _, roll := range []float64{0, 0.5, 0.999} {
		d := &DuelState{DefChoice: Contain, AtkChoice: Carry}
		if got := duelOutcome(d, roll); got != Stalemate {
			t.Fatalf("roll %v: got %v, want stalemate", roll, got)
		}
	}
}

func TestDuelOutcomeCommitVsCarry(t *testing.T) {
	cases := []struct {
		roll float64
		want DuelOutcome
	}{
		{0.10, DefenderWins},
		{0.60, LooseBall},
		{0.90, FoulOutcome},
	}
	for _, tc := range cases {
		d := &DuelState{DefChoice: Commit, AtkChoice: Carry}
		if got := duelOutcome(d, tc.roll); got != tc.want {
			t.Fatalf("roll %v: got %v, want %v", tc.roll, got, tc.want)
		}
	}
}

func TestDuelOutcomeWrongFootBands(t *testing.T) {
	cases := []struct {
		wf   float64
		roll float64
		want DuelOutcome
	}{
		{-0.80, 0.5, AnkleBreaker},
		{-0.51, 0.5, AnkleBreaker},
		{-0.50, 0.5, Beaten}, // threshold itself is not a breaker
		{-0.30, 0.5, Beaten},
		{0.00, 0.20, LooseBall},
		{0.00, 0.80, FoulOutcome},
		{0.50, 0.5, DefenderWins},
	}
	for _, tc := range cases {
		d := &DuelState{DefChoice: Commit, AtkChoice: TakeOn, WrongFoot: tc.wf}
		if got := duelOutcome(d, tc.roll); got != tc.want {
			t.Fatalf("wf %v roll %v: got %v, want %v", tc.wf, tc.roll, got, tc.want)
		}
	}
}

func TestStunScalesWithCommitment(t *testing.T) {
	if stunTicksFor(0) >= stunTicksFor(1) {
		t.Fatal("harder commitment must stun longer")
	}
	if recoveryTicksFor(0) >= recoveryTicksFor(1) {
		t.Fatal("harder commitment must recover longer")
	}
	if stunTicksFor(0.5) <= recoveryTicksFor(0.5) {
		t.Fatal("a full stun outlasts a beaten recovery at equal commitment")
	}
}
