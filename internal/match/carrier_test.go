package match

import (
	"testing"

	"matchsim/internal/pitch"
)

func TestOverhitPassRestartsPlay(t *testing.T) {
	e := newTestEngine(t, 9)
	p := &e.state.Players[5]
	p.Pos = pitch.Vec2{X: 0.60, Y: 0.50}
	e.setOwner(p.Idx)
	e.launch(p.Idx, pitch.Vec2{X: 0.85, Y: 0.50}, flightPass, passSpeedMS, flightMeta{
		kicker:    p.Idx,
		receiver:  NoOwner,
		intercept: NoOwner,
		outcome:   kickOut,
	})

	b := &e.state.Ball
	b.Pos = b.flightTarget
	e.ballArrives()

	if b.Mode != ballOutOfPlay {
		t.Fatalf("ball mode %v after an overhit pass, want out of play", b.Mode)
	}
	if !pitch.OutOfPlay(b.Pos) {
		t.Fatalf("ball still on the field at %+v", b.Pos)
	}
	if e.pendingRestart == nil {
		t.Fatal("no restart scheduled for the dead ball")
	}
	e.applyRestart()
	if b.Owner == NoOwner || b.Mode != ballControlled {
		t.Fatalf("restart left the ball dead: owner=%d mode=%v", b.Owner, b.Mode)
	}
}

func TestOverhitPassNeverTricklesIn(t *testing.T) {
	// A kick resolved as out runs wide of the post even when its line points
	// straight through the mouth.
	out := flightOverrun(pitch.Vec2{X: 0.9, Y: 0.5}, pitch.Vec2{X: 0.1, Y: 0})
	if !pitch.OutOfPlay(out) {
		t.Fatalf("overrun ended in play at %+v", out)
	}
	if pitch.IsGoal(out, 1) {
		t.Fatalf("overrun crossed inside the mouth at %+v", out)
	}
}

func TestUnclaimedClearBouncesThenSettles(t *testing.T) {
	e := newTestEngine(t, 31)
	p := &e.state.Players[3]
	e.setOwner(p.Idx)
	e.launch(p.Idx, pitch.Vec2{X: 0.5, Y: 0.3}, flightClear, clearSpeedMS, flightMeta{
		kicker:    p.Idx,
		receiver:  NoOwner,
		intercept: NoOwner,
		outcome:   kickComplete,
	})

	b := &e.state.Ball
	b.Pos = b.flightTarget
	e.ballArrives()

	if b.Mode != ballBouncing {
		t.Fatalf("mode %v after an unclaimed clear, want bouncing", b.Mode)
	}
	speedM := pitch.Vec2{X: b.Vel.X * pitch.LengthM, Y: b.Vel.Y * pitch.WidthM}.Len()
	if speedM > bounceSpeedMS+1e-9 {
		t.Fatalf("first hop at %.1f m/s exceeds the cap", speedM)
	}
	for i := 0; i < bounceTicks; i++ {
		e.stepBall()
	}
	if b.Mode != ballRolling {
		t.Fatalf("mode %v after the bounce runs out, want rolling", b.Mode)
	}
	if b.Owner != NoOwner {
		t.Fatalf("bounced ball acquired owner %d", b.Owner)
	}
}
