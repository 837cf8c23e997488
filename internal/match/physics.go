package match

import "matchsim/internal/pitch"

// Substep physics: one 250ms decision window integrates as five 50ms steps
// so nobody visibly teleports. Player updates are two-phase per substep:
// every new position is computed from the same snapshot before any write,
// so processing order cannot bias who reaches a spot first.

// PlanWindow owns one tick's movement plan: a target position per player and
// the ball's motion mode for the window.
type PlanWindow struct {
	targets   [PlayerCount]pitch.Vec2
	speeds    [PlayerCount]float64 // metric m/s toward the target
	remaining int
}

const (
	rollFriction = 0.94 // per-substep velocity retention
	rollStop     = 1.0  // m/s below which a rolling ball sits still

	controlOffsetM = 0.45 // ball rides this far ahead of the carrier
)

// buildWindow converts each player's behavior velocity into a window target.
func (e *Engine) buildWindow() *PlanWindow {
	w := &PlanWindow{remaining: SubstepsPerTick}
	dt := float64(TickMS) / 1000.0
	for i := range e.state.Players {
		p := &e.state.Players[i]
		if !p.Active() {
			w.targets[i] = p.Pos
			continue
		}
		v := e.desiredVelocity(p)
		target := pitch.Clamp(pitch.Vec2{X: p.Pos.X + v.X*dt, Y: p.Pos.Y + v.Y*dt})
		w.targets[i] = target
		vm := pitch.Vec2{X: v.X * pitch.LengthM, Y: v.Y * pitch.WidthM}
		w.speeds[i] = vm.Len()
	}
	return w
}

// step advances one 50ms substep. Returns false when the window is
// exhausted or the ball has left the field.
func (e *Engine) step(w *PlanWindow) bool {
	if w.remaining <= 0 {
		return false
	}
	w.remaining--

	// Phase one: compute all new positions from the snapshot.
	var snapshot [PlayerCount]pitch.Vec2
	for i := range e.state.Players {
		snapshot[i] = e.state.Players[i].Pos
	}
	var next [PlayerCount]pitch.Vec2
	for i := range e.state.Players {
		p := &e.state.Players[i]
		if !p.Active() || p.StunUntil > e.state.Tick {
			next[i] = snapshot[i]
			continue
		}
		next[i] = moveStep(snapshot[i], w.targets[i], w.speeds[i])
	}

	// Phase two: write back, clamped.
	for i := range e.state.Players {
		p := &e.state.Players[i]
		moved := pitch.Clamp(next[i])
		mv := moved.Sub(snapshot[i])
		p.Vel = pitch.Vec2{X: mv.X / SubstepSeconds, Y: mv.Y / SubstepSeconds}
		p.Pos = moved
	}

	e.stepBall()

	if e.state.Ball.Mode == ballOutOfPlay {
		return false
	}
	return w.remaining > 0
}

// moveStep advances one position toward a target at speedMS for one
// substep, never overshooting.
func moveStep(pos, target pitch.Vec2, speedMS float64) pitch.Vec2 {
	deltaM := pitch.ToMetric(target).Sub(pitch.ToMetric(pos))
	d := deltaM.Len()
	maxStep := speedMS * SubstepSeconds
	if d <= maxStep || d == 0 {
		return target
	}
	stepM := deltaM.Norm().Scale(maxStep)
	return pitch.Vec2{X: pos.X + stepM.X/pitch.LengthM, Y: pos.Y + stepM.Y/pitch.WidthM}
}

// stepBall advances the ball one substep according to its mode.
func (e *Engine) stepBall() {
	b := &e.state.Ball
	switch b.Mode {
	case ballControlled:
		if b.Owner == NoOwner {
			b.Mode = ballRolling
			return
		}
		owner := &e.state.Players[b.Owner]
		dirM := pitch.Vec2{X: owner.Vel.X * pitch.LengthM, Y: owner.Vel.Y * pitch.WidthM}.Norm()
		off := pitch.Vec2{X: dirM.X * controlOffsetM / pitch.LengthM, Y: dirM.Y * controlOffsetM / pitch.WidthM}
		b.Pos = pitch.Clamp(owner.Pos.Add(off))
		b.Vel = owner.Vel
		b.Height = 0

	case ballInFlight, ballBouncing:
		b.Pos = b.Pos.Add(b.Vel.Scale(SubstepSeconds))
		b.Height = flightArc(b)
		b.flightTicks--
		if b.flightTicks <= 0 {
			b.Pos = b.flightTarget
			b.Height = 0
			e.ballArrives()
			return
		}
		if pitch.OutOfPlay(b.Pos) {
			e.ballWentOut()
			return
		}

	case ballRolling:
		b.Pos = b.Pos.Add(b.Vel.Scale(SubstepSeconds))
		b.Vel = b.Vel.Scale(rollFriction)
		speedM := pitch.Vec2{X: b.Vel.X * pitch.LengthM, Y: b.Vel.Y * pitch.WidthM}.Len()
		if speedM < rollStop {
			b.Vel = pitch.Vec2{}
		}
		b.Height = 0
		if pitch.OutOfPlay(b.Pos) {
			e.ballWentOut()
			return
		}

	case ballOutOfPlay:
		b.Vel = pitch.Vec2{}
	}
}

// flightArc gives a representative height for an in-flight ball; shots and
// crosses ride higher than driven passes.
func flightArc(b *Ball) float64 {
	peak := 0.8
	switch b.flightKind {
	case flightCross, flightClear:
		peak = 6.0
	case flightShot:
		peak = 1.4
	}
	return peak
}
