package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/common"
)

// WallInput is the per-tick view of the player WallTraversal needs.
type WallInput struct {
	Position         mgl32.Vec3
	Right            mgl32.Vec3
	VerticalVelocity float32
	Grounded         bool
	HasMoveInput     bool
	JumpHeld         bool
}

// WallTraversal tracks wall contact, wall-run gravity and the wall-jump
// impulse.
type WallTraversal struct {
	tuning    WallRunTuning
	probes    ProbeTuning
	jumpForce float32
	probe     Probe

	left, right bool
	prevContact bool
	grounded    bool

	running bool
	gravity float32

	jumping      bool
	impulse      mgl32.Vec3
	jumpReleased bool
}

func NewWallTraversal(t Tuning, probe Probe) *WallTraversal {
	w := &WallTraversal{probe: probe}
	w.SetTuning(t)
	return w
}

func (w *WallTraversal) SetTuning(t Tuning) {
	if w == nil {
		return
	}
	w.tuning = t.WallRun
	w.probes = t.Probes
	w.jumpForce = t.Movement.JumpForce
}

func (w *WallTraversal) Reset() {
	if w == nil {
		return
	}
	w.left, w.right = false, false
	w.prevContact = false
	w.grounded = false
	w.running = false
	w.gravity = 0
	w.clearJump()
	w.jumpReleased = false
}

func (w *WallTraversal) Update(in WallInput, dt float32) {
	if w == nil {
		return
	}
	w.grounded = in.Grounded

	if in.Grounded || w.probe == nil {
		w.left, w.right = false, false
	} else {
		center := in.Position.Add(common.Up.Mul(w.probes.WallHeight))
		side := common.Flatten(in.Right).Mul(w.probes.WallOffset)
		w.left = w.probe.CheckSphere(center.Sub(side), w.probes.WallRadius, LayerWall)
		w.right = w.probe.CheckSphere(center.Add(side), w.probes.WallRadius, LayerWall)
	}
	contact := w.left || w.right

	if in.Grounded {
		w.jumpReleased = false
	} else if !in.JumpHeld {
		w.jumpReleased = true
	}

	if w.jumping {
		t := w.tuning
		w.impulse = mgl32.Vec3{
			common.ExpDecay(w.impulse.X(), 0, t.DecayRate, dt),
			common.ExpDecay(w.impulse.Y(), t.Terminal, t.DecayRate, dt),
			common.ExpDecay(w.impulse.Z(), 0, t.DecayRate, dt),
		}
		if in.Grounded || (contact && !w.prevContact) || w.impulse.Y() < t.ClearThreshold {
			w.clearJump()
		}
	}

	canRun := contact && !in.Grounded && !w.jumping && (in.VerticalVelocity <= 0 || w.jumpReleased)
	if canRun {
		w.running = true
		ramp := w.tuning.GravityRamp
		if in.HasMoveInput {
			ramp /= w.tuning.InputRampDivisor
		}
		w.gravity = common.MoveTowards(w.gravity, w.tuning.GravityMax, ramp)
	} else {
		w.running = false
		w.gravity = 0
	}

	w.prevContact = contact
}

// CanJump reports whether a wall-jump is possible right now.
func (w *WallTraversal) CanJump() bool {
	return w != nil && (w.left || w.right) && !w.grounded
}

// Jump captures the wall-jump impulse from the camera basis. The caller gates
// it through CanJump.
func (w *WallTraversal) Jump(forward, right mgl32.Vec3) {
	if !w.CanJump() {
		return
	}
	right = common.Flatten(right)
	var away mgl32.Vec3
	if w.left {
		away = away.Add(right)
	}
	if w.right {
		away = away.Sub(right)
	}
	away = common.SafeNormalize(away)

	wt := w.tuning.JumpWeights
	w.impulse = common.Flatten(forward).Mul(wt.X).
		Add(common.Up.Mul(wt.Y)).
		Add(away.Mul(wt.Z)).
		Mul(w.jumpForce)
	w.jumping = true
	w.running = false
	w.gravity = 0
}

func (w *WallTraversal) clearJump() {
	w.jumping = false
	w.impulse = mgl32.Vec3{}
}

func (w *WallTraversal) Contact() bool { return w != nil && (w.left || w.right) }
func (w *WallTraversal) Running() bool { return w != nil && w.running }
func (w *WallTraversal) Jumping() bool { return w != nil && w.jumping }

func (w *WallTraversal) Gravity() float32 {
	if w == nil {
		return 0
	}
	return w.gravity
}

func (w *WallTraversal) Impulse() mgl32.Vec3 {
	if w == nil {
		return mgl32.Vec3{}
	}
	return w.impulse
}

func (w *WallTraversal) State() WallRunState {
	if w == nil {
		return WallRunState{}
	}
	return WallRunState{
		Left:         w.left,
		Right:        w.right,
		Running:      w.running,
		Gravity:      w.gravity,
		Jumping:      w.jumping,
		Impulse:      w.impulse,
		JumpReleased: w.jumpReleased,
	}
}
