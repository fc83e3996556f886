package movement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type grappleRig struct {
	g      *GrappleTargeting
	view   *fakeView
	probe  *fakeProbe
	source *fakeSource
	ui     *recordingUI
}

func newGrappleRig(t *testing.T) *grappleRig {
	t.Helper()
	r := &grappleRig{
		view:   newFakeView(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}),
		probe:  &fakeProbe{side: mgl32.Vec3{0, 0, 1}},
		source: &fakeSource{},
		ui:     newRecordingUI(),
	}
	r.g = NewGrappleTargeting(DefaultTuning(), r.view, r.probe, r.source, r.ui, nil)
	return r
}

func (r *grappleRig) add(id ColliderID, pos mgl32.Vec3) *fakeTarget {
	tg := &fakeTarget{pos: pos}
	r.source.candidates = append(r.source.candidates, Candidate{Collider: id, Target: tg})
	return tg
}

func TestGrappleAcquireSingleCandidate(t *testing.T) {
	r := newGrappleRig(t)
	tg := r.add(1, mgl32.Vec3{8, 1, 0})
	r.g.Acquire(false, false)
	if r.g.Locked() != Target(tg) {
		t.Fatalf("expected the only valid candidate to be locked")
	}
}

func TestGrappleAcquireRejects(t *testing.T) {
	cases := []struct {
		name  string
		setup func(r *grappleRig)
	}{
		{"behind_camera", func(r *grappleRig) { r.add(1, mgl32.Vec3{-5, 0, 0}) }},
		{"outside_cone", func(r *grappleRig) { r.add(1, mgl32.Vec3{4, 0, 7}) }},
		{"beyond_detection", func(r *grappleRig) { r.add(1, mgl32.Vec3{21, 0, 0}) }},
		{"dead", func(r *grappleRig) { r.add(1, mgl32.Vec3{5, 0, 0}).dead = true }},
		{"nil_target", func(r *grappleRig) {
			r.source.candidates = append(r.source.candidates, Candidate{Collider: 1})
		}},
		{"blocked", func(r *grappleRig) {
			r.add(1, mgl32.Vec3{5, 0, 0})
			r.probe.blocker = &Hit{Collider: 9, Layer: LayerWall, Distance: 2}
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newGrappleRig(t)
			c.setup(r)
			r.g.Acquire(false, false)
			if r.g.Locked() != nil {
				t.Fatalf("expected no lock, got %v", r.g.Locked())
			}
		})
	}
}

func TestGrappleLineOfSightIgnoresOwnCollider(t *testing.T) {
	r := newGrappleRig(t)
	tg := r.add(1, mgl32.Vec3{5, 0, 0})
	r.probe.blocker = &Hit{Collider: 1, Layer: LayerTarget, Distance: 4.5}
	r.g.Acquire(false, false)
	if r.g.Locked() != Target(tg) {
		t.Fatalf("a hit on the target's own collider should not block sight")
	}
}

func TestGrappleAcquirePrefersAlignment(t *testing.T) {
	r := newGrappleRig(t)
	r.add(1, mgl32.Vec3{6, 0, 3})
	aligned := r.add(2, mgl32.Vec3{9, 0, 0})
	r.g.Acquire(false, false)
	if r.g.Locked() != Target(aligned) {
		t.Fatalf("expected the best-aligned candidate to win")
	}
}

func TestGrappleAcquireTieGoesToNearest(t *testing.T) {
	r := newGrappleRig(t)
	r.add(1, mgl32.Vec3{8, 0, 0})
	near := r.add(2, mgl32.Vec3{4, 0, 0})
	r.g.Acquire(false, false)
	if r.g.Locked() != Target(near) {
		t.Fatalf("expected the nearer of two equally aligned candidates")
	}
}

func TestGrappleLockNotDisplacedByWorseCandidate(t *testing.T) {
	r := newGrappleRig(t)
	tg := r.add(1, mgl32.Vec3{6, 0, 0})
	r.g.Acquire(false, false)
	r.add(2, mgl32.Vec3{6, 0, 2})
	for i := 0; i < 120; i++ {
		r.g.Acquire(false, false)
		if r.g.Locked() != Target(tg) {
			t.Fatalf("tick %d: lock displaced by a less aligned candidate", i)
		}
	}
}

func TestGrappleLockPersistsOutsideCone(t *testing.T) {
	r := newGrappleRig(t)
	tg := r.add(1, mgl32.Vec3{5, 0, 0})
	r.g.Acquire(false, false)

	r.view.forward = mgl32.Vec3{0, 0, 1}
	r.view.right = mgl32.Vec3{-1, 0, 0}
	r.g.Acquire(false, false)
	if r.g.Locked() != Target(tg) {
		t.Fatalf("expected lock to persist after the camera turned away")
	}

	tg.pos = mgl32.Vec3{25, 0, 0}
	r.g.Acquire(false, false)
	if r.g.Locked() != nil {
		t.Fatalf("expected lock cleared once the target left detection range")
	}
}

func TestGrappleLockClears(t *testing.T) {
	cases := []struct {
		name          string
		change        func(r *grappleRig, tg *fakeTarget)
		grounded      bool
		combatStopped bool
	}{
		{name: "line_of_sight_blocked", change: func(r *grappleRig, _ *fakeTarget) {
			r.probe.blocker = &Hit{Collider: 9, Layer: LayerWall, Distance: 2}
		}},
		{name: "target_died", change: func(_ *grappleRig, tg *fakeTarget) { tg.dead = true }},
		{name: "grounded", grounded: true},
		{name: "combat_stopped", combatStopped: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newGrappleRig(t)
			tg := r.add(1, mgl32.Vec3{5, 0, 0})
			r.g.Acquire(false, false)
			if r.g.Locked() == nil {
				t.Fatalf("setup: expected a lock")
			}
			if c.change != nil {
				c.change(r, tg)
			}
			r.g.Acquire(c.grounded, c.combatStopped)
			if r.g.Locked() != nil {
				t.Fatalf("expected lock cleared on the same tick")
			}
		})
	}
}

func TestGrappleReticle(t *testing.T) {
	cases := []struct {
		name     string
		pos      mgl32.Vec3
		grounded bool
		focus    bool
		want     ReticleState
	}{
		{"ready", mgl32.Vec3{5, 0, 0}, false, true, ReticleReady},
		{"no_focus", mgl32.Vec3{5, 0, 0}, false, false, ReticleIdle},
		{"out_of_range", mgl32.Vec3{15, 0, 0}, false, true, ReticleIdle},
		{"grounded", mgl32.Vec3{5, 0, 0}, true, true, ReticleHidden},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newGrappleRig(t)
			r.add(1, c.pos)
			r.g.Acquire(false, false)
			r.g.UpdateReticle(mgl32.Vec3{}, c.grounded, c.focus)
			if got := r.g.Reticle().State; got != c.want {
				t.Fatalf("expected reticle %v, got %v", c.want, got)
			}
		})
	}
}

func TestGrappleReticleReportsChangesOnly(t *testing.T) {
	r := newGrappleRig(t)
	r.add(1, mgl32.Vec3{5, 0, 0})
	r.g.Acquire(false, false)
	for i := 0; i < 10; i++ {
		r.g.UpdateReticle(mgl32.Vec3{}, false, true)
	}
	if len(r.ui.reticles) != 1 {
		t.Fatalf("expected one reticle notification, got %d", len(r.ui.reticles))
	}
	if got := r.ui.reticles[0].Screen; !approx(got.Y(), 0.1, 1e-6) {
		t.Fatalf("expected reticle raised by the offset, got %v", got)
	}
}

func TestGrappleHomingUsesCapturedDestination(t *testing.T) {
	r := newGrappleRig(t)
	tg := r.add(1, mgl32.Vec3{8, 0, 0})
	r.g.Acquire(false, false)
	if !r.g.CanLaunch(mgl32.Vec3{}, false) {
		t.Fatalf("expected launch to be possible")
	}
	if !r.g.Launch() {
		t.Fatalf("expected launch to start homing")
	}
	want := mgl32.Vec3{8, 0.1, 0}
	if r.g.State().Destination != want {
		t.Fatalf("expected destination %v, got %v", want, r.g.State().Destination)
	}
	if len(tg.clipping) != 1 || !tg.clipping[0] {
		t.Fatalf("expected clipping enabled on launch, got %v", tg.clipping)
	}

	// Homing keeps heading for where the target was at launch.
	tg.pos = mgl32.Vec3{0, 0, 8}
	vel, arrived := r.g.Home(mgl32.Vec3{}, dt)
	if arrived {
		t.Fatalf("should not arrive on the first tick")
	}
	if dir := vel.Normalize(); !approx(dir.Dot(want.Normalize()), 1, 1e-5) {
		t.Fatalf("expected velocity toward the captured destination, got %v", vel)
	}
	if !approx(vel.Len(), DefaultTuning().Grapple.Speed, 1e-4) {
		t.Fatalf("expected constant homing speed, got %v", vel.Len())
	}

	if got := r.g.Finish(); got != Target(tg) {
		t.Fatalf("expected Finish to return the grappled target")
	}
	if r.g.Homing() {
		t.Fatalf("expected homing cleared")
	}
	if len(tg.clipping) != 2 || tg.clipping[1] {
		t.Fatalf("expected clipping disabled on finish, got %v", tg.clipping)
	}
}

func TestGrappleCanLaunch(t *testing.T) {
	cases := []struct {
		name     string
		target   mgl32.Vec3
		grounded bool
		want     bool
	}{
		{"in_range", mgl32.Vec3{9, 0, 0}, false, true},
		{"out_of_range", mgl32.Vec3{12, 0, 0}, false, false},
		{"grounded", mgl32.Vec3{9, 0, 0}, true, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newGrappleRig(t)
			r.add(1, c.target)
			r.g.Acquire(false, false)
			if got := r.g.CanLaunch(mgl32.Vec3{}, c.grounded); got != c.want {
				t.Fatalf("expected CanLaunch=%v, got %v", c.want, got)
			}
		})
	}
}
