package movement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const dt = float32(1.0 / 60.0)

type fakeBody struct {
	pos     mgl32.Vec3
	vel     mgl32.Vec3
	gravity bool
	height  float32
}

func (b *fakeBody) Position() mgl32.Vec3         { return b.pos }
func (b *fakeBody) Velocity() mgl32.Vec3         { return b.vel }
func (b *fakeBody) SetVelocity(v mgl32.Vec3)     { b.vel = v }
func (b *fakeBody) SetGravityEnabled(on bool)    { b.gravity = on }
func (b *fakeBody) SetHeightScale(scale float32) { b.height = scale }

func (b *fakeBody) integrate(dt float32) {
	b.pos = b.pos.Add(b.vel.Mul(dt))
}

// fakeProbe answers ground queries from a flag and wall queries by which side
// of the origin, along side, the probe sphere sits on.
type fakeProbe struct {
	ground       bool
	groundNormal mgl32.Vec3
	leftWall     bool
	rightWall    bool
	side         mgl32.Vec3

	blocker *Hit
}

func (p *fakeProbe) CheckSphere(center mgl32.Vec3, radius float32, mask Layer) bool {
	if mask&LayerGround != 0 && p.ground {
		return true
	}
	if mask&LayerWall != 0 {
		if center.Dot(p.side) < 0 {
			return p.leftWall
		}
		return p.rightWall
	}
	return false
}

func (p *fakeProbe) Raycast(origin, dir mgl32.Vec3, maxDist float32, mask Layer) (Hit, bool) {
	if mask == LayerGround {
		if !p.ground {
			return Hit{}, false
		}
		n := p.groundNormal
		if n.Len() == 0 {
			n = mgl32.Vec3{0, 1, 0}
		}
		return Hit{Layer: LayerGround, Normal: n, Distance: 0.35}, true
	}
	if p.blocker != nil && p.blocker.Distance <= maxDist {
		return *p.blocker, true
	}
	return Hit{}, false
}

type fakeTarget struct {
	pos      mgl32.Vec3
	dead     bool
	damage   float32
	clipping []bool
}

func (t *fakeTarget) IsDead() bool               { return t.dead }
func (t *fakeTarget) ApplyDamage(amount float32) { t.damage += amount }
func (t *fakeTarget) Position() mgl32.Vec3       { return t.pos }
func (t *fakeTarget) AllowClipping(allow bool)   { t.clipping = append(t.clipping, allow) }

type fakeSource struct {
	candidates []Candidate
}

func (s *fakeSource) OverlapTargets(center mgl32.Vec3, radius float32) []Candidate {
	var out []Candidate
	for _, c := range s.candidates {
		if c.Target == nil {
			out = append(out, c)
			continue
		}
		if c.Target.Position().Sub(center).Len() <= radius {
			out = append(out, c)
		}
	}
	return out
}

type fakeView struct {
	origin  mgl32.Vec3
	forward mgl32.Vec3
	right   mgl32.Vec3
}

func newFakeView(forward, right mgl32.Vec3) *fakeView {
	return &fakeView{forward: forward, right: right}
}

func (v *fakeView) Origin() mgl32.Vec3  { return v.origin }
func (v *fakeView) Forward() mgl32.Vec3 { return v.forward }
func (v *fakeView) Right() mgl32.Vec3   { return v.right }

func (v *fakeView) WorldToScreen(p mgl32.Vec3) (mgl32.Vec2, bool) {
	rel := p.Sub(v.origin)
	if rel.Dot(v.forward) <= 0 {
		return mgl32.Vec2{}, false
	}
	return mgl32.Vec2{rel.Dot(v.right), rel.Y()}, true
}

type recordingUI struct {
	failed    map[Action]int
	increases []float32
	buffs     []bool
	reticles  []Reticle
	focus     float32
	momentum  float32
	trend     Trend
}

func newRecordingUI() *recordingUI {
	return &recordingUI{failed: map[Action]int{}}
}

func (u *recordingUI) FocusChanged(focus, _ float32)        { u.focus = focus }
func (u *recordingUI) FocusIncreased(amount float32)        { u.increases = append(u.increases, amount) }
func (u *recordingUI) MomentumChanged(raw float32, t Trend) { u.momentum, u.trend = raw, t }
func (u *recordingUI) BuffChanged(active bool, _ float32)   { u.buffs = append(u.buffs, active) }
func (u *recordingUI) ActionFailed(a Action)                { u.failed[a]++ }
func (u *recordingUI) ReticleChanged(r Reticle)             { u.reticles = append(u.reticles, r) }

type fakeHitWindow struct {
	open   bool
	opens  int
	closes int
}

func (h *fakeHitWindow) SetHitWindow(enabled bool) {
	if enabled {
		h.opens++
	} else if h.open {
		h.closes++
	}
	h.open = enabled
}

type fakeStand struct {
	can bool
}

func (s *fakeStand) CanStand() bool { return s.can }

type rig struct {
	body    *fakeBody
	probe   *fakeProbe
	view    *fakeView
	source  *fakeSource
	ui      *recordingUI
	hits    *fakeHitWindow
	stand   *fakeStand
	session *Session
	c       *Controller
}

// newRig builds an airborne controller at the origin with the camera looking
// down +X and +Z to its right. tune adjusts the defaults before construction.
func newRig(t *testing.T, tune func(*Tuning)) *rig {
	t.Helper()
	tuning := DefaultTuning()
	if tune != nil {
		tune(&tuning)
	}
	r := &rig{
		body:    &fakeBody{},
		probe:   &fakeProbe{side: mgl32.Vec3{0, 0, 1}},
		view:    newFakeView(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}),
		source:  &fakeSource{},
		ui:      newRecordingUI(),
		hits:    &fakeHitWindow{},
		stand:   &fakeStand{can: true},
		session: NewSession(nil),
	}
	c, err := NewController(Config{
		Tuning:    tuning,
		Body:      r.body,
		Probe:     r.probe,
		Targets:   r.source,
		View:      r.view,
		Stand:     r.stand,
		HitWindow: r.hits,
		UI:        r.ui,
		Session:   r.session,
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	r.c = c
	return r
}

func (r *rig) addTarget(id ColliderID, pos mgl32.Vec3) *fakeTarget {
	tg := &fakeTarget{pos: pos}
	r.source.candidates = append(r.source.candidates, Candidate{Collider: id, Target: tg})
	return tg
}

func approx(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}
