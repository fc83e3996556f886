package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/common"
	"github.com/sirupsen/logrus"
)

// GrappleTargeting owns the lock-on target and grapple homing.
type GrappleTargeting struct {
	tuning GrappleTuning
	view   View
	probe  Probe
	source TargetSource
	ui     UI
	log    logrus.FieldLogger

	lock         Target
	lockCollider ColliderID
	inRange      bool

	homing       bool
	homingTarget Target
	destination  mgl32.Vec3
	homingLimit  Continuation

	reticle Reticle
}

func NewGrappleTargeting(t Tuning, view View, probe Probe, source TargetSource, ui UI, log logrus.FieldLogger) *GrappleTargeting {
	if source == nil {
		source = noTargets{}
	}
	if ui == nil {
		ui = NopUI{}
	}
	if log == nil {
		log = NewSession(nil).Log
	}
	return &GrappleTargeting{
		tuning: t.Grapple,
		view:   view,
		probe:  probe,
		source: source,
		ui:     ui,
		log:    log,
	}
}

func (g *GrappleTargeting) SetTuning(t Tuning) {
	if g == nil {
		return
	}
	g.tuning = t.Grapple
}

func (g *GrappleTargeting) Reset() {
	if g == nil {
		return
	}
	if g.homing {
		g.setClipping(g.homingTarget, false)
	}
	g.homing = false
	g.homingTarget = nil
	g.destination = mgl32.Vec3{}
	g.homingLimit.Cancel()
	g.clearLock()
	g.setReticle(Reticle{})
}

// Acquire picks the best visible target in front of the camera, or keeps the
// previous lock while it stays alive, in range and in sight.
func (g *GrappleTargeting) Acquire(grounded, combatStopped bool) {
	if g == nil {
		return
	}
	if grounded || combatStopped {
		g.clearLock()
		return
	}

	origin := g.view.Origin()
	fwd := common.SafeNormalize(g.view.Forward())
	half := g.tuning.DetectRange / 2
	minDot := math32.Cos(mgl32.DegToRad(g.tuning.ConeHalfAngle))

	var (
		best     Candidate
		found    bool
		bestDot  float32 = -2
		bestDist float32 = math32.MaxFloat32
	)
	for _, c := range g.source.OverlapTargets(origin.Add(fwd.Mul(half)), half) {
		if c.Target == nil || c.Target.IsDead() {
			continue
		}
		to := c.Target.Position().Sub(origin)
		dist := to.Len()
		if dist > g.tuning.DetectRange {
			continue
		}
		dir := common.SafeNormalize(to)
		dot := fwd.Dot(dir)
		if dot < minDot {
			continue
		}
		if !g.lineOfSight(origin, dir, dist, c.Collider) {
			continue
		}
		if dot > bestDot+common.Epsilon || (math32.Abs(dot-bestDot) <= common.Epsilon && dist < bestDist) {
			best, found = c, true
			bestDot, bestDist = dot, dist
		}
	}

	if found {
		if g.lock == nil || best.Collider != g.lockCollider {
			g.log.WithField("collider", best.Collider).Debug("grapple lock acquired")
		}
		g.lock = best.Target
		g.lockCollider = best.Collider
		return
	}

	if g.lock == nil {
		return
	}
	if !g.stillValid(origin) {
		g.log.WithField("collider", g.lockCollider).Debug("grapple lock lost")
		g.clearLock()
	}
}

// stillValid is the persistence rule: liveness, detection range and line of
// sight, without the cone.
func (g *GrappleTargeting) stillValid(origin mgl32.Vec3) bool {
	if g.lock.IsDead() {
		return false
	}
	to := g.lock.Position().Sub(origin)
	dist := to.Len()
	if dist > g.tuning.DetectRange {
		return false
	}
	return g.lineOfSight(origin, common.SafeNormalize(to), dist, g.lockCollider)
}

func (g *GrappleTargeting) lineOfSight(origin, dir mgl32.Vec3, dist float32, own ColliderID) bool {
	if g.probe == nil || dist < common.Epsilon || dir.Len() == 0 {
		return true
	}
	hit, ok := g.probe.Raycast(origin, dir, dist, ObstructionLayers)
	return !ok || hit.Collider == own
}

func (g *GrappleTargeting) clearLock() {
	g.lock = nil
	g.lockCollider = 0
	g.inRange = false
}

// UpdateReticle refreshes the in-range flag and reports reticle changes.
func (g *GrappleTargeting) UpdateReticle(playerPos mgl32.Vec3, grounded, hasFocus bool) {
	if g == nil {
		return
	}
	g.inRange = g.lock != nil && g.lock.Position().Sub(playerPos).Len() <= g.tuning.Range

	if g.lock == nil || grounded {
		g.setReticle(Reticle{})
		return
	}
	screen, ok := g.view.WorldToScreen(g.lock.Position().Add(g.tuning.Offset.Vec3()))
	if !ok {
		g.setReticle(Reticle{})
		return
	}
	state := ReticleIdle
	if g.inRange && hasFocus {
		state = ReticleReady
	}
	g.setReticle(Reticle{State: state, Screen: screen})
}

func (g *GrappleTargeting) setReticle(r Reticle) {
	if r == g.reticle {
		return
	}
	g.reticle = r
	g.ui.ReticleChanged(r)
}

// CanLaunch reports whether a grapple would start from playerPos.
func (g *GrappleTargeting) CanLaunch(playerPos mgl32.Vec3, grounded bool) bool {
	if g == nil || grounded || g.homing || g.lock == nil || g.lock.IsDead() {
		return false
	}
	return g.lock.Position().Sub(playerPos).Len() <= g.tuning.Range
}

// Launch starts homing toward the locked target. The destination is captured
// here and never re-read from the target.
func (g *GrappleTargeting) Launch() bool {
	if g == nil || g.lock == nil {
		return false
	}
	g.homing = true
	g.homingTarget = g.lock
	g.destination = g.lock.Position().Add(g.tuning.Offset.Vec3())
	g.homingLimit.Restart(g.tuning.MaxHomingTime)
	g.setClipping(g.homingTarget, true)
	g.log.WithField("destination", g.destination).Debug("grapple launched")
	return true
}

// Home returns this tick's homing velocity and whether the player arrives
// within the threshold after moving with it.
func (g *GrappleTargeting) Home(pos mgl32.Vec3, dt float32) (mgl32.Vec3, bool) {
	if g == nil || !g.homing {
		return mgl32.Vec3{}, false
	}
	to := g.destination.Sub(pos)
	vel := common.SafeNormalize(to).Mul(g.tuning.Speed)
	arrived := to.Len()-g.tuning.Speed*dt <= g.tuning.ArrivalDistance+common.Epsilon
	return vel, arrived
}

// Expired ticks the homing limit and reports true on the tick homing has
// run for max_homing_time without arriving.
func (g *GrappleTargeting) Expired(dt float32) bool {
	if g == nil || !g.homing {
		return false
	}
	return g.homingLimit.Tick(dt)
}

// Finish ends homing and returns the target grappled to.
func (g *GrappleTargeting) Finish() Target {
	t := g.stopHoming()
	if t != nil {
		g.log.Debug("grapple arrived")
	}
	return t
}

// Abort ends homing short of the destination. The target is not struck.
func (g *GrappleTargeting) Abort() {
	if g == nil || !g.homing {
		return
	}
	g.log.WithField("destination", g.destination).Debug("grapple aborted")
	g.stopHoming()
}

func (g *GrappleTargeting) stopHoming() Target {
	if g == nil || !g.homing {
		return nil
	}
	t := g.homingTarget
	g.homing = false
	g.homingTarget = nil
	g.homingLimit.Cancel()
	g.setClipping(t, false)
	return t
}

func (g *GrappleTargeting) setClipping(t Target, allow bool) {
	if c, ok := t.(Clippable); ok {
		c.AllowClipping(allow)
	}
}

func (g *GrappleTargeting) Homing() bool  { return g != nil && g.homing }
func (g *GrappleTargeting) InRange() bool { return g != nil && g.inRange }

func (g *GrappleTargeting) Locked() Target {
	if g == nil {
		return nil
	}
	return g.lock
}

func (g *GrappleTargeting) Reticle() Reticle {
	if g == nil {
		return Reticle{}
	}
	return g.reticle
}

func (g *GrappleTargeting) State() GrappleState {
	if g == nil {
		return GrappleState{}
	}
	return GrappleState{
		Locked:          g.lock,
		InRange:         g.inRange,
		Homing:          g.homing,
		HomingTarget:    g.homingTarget,
		Destination:     g.destination,
		ArrivalDistance: g.tuning.ArrivalDistance,
		Reticle:         g.reticle,
	}
}
