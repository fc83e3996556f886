package system

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/common"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/movement"
)

// solidLayers block bodies. Targets stop blocking while their clipping flag
// is set.
const solidLayers = movement.LayerGround | movement.LayerWall | movement.LayerCeiling | movement.LayerTarget

const (
	// maxStep is the tallest ramp lip a body walks onto instead of into.
	maxStep = 0.5
	// groundSnap keeps a descending body glued to a ramp surface.
	groundSnap = 0.1
)

// KinematicSystem integrates bodies and resolves them against solid colliders
// one axis at a time.
type KinematicSystem struct {
	// MaxFall caps downward speed; zero disables the cap.
	MaxFall float32
}

func NewKinematicSystem() *KinematicSystem { return &KinematicSystem{MaxFall: 50} }

type solid struct {
	e    ecs.Entity
	box  cube.BBox
	c    *component.Collider
	t    *component.Transform
	ramp bool
}

func collectSolids(w *ecs.World) []solid {
	var out []solid
	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Collider, t *component.Transform) {
		if c.Layer&solidLayers == 0 {
			return
		}
		if tag, ok := ecs.Get(w, e, component.TargetTagComponent.Kind()); ok && tag.Clipping {
			return
		}
		out = append(out, solid{e: e, box: c.Box(t.Position), c: c, t: t, ramp: c.IsRamp()})
	})
	return out
}

func bodyBox(pos mgl32.Vec3, b *component.Body) cube.BBox {
	r := b.Radius
	return cube.Box(pos.X()-r, pos.Y(), pos.Z()-r, pos.X()+r, pos.Y()+b.Height(), pos.Z()+r)
}

func overlaps(a, b cube.BBox) bool {
	const eps = common.Epsilon
	return a.Max().X()-b.Min().X() > eps && b.Max().X()-a.Min().X() > eps &&
		a.Max().Y()-b.Min().Y() > eps && b.Max().Y()-a.Min().Y() > eps &&
		a.Max().Z()-b.Min().Z() > eps && b.Max().Z()-a.Min().Z() > eps
}

func (s *KinematicSystem) Update(w *ecs.World, dt float32) {
	if s == nil || w == nil || dt <= 0 {
		return
	}
	solids := collectSolids(w)

	ecs.ForEach2(w, component.BodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.Body, t *component.Transform) {
		if body.GravityEnabled {
			body.Velocity[1] -= body.Gravity * dt
		}
		if s.MaxFall > 0 && body.Velocity.Y() < -s.MaxFall {
			body.Velocity[1] = -s.MaxFall
		}

		body.Grounded = false
		body.Ground = 0
		pos := t.Position
		lo := mgl32.Vec3{-body.Radius, 0, -body.Radius}
		hi := mgl32.Vec3{body.Radius, body.Height(), body.Radius}

		// Horizontal first so ledges don't catch a falling body.
		for _, axis := range [3]int{0, 2, 1} {
			delta := body.Velocity[axis] * dt
			if delta == 0 {
				continue
			}
			pos[axis] += delta
			for _, sd := range solids {
				if sd.e == e {
					continue
				}
				if sd.ramp && (axis == 1 || pos.Y() >= sd.c.SurfaceHeight(sd.t.Position, pos.X(), pos.Z())-maxStep) {
					continue
				}
				if !overlaps(bodyBox(pos, body), sd.box) {
					continue
				}
				if delta > 0 {
					pos[axis] = sd.box.Min()[axis] - hi[axis]
				} else {
					pos[axis] = sd.box.Max()[axis] - lo[axis]
					if axis == 1 {
						body.Grounded = true
						body.Ground = uint64(sd.e)
					}
				}
				body.Velocity[axis] = 0
			}
		}

		for _, sd := range solids {
			if !sd.ramp || sd.e == e || !insideXZ(sd.box, pos, 0) {
				continue
			}
			surface := sd.c.SurfaceHeight(sd.t.Position, pos.X(), pos.Z())
			below := pos.Y() < surface && pos.Y() >= surface-maxStep
			near := pos.Y() >= surface && pos.Y() <= surface+groundSnap && body.Velocity.Y() <= 0
			if !below && !near {
				continue
			}
			pos[1] = surface
			if body.Velocity.Y() < 0 {
				body.Velocity[1] = 0
			}
			body.Grounded = true
			body.Ground = uint64(sd.e)
		}

		t.Position = pos
	})
}
