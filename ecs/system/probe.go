package system

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/common"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/movement"
)

// Probe answers movement queries against every collider in the world except
// the one belonging to Ignore. Collider ids are entity handles.
type Probe struct {
	w      *ecs.World
	Ignore ecs.Entity

	handles map[ecs.Entity]*TargetHandle
}

func NewProbe(w *ecs.World, ignore ecs.Entity) *Probe {
	return &Probe{w: w, Ignore: ignore, handles: map[ecs.Entity]*TargetHandle{}}
}

func colliderID(e ecs.Entity) movement.ColliderID { return movement.ColliderID(e) }

// boxDistance is the distance from v to the closest point of bb, zero inside.
func boxDistance(bb cube.BBox, v mgl32.Vec3) float32 {
	x := math32.Max(bb.Min().X()-v.X(), math32.Max(0, v.X()-bb.Max().X()))
	y := math32.Max(bb.Min().Y()-v.Y(), math32.Max(0, v.Y()-bb.Max().Y()))
	z := math32.Max(bb.Min().Z()-v.Z(), math32.Max(0, v.Z()-bb.Max().Z()))
	return math32.Sqrt(x*x + y*y + z*z)
}

func insideXZ(bb cube.BBox, p mgl32.Vec3, pad float32) bool {
	return p.X() >= bb.Min().X()-pad && p.X() <= bb.Max().X()+pad &&
		p.Z() >= bb.Min().Z()-pad && p.Z() <= bb.Max().Z()+pad
}

func (p *Probe) forEachCollider(mask movement.Layer, fn func(e ecs.Entity, t *component.Transform, c *component.Collider)) {
	if p == nil || p.w == nil {
		return
	}
	ecs.ForEach2(p.w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Collider, t *component.Transform) {
		if e == p.Ignore || c.Layer&mask == 0 {
			return
		}
		fn(e, t, c)
	})
}

func (p *Probe) CheckSphere(center mgl32.Vec3, radius float32, mask movement.Layer) bool {
	found := false
	p.forEachCollider(mask, func(_ ecs.Entity, t *component.Transform, c *component.Collider) {
		if found {
			return
		}
		bb := c.Box(t.Position)
		if boxDistance(bb, center) > radius {
			return
		}
		if !c.IsRamp() {
			found = true
			return
		}
		if !insideXZ(bb, center, radius) {
			return
		}
		// Distance to the ramp plane along its normal.
		n := common.SafeNormalize(c.Normal)
		surface := mgl32.Vec3{center.X(), c.SurfaceHeight(t.Position, center.X(), center.Z()), center.Z()}
		found = center.Sub(surface).Dot(n) <= radius
	})
	return found
}

func (p *Probe) Raycast(origin, dir mgl32.Vec3, maxDist float32, mask movement.Layer) (movement.Hit, bool) {
	dir = common.SafeNormalize(dir)
	if dir.Len() == 0 || maxDist <= 0 {
		return movement.Hit{}, false
	}
	end := origin.Add(dir.Mul(maxDist))

	var best movement.Hit
	hasHit := false
	p.forEachCollider(mask, func(e ecs.Entity, t *component.Transform, c *component.Collider) {
		var hit movement.Hit
		var ok bool
		if c.IsRamp() {
			hit, ok = rampIntercept(t, c, origin, dir, maxDist)
		} else {
			hit, ok = boxIntercept(c.Box(t.Position), origin, end)
		}
		if !ok {
			return
		}
		if hasHit && hit.Distance >= best.Distance {
			return
		}
		hit.Collider = colliderID(e)
		hit.Layer = c.Layer
		best = hit
		hasHit = true
	})
	return best, hasHit
}

func boxIntercept(bb cube.BBox, start, end mgl32.Vec3) (movement.Hit, bool) {
	res, ok := trace.BBoxIntercept(bb, start, end)
	if !ok {
		return movement.Hit{}, false
	}
	point := res.Position()
	return movement.Hit{
		Point:    point,
		Normal:   faceNormal(bb, point),
		Distance: point.Sub(start).Len(),
	}, true
}

// faceNormal picks the face of bb nearest to a point on its surface.
func faceNormal(bb cube.BBox, p mgl32.Vec3) mgl32.Vec3 {
	lo, hi := bb.Min(), bb.Max()
	var best float32 = math32.MaxFloat32
	var n mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		if d := math32.Abs(p[axis] - lo[axis]); d < best {
			best = d
			n = mgl32.Vec3{}
			n[axis] = -1
		}
		if d := math32.Abs(p[axis] - hi[axis]); d < best {
			best = d
			n = mgl32.Vec3{}
			n[axis] = 1
		}
	}
	return n
}

func rampIntercept(t *component.Transform, c *component.Collider, origin, dir mgl32.Vec3, maxDist float32) (movement.Hit, bool) {
	n := common.SafeNormalize(c.Normal)
	denom := dir.Dot(n)
	if denom >= 0 {
		return movement.Hit{}, false
	}
	centre := t.Position.Add(c.Min.Add(c.Max).Mul(0.5))
	dist := centre.Sub(origin).Dot(n) / denom
	if dist < 0 || dist > maxDist {
		return movement.Hit{}, false
	}
	point := origin.Add(dir.Mul(dist))
	if !insideXZ(c.Box(t.Position), point, 0) {
		return movement.Hit{}, false
	}
	return movement.Hit{Point: point, Normal: n, Distance: dist}, true
}

// OverlapTargets returns every live target whose box touches the sphere.
func (p *Probe) OverlapTargets(center mgl32.Vec3, radius float32) []movement.Candidate {
	var out []movement.Candidate
	p.forEachCollider(movement.LayerTarget, func(e ecs.Entity, t *component.Transform, c *component.Collider) {
		if !ecs.Has(p.w, e, component.TargetTagComponent.Kind()) {
			return
		}
		if boxDistance(c.Box(t.Position), center) > radius {
			return
		}
		out = append(out, movement.Candidate{Collider: colliderID(e), Target: p.handle(e)})
	})
	return out
}

// handle keeps one TargetHandle per entity so lock comparisons stay stable.
func (p *Probe) handle(e ecs.Entity) *TargetHandle {
	if h, ok := p.handles[e]; ok {
		return h
	}
	h := NewTargetHandle(p.w, e)
	p.handles[e] = h
	return h
}

// Forget drops cached handles for entities that no longer exist.
func (p *Probe) Forget() {
	for e := range p.handles {
		if !ecs.IsAlive(p.w, e) {
			delete(p.handles, e)
		}
	}
}
