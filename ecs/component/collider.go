package component

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/movement"
)

// Collider is an axis-aligned box relative to the entity transform. Layer
// selects which probes see it. A non-zero Normal turns the box into a ramp:
// the solid part is below the plane through the box centre with that normal.
type Collider struct {
	Min    mgl32.Vec3
	Max    mgl32.Vec3
	Layer  movement.Layer
	Normal mgl32.Vec3
}

// Box returns the world-space bounds for an entity at pos.
func (c Collider) Box(pos mgl32.Vec3) cube.BBox {
	lo := pos.Add(c.Min)
	hi := pos.Add(c.Max)
	return cube.Box(lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z())
}

func (c Collider) IsRamp() bool {
	return c.Normal.Len() > 0
}

// SurfaceHeight returns the ramp height at (x, z) for an entity at pos.
// Boxes report their top face.
func (c Collider) SurfaceHeight(pos mgl32.Vec3, x, z float32) float32 {
	if !c.IsRamp() || c.Normal.Y() == 0 {
		return pos.Y() + c.Max.Y()
	}
	centre := pos.Add(c.Min.Add(c.Max).Mul(0.5))
	n := c.Normal
	return centre.Y() - (n.X()*(x-centre.X())+n.Z()*(z-centre.Z()))/n.Y()
}

var ColliderComponent = NewComponent[Collider]()
