package component

import "github.com/go-gl/mathgl/mgl32"

// Body is a kinematic capsule approximated by a box of Radius half-width and
// StandHeight*HeightScale height above the transform.
type Body struct {
	Velocity       mgl32.Vec3
	Gravity        float32
	GravityEnabled bool
	HeightScale    float32
	StandHeight    float32
	Radius         float32

	Grounded bool
	// Ground is the entity the body is resting on, zero when airborne.
	Ground uint64
}

// Height is the current collider height.
func (b Body) Height() float32 {
	scale := b.HeightScale
	if scale <= 0 {
		scale = 1
	}
	return b.StandHeight * scale
}

var BodyComponent = NewComponent[Body]()
