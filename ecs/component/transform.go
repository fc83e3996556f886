package component

import "github.com/go-gl/mathgl/mgl32"

// Transform places an entity in the world. For bodies Position is the bottom
// centre of the collider.
type Transform struct {
	Position mgl32.Vec3
}

var TransformComponent = NewComponent[Transform]()
