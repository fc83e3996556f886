package component

import "github.com/go-gl/mathgl/mgl32"

// MotionScript drives an entity's position from a tengo script.
type MotionScript struct {
	Path   string
	Origin mgl32.Vec3
	Time   float32
	// Disabled is set after a compile or runtime error.
	Disabled bool
}

var MotionScriptComponent = NewComponent[MotionScript]()
