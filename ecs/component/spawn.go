package component

import "github.com/go-gl/mathgl/mgl32"

type Spawn struct {
	Position mgl32.Vec3
	Yaw      float32
}

var SpawnComponent = NewComponent[Spawn]()
