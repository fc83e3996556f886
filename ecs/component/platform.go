package component

import "github.com/go-gl/mathgl/mgl32"

// Platform oscillates between Start and End at Frequency cycles per second.
// Velocity is written by the platform system every tick.
type Platform struct {
	Start     mgl32.Vec3
	End       mgl32.Vec3
	Frequency float32
	Velocity  mgl32.Vec3
	Time      float32
}

var PlatformComponent = NewComponent[Platform]()
