package component

// Camera is a first-person view attached to the player. Angles are radians.
type Camera struct {
	Yaw         float32
	Pitch       float32
	EyeHeight   float32
	FOV         float32
	Near        float32
	Far         float32
	Sensitivity float32
}

var CameraComponent = NewComponent[Camera]()
