package movement

import "github.com/go-gl/mathgl/mgl32"

// MotionState is a snapshot of the controller's per-tick kinematic state.
type MotionState struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3

	Grounded bool
	OnSlope  bool
	// SlopeAngle is in degrees, positive while descending.
	SlopeAngle   float32
	GroundNormal mgl32.Vec3

	Sliding     bool
	StandQueued bool
	JumpHeld    bool
	InAttack    bool

	WallLeft    bool
	WallRight   bool
	WallRunning bool
	WallJumping bool
	JumpImpulse mgl32.Vec3

	Direction        Direction
	ConveyorVelocity mgl32.Vec3
	Multiplier       float32
}

type MomentumState struct {
	Raw            float32
	Basis          float32
	Highest        float32
	Focus          float32
	MaxFocus       float32
	BuffMultiplier float32
	BuffRemaining  float32
	// LastDelta is the net delta of the last update in percentage units,
	// before the /100, buff and dt scaling.
	LastDelta float32
	Trend     Trend
}

type GrappleState struct {
	Locked          Target
	InRange         bool
	Homing          bool
	HomingTarget    Target
	Destination     mgl32.Vec3
	ArrivalDistance float32
	Reticle         Reticle
}

type WallRunState struct {
	Left         bool
	Right        bool
	Running      bool
	Gravity      float32
	Jumping      bool
	Impulse      mgl32.Vec3
	JumpReleased bool
}
