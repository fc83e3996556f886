package movement

import "github.com/go-gl/mathgl/mgl32"

// Layer is a bitmask of collision layers used to filter spatial queries.
type Layer uint32

const (
	LayerGround Layer = 1 << iota
	LayerWall
	LayerTarget
	LayerPlayer
	LayerCeiling
)

// ObstructionLayers blocks grapple line of sight. Targets are included so a
// nearer target can hide one behind it.
const ObstructionLayers = LayerGround | LayerWall | LayerCeiling | LayerTarget

// ColliderID identifies a collider inside the probe's world.
type ColliderID uint64

// Target is anything the player can lock on to, grapple to and damage.
// Implementations are not owned by the movement core; liveness is checked
// through IsDead on every use.
type Target interface {
	IsDead() bool
	ApplyDamage(amount float32)
	Position() mgl32.Vec3
}

// Clippable targets let the player pass through them while grappling.
type Clippable interface {
	AllowClipping(allow bool)
}

// Candidate pairs a collider found by an overlap query with its target
// capability. Target may be nil when the collider is not grapple-able.
type Candidate struct {
	Collider ColliderID
	Target   Target
}

type Hit struct {
	Collider ColliderID
	Layer    Layer
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
}

type Probe interface {
	CheckSphere(center mgl32.Vec3, radius float32, mask Layer) bool
	// Raycast returns the nearest hit along dir within maxDist.
	Raycast(origin, dir mgl32.Vec3, maxDist float32, mask Layer) (Hit, bool)
}

type TargetSource interface {
	OverlapTargets(center mgl32.Vec3, radius float32) []Candidate
}

// View is the first-person camera the player steers with.
type View interface {
	Origin() mgl32.Vec3
	Forward() mgl32.Vec3
	Right() mgl32.Vec3
	// WorldToScreen reports false when p is behind the camera.
	WorldToScreen(p mgl32.Vec3) (mgl32.Vec2, bool)
}

// Body is the player's rigid body. Position is the bottom centre of the
// collision box.
type Body interface {
	Position() mgl32.Vec3
	Velocity() mgl32.Vec3
	SetVelocity(v mgl32.Vec3)
	SetGravityEnabled(enabled bool)
	SetHeightScale(scale float32)
}

// StandProbe reports whether there is room to stand up from a slide.
type StandProbe interface {
	CanStand() bool
}

// HitWindow opens and closes the melee hit detection volume.
type HitWindow interface {
	SetHitWindow(enabled bool)
}

type alwaysStand struct{}

func (alwaysStand) CanStand() bool { return true }

type nopHitWindow struct{}

func (nopHitWindow) SetHitWindow(bool) {}

type noTargets struct{}

func (noTargets) OverlapTargets(mgl32.Vec3, float32) []Candidate { return nil }
