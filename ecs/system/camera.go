package system

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/common"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/movement"
)

// maxPitch keeps the view short of straight up or down.
var maxPitch = mgl32.DegToRad(89)

// CameraView is the first-person camera riding on the player entity. Yaw 0
// looks down +X; positive yaw turns toward +Z.
type CameraView struct {
	w *ecs.World
	e ecs.Entity

	Width  int
	Height int
}

func NewCameraView(w *ecs.World, e ecs.Entity, width, height int) *CameraView {
	return &CameraView{w: w, e: e, Width: width, Height: height}
}

func (v *CameraView) camera() component.Camera {
	if c, ok := ecs.Get(v.w, v.e, component.CameraComponent.Kind()); ok {
		return *c
	}
	return component.Camera{}
}

func (v *CameraView) Origin() mgl32.Vec3 {
	t, ok := ecs.Get(v.w, v.e, component.TransformComponent.Kind())
	if !ok {
		return mgl32.Vec3{}
	}
	eye := v.camera().EyeHeight
	if body, ok := ecs.Get(v.w, v.e, component.BodyComponent.Kind()); ok && body.HeightScale > 0 {
		eye *= body.HeightScale
	}
	return t.Position.Add(common.Up.Mul(eye))
}

func (v *CameraView) Forward() mgl32.Vec3 {
	c := v.camera()
	cp := math32.Cos(c.Pitch)
	return mgl32.Vec3{cp * math32.Cos(c.Yaw), math32.Sin(c.Pitch), cp * math32.Sin(c.Yaw)}
}

// Right is always horizontal.
func (v *CameraView) Right() mgl32.Vec3 {
	c := v.camera()
	return mgl32.Vec3{-math32.Sin(c.Yaw), 0, math32.Cos(c.Yaw)}
}

func (v *CameraView) WorldToScreen(p mgl32.Vec3) (mgl32.Vec2, bool) {
	eye := v.Origin()
	fwd := v.Forward()
	if p.Sub(eye).Dot(fwd) <= 0 || v.Width <= 0 || v.Height <= 0 {
		return mgl32.Vec2{}, false
	}
	c := v.camera()
	near, far := c.Near, c.Far
	if near <= 0 {
		near = 0.05
	}
	if far <= near {
		far = 500
	}
	view := mgl32.LookAtV(eye, eye.Add(fwd), common.Up)
	proj := mgl32.Perspective(c.FOV, float32(v.Width)/float32(v.Height), near, far)
	win := mgl32.Project(p, view, proj, 0, 0, v.Width, v.Height)
	// Project is bottom-up; screens are top-down.
	return mgl32.Vec2{win.X(), float32(v.Height) - win.Y()}, true
}

// Look turns the camera by a mouse delta in pixels.
func (v *CameraView) Look(dx, dy float32) {
	c, ok := ecs.Get(v.w, v.e, component.CameraComponent.Kind())
	if !ok {
		return
	}
	c.Yaw = wrapAngle(c.Yaw + dx*c.Sensitivity)
	c.Pitch = mgl32.Clamp(c.Pitch-dy*c.Sensitivity, -maxPitch, maxPitch)
}

// SetYaw points the camera at yaw radians with a level pitch.
func (v *CameraView) SetYaw(yaw float32) {
	if c, ok := ecs.Get(v.w, v.e, component.CameraComponent.Kind()); ok {
		c.Yaw = wrapAngle(yaw)
		c.Pitch = 0
	}
}

func wrapAngle(a float32) float32 {
	for a > math32.Pi {
		a -= 2 * math32.Pi
	}
	for a < -math32.Pi {
		a += 2 * math32.Pi
	}
	return a
}

var _ movement.View = (*CameraView)(nil)
