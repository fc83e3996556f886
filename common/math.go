package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance used for float comparisons across the simulation.
const Epsilon = 1e-5

var Up = mgl32.Vec3{0, 1, 0}

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// ExpDecay moves current toward target by an exponential factor of rate*dt.
func ExpDecay(current, target, rate, dt float32) float32 {
	if rate <= 0 || dt <= 0 {
		return current
	}
	return target + (current-target)*math32.Exp(-rate*dt)
}

// ExpLerp is frame-rate independent interpolation from current toward target.
func ExpLerp(current, target, rate, dt float32) float32 {
	return Lerp(current, target, 1-math32.Exp(-rate*dt))
}

func MoveTowards(current, target, maxDelta float32) float32 {
	if math32.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// Flatten drops the vertical component and renormalizes. Returns the zero
// vector when nothing is left.
func Flatten(v mgl32.Vec3) mgl32.Vec3 {
	return SafeNormalize(mgl32.Vec3{v.X(), 0, v.Z()})
}

// SafeNormalize returns the zero vector for near-zero input.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// AngleBetween returns the angle in degrees between two vectors.
func AngleBetween(a, b mgl32.Vec3) float32 {
	la, lb := a.Len(), b.Len()
	if la < Epsilon || lb < Epsilon {
		return 0
	}
	cos := mgl32.Clamp(a.Dot(b)/(la*lb), -1, 1)
	return mgl32.RadToDeg(math32.Acos(cos))
}

// ProjectOnPlane removes the component of v along the plane normal n.
func ProjectOnPlane(v, n mgl32.Vec3) mgl32.Vec3 {
	n = SafeNormalize(n)
	if n.Len() == 0 {
		return v
	}
	return v.Sub(n.Mul(v.Dot(n)))
}

func Vec2Equal(a, b mgl32.Vec2) bool {
	return math32.Abs(a.X()-b.X()) < Epsilon && math32.Abs(a.Y()-b.Y()) < Epsilon
}
