package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/common"
)

type Direction int

const (
	DirectionNone Direction = iota
	DirectionForward
	DirectionBackward
	DirectionLeft
	DirectionRight
	DirectionOther
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionOther:
		return "other"
	default:
		return "none"
	}
}

// ClassifyDirection maps a raw 2D input vector (x = strafe, y = forward) onto
// a Direction. Only the four exact axis vectors count as cardinal; diagonals
// and partial deflections are Other.
func ClassifyDirection(v mgl32.Vec2) Direction {
	switch {
	case common.Vec2Equal(v, mgl32.Vec2{}):
		return DirectionNone
	case common.Vec2Equal(v, mgl32.Vec2{0, 1}):
		return DirectionForward
	case common.Vec2Equal(v, mgl32.Vec2{0, -1}):
		return DirectionBackward
	case common.Vec2Equal(v, mgl32.Vec2{-1, 0}):
		return DirectionLeft
	case common.Vec2Equal(v, mgl32.Vec2{1, 0}):
		return DirectionRight
	default:
		return DirectionOther
	}
}
