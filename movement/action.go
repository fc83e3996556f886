package movement

import "github.com/go-gl/mathgl/mgl32"

type Action int

const (
	ActionMove Action = iota
	ActionJump
	ActionAttack
	ActionSlide
	ActionGrapple
)

func (a Action) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionJump:
		return "jump"
	case ActionAttack:
		return "attack"
	case ActionSlide:
		return "slide"
	case ActionGrapple:
		return "grapple"
	default:
		return "unknown"
	}
}

// ActionData carries the payload of an input action. Vector is only read for
// ActionMove; Released distinguishes key up from key down.
type ActionData struct {
	Vector   mgl32.Vec2
	Released bool
}

func Pressed() ActionData  { return ActionData{} }
func Released() ActionData { return ActionData{Released: true} }

func Move(x, y float32) ActionData { return ActionData{Vector: mgl32.Vec2{x, y}} }
