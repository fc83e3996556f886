package component

import "github.com/milk9111/grapplerun/movement"

type InputAction struct {
	Action movement.Action
	Data   movement.ActionData
}

// Input buffers actions gathered between ticks.
type Input struct {
	Actions []InputAction
}

func (in *Input) Push(a movement.Action, d movement.ActionData) {
	in.Actions = append(in.Actions, InputAction{Action: a, Data: d})
}

var InputComponent = NewComponent[Input]()
