package system

import (
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
)

// PlayerControllerSystem feeds buffered input to each player's movement
// controller and steps it.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World, dt float32) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.PlayerComponent.Kind(), func(e ecs.Entity, player *component.Player) {
		if player.Controller == nil {
			return
		}
		if input, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			for _, a := range input.Actions {
				player.Controller.Perform(a.Action, a.Data)
			}
			input.Actions = input.Actions[:0]
		}
		player.Controller.Step(dt)
	})
}
