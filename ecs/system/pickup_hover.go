package system

import (
	"github.com/chewxy/math32"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
)

const (
	defaultBobAmplitude = 0.1
	defaultBobFrequency = 0.4
)

type PickupHoverSystem struct{}

func NewPickupHoverSystem() *PickupHoverSystem { return &PickupHoverSystem{} }

// Update floats every pickup on a sine around the height it spawned at.
func (s *PickupHoverSystem) Update(w *ecs.World, dt float32) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pickup *component.Pickup, t *component.Transform) {
		if !pickup.Initialized {
			pickup.BaseY = t.Position.Y()
			pickup.Initialized = true
			if pickup.BobAmplitude == 0 {
				pickup.BobAmplitude = defaultBobAmplitude
			}
			if pickup.BobFrequency == 0 {
				pickup.BobFrequency = defaultBobFrequency
			}
		}

		pickup.BobPhase += dt * pickup.BobFrequency * 2 * math32.Pi
		t.Position[1] = pickup.BaseY + math32.Sin(pickup.BobPhase)*pickup.BobAmplitude
	})
}
