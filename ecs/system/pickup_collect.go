package system

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/movement"
	"github.com/sirupsen/logrus"
)

type PickupCollectSystem struct {
	log logrus.FieldLogger
}

func NewPickupCollectSystem(log logrus.FieldLogger) *PickupCollectSystem {
	return &PickupCollectSystem{log: log.WithField("system", "pickup")}
}

// Update applies every uncollected pickup the player's body overlaps.
func (s *PickupCollectSystem) Update(w *ecs.World, _ float32) {
	if w == nil {
		return
	}

	player, t, ok := playerTransform(w)
	if !ok {
		return
	}
	body, ok := ecs.Get(w, player, component.BodyComponent.Kind())
	if !ok {
		return
	}
	p, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok || p.Controller == nil {
		return
	}
	// The body box shrinks while sliding.
	box := bodyBox(t.Position, body)

	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pickup *component.Pickup, pt *component.Transform) {
		if pickup.Collected {
			return
		}
		if !overlaps(box, pickupBox(pickup, pt.Position)) {
			return
		}

		applyPickup(p.Controller, pickup)
		pickup.Collected = true
		w.Events().Push(ecs.Event{Type: ecs.EventPickupCollected, Entity: e, Data: pickup.Effect})
		s.log.WithFields(logrus.Fields{"entity": e, "effect": pickup.Effect, "amount": pickup.Amount}).Info("pickup collected")
	})
}

func applyPickup(c *movement.Controller, p *component.Pickup) {
	switch p.Effect {
	case component.PickupSpeedBuff:
		c.BuffMomentum(p.Duration, p.Multiplier)
		c.AddFocus(p.Amount)
	case component.PickupMaxFocus:
		c.ChangeMaxFocus(p.Amount)
	case component.PickupStartFocus:
		c.ChangeStartFocus(p.Amount, !p.Set)
	}
}

func pickupBox(p *component.Pickup, pos mgl32.Vec3) cube.BBox {
	h := p.HalfSize
	return cube.Box(pos.X()-h, pos.Y()-h, pos.Z()-h, pos.X()+h, pos.Y()+h, pos.Z()+h)
}

// resetPickups makes non-persistent pickups collectable again.
func resetPickups(w *ecs.World) int {
	reset := 0
	ecs.ForEach(w, component.PickupComponent.Kind(), func(_ ecs.Entity, p *component.Pickup) {
		if p.Collected && !p.Persistent {
			p.Collected = false
			reset++
		}
	})
	return reset
}
