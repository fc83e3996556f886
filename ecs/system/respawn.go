package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/sirupsen/logrus"
)

type RespawnSystem struct {
	log logrus.FieldLogger
	// KillY requests a respawn for any player that falls below it.
	KillY float32
}

func NewRespawnSystem(log logrus.FieldLogger) *RespawnSystem {
	return &RespawnSystem{log: log.WithField("system", "respawn"), KillY: -30}
}

// Update performs pending respawn requests for players. It runs before the
// player system so the controller starts the tick from the spawn point.
func (s *RespawnSystem) Update(w *ecs.World, _ float32) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, t *component.Transform) {
		if t.Position.Y() < s.KillY && !ecs.Has(w, e, component.RespawnRequestComponent.Kind()) {
			_ = ecs.Add(w, e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{})
		}
	})

	ecs.ForEach(w, component.RespawnRequestComponent.Kind(), func(e ecs.Entity, _ *component.RespawnRequest) {
		_ = ecs.Remove(w, e, component.RespawnRequestComponent.Kind())
		if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
			return
		}

		spawn, ok := ecs.Get(w, e, component.SpawnComponent.Kind())
		if !ok {
			return
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = spawn.Position
		}
		if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
			body.Velocity = mgl32.Vec3{}
			body.Grounded = false
			body.Ground = 0
		}
		if c, ok := ecs.Get(w, e, component.CameraComponent.Kind()); ok {
			c.Yaw = spawn.Yaw
			c.Pitch = 0
		}
		if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok && p.Controller != nil {
			p.Controller.Respawn()
		}
		if n := resetPickups(w); n > 0 {
			s.log.WithField("pickups", n).Debug("pickups restored")
		}

		w.Events().Push(ecs.Event{Type: ecs.EventRespawned, Entity: e})
		s.log.WithField("position", spawn.Position).Debug("moved to spawn")
	})
}
